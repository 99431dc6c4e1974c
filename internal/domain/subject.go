package domain

// SubjectType distinguishes the two kinds of authenticated principals.
type SubjectType string

const (
	SubjectTypeUser  SubjectType = "user"
	SubjectTypeAdmin SubjectType = "admin"
)
