package domain

import "time"

// Plan describes a subscription plan and its support entitlements.
type Plan struct {
	Code  string
	Name  string
	// Price in minor currency units.
	Price int64
	// TicketSupportDays bounds how long after project completion a user
	// may still open tickets for it. Zero means no limit.
	TicketSupportDays int
}

// DefaultPlanCode is the plan every new account starts on.
const DefaultPlanCode = "basic"

// TicketsNotAvailableMessage is shown when a plan no longer covers
// ticketing for a completed project.
const TicketsNotAvailableMessage = "Upgrade your plan to open tickets for completed projects"

// AllowsTicketsFor reports whether the plan still entitles the user to open
// tickets for the given assay at the given time.
func (p *Plan) AllowsTicketsFor(assay *OrderedAssay, now time.Time) bool {
	if assay.ProjectStatus != ProjectStatusComplete || assay.CompletedAt == nil {
		return true
	}
	if p.TicketSupportDays <= 0 {
		return true
	}
	deadline := assay.CompletedAt.AddDate(0, 0, p.TicketSupportDays)
	return now.Before(deadline)
}
