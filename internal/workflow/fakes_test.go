package workflow

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bioproximity/support-service/internal/domain"
	"github.com/bioproximity/support-service/internal/notify"
	"github.com/bioproximity/support-service/internal/repository"
)

type fakeTicketRepo struct {
	seq     int
	tickets map[string]*domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*domain.Ticket{}}
}

func (r *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", r.seq)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	t, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTicketRepo) GetByIDForUser(ctx context.Context, id, userID string) (*domain.Ticket, error) {
	t, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	return t, nil
}

func (r *fakeTicketRepo) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	t, ok := r.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	t.Status = status
	return nil
}

func (r *fakeTicketRepo) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, t := range r.tickets {
		result = append(result, *t)
	}
	return result, nil
}

type fakeCommentRepo struct {
	seq      int
	comments map[string]*domain.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[string]*domain.Comment{}}
}

func (r *fakeCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	r.seq++
	comment.ID = fmt.Sprintf("comment-%d", r.seq)
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	stored := *comment
	r.comments[comment.ID] = &stored
	return nil
}

func (r *fakeCommentRepo) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCommentRepo) Update(ctx context.Context, comment *domain.Comment) error {
	stored, ok := r.comments[comment.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Body = comment.Body
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeCommentRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.comments[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	var result []domain.Comment
	for _, c := range r.comments {
		if c.TicketID == ticketID {
			result = append(result, *c)
		}
	}
	return result, nil
}

type fakeEventRepo struct {
	events []domain.Event
}

func (r *fakeEventRepo) Create(ctx context.Context, event *domain.Event) error {
	event.CreatedAt = time.Now()
	r.events = append(r.events, *event)
	return nil
}

func (r *fakeEventRepo) ListByType(ctx context.Context, eventType domain.EventType, limit int) ([]domain.Event, error) {
	var result []domain.Event
	for _, e := range r.events {
		if e.EventType == eventType {
			result = append(result, e)
		}
	}
	return result, nil
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*domain.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) SetEmailNotifications(ctx context.Context, id string, enabled bool) error {
	u, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.EmailNotifications = enabled
	return nil
}

type fakeAdminRepo struct {
	admins map[string]*domain.Admin
}

func newFakeAdminRepo(admins ...*domain.Admin) *fakeAdminRepo {
	r := &fakeAdminRepo{admins: map[string]*domain.Admin{}}
	for _, a := range admins {
		r.admins[a.ID] = a
	}
	return r
}

func (r *fakeAdminRepo) Create(ctx context.Context, admin *domain.Admin) error {
	r.admins[admin.ID] = admin
	return nil
}

func (r *fakeAdminRepo) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	a, ok := r.admins[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAdminRepo) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	for _, a := range r.admins {
		if a.Email == email {
			copied := *a
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAdminRepo) ListNotifiableSuperadmins(ctx context.Context) ([]domain.Admin, error) {
	var result []domain.Admin
	for _, a := range r.admins {
		if a.Role == domain.AdminRoleSuperadmin && a.EmailNotifications {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type fakeOrderRepo struct {
	orders map[string]*domain.Order
}

func newFakeOrderRepo(orders ...*domain.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: map[string]*domain.Order{}}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *o
	return &copied, nil
}

func (r *fakeOrderRepo) ExistsForUser(ctx context.Context, orderID, userID string) (bool, error) {
	o, ok := r.orders[orderID]
	return ok && o.UserID == userID, nil
}

func (r *fakeOrderRepo) SaveLegResult(ctx context.Context, leg *domain.ShipmentLeg) error {
	return nil
}

type fakeAssayRepo struct {
	assays map[string]*domain.OrderedAssay
}

func newFakeAssayRepo(assays ...*domain.OrderedAssay) *fakeAssayRepo {
	r := &fakeAssayRepo{assays: map[string]*domain.OrderedAssay{}}
	for _, a := range assays {
		r.assays[a.ID] = a
	}
	return r
}

func (r *fakeAssayRepo) GetByID(ctx context.Context, id string) (*domain.OrderedAssay, error) {
	a, ok := r.assays[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAssayRepo) GetByIDForUser(ctx context.Context, id, userID string) (*domain.OrderedAssay, error) {
	a, ok := r.assays[id]
	if !ok || a.UserID != userID {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

type fakePlanRepo struct {
	plans map[string]*domain.Plan
}

func newFakePlanRepo(plans ...*domain.Plan) *fakePlanRepo {
	r := &fakePlanRepo{plans: map[string]*domain.Plan{}}
	for _, p := range plans {
		r.plans[p.Code] = p
	}
	return r
}

func (r *fakePlanRepo) GetByCode(ctx context.Context, code string) (*domain.Plan, error) {
	p, ok := r.plans[code]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *p
	return &copied, nil
}

// testEnv bundles the fakes behind a workflow runner for tests.
type testEnv struct {
	workflows *TicketWorkflows
	tickets   *fakeTicketRepo
	comments  *fakeCommentRepo
	events    *fakeEventRepo
	users     *fakeUserRepo
	admins    *fakeAdminRepo
	orders    *fakeOrderRepo
	assays    *fakeAssayRepo
	plans     *fakePlanRepo
	queue     *notify.MemoryQueue
}

func newTestEnv() *testEnv {
	env := &testEnv{
		tickets:  newFakeTicketRepo(),
		comments: newFakeCommentRepo(),
		events:   &fakeEventRepo{},
		users:    newFakeUserRepo(),
		admins:   newFakeAdminRepo(),
		orders:   newFakeOrderRepo(),
		assays:   newFakeAssayRepo(),
		plans:    newFakePlanRepo(&domain.Plan{Code: "basic", Name: "Basic", TicketSupportDays: 30}),
		queue:    notify.NewMemoryQueue(),
	}
	env.workflows = NewTicketWorkflows(Dependencies{
		TicketRepo:  env.tickets,
		CommentRepo: env.comments,
		EventRepo:   env.events,
		UserRepo:    env.users,
		AdminRepo:   env.admins,
		OrderRepo:   env.orders,
		AssayRepo:   env.assays,
		PlanRepo:    env.plans,
		Queue:       env.queue,
	})
	return env
}

func confirmedAt() *time.Time {
	t := time.Now().Add(-24 * time.Hour)
	return &t
}

func (env *testEnv) addUser(id, firstName string, confirmed, notifications bool) *domain.User {
	user := &domain.User{
		ID:                 id,
		FirstName:          firstName,
		LastName:           "Tester",
		Email:              firstName + "@example.com",
		EmailNotifications: notifications,
		PlanCode:           "basic",
	}
	if confirmed {
		user.ConfirmedAt = confirmedAt()
	}
	env.users.users[id] = user
	return user
}

func (env *testEnv) addAdmin(id, firstName string, role domain.AdminRole, notifications bool) *domain.Admin {
	admin := &domain.Admin{
		ID:                 id,
		FirstName:          firstName,
		LastName:           "Admin",
		Email:              firstName + "@bioproximity.com",
		Role:               role,
		EmailNotifications: notifications,
	}
	env.admins.admins[id] = admin
	return admin
}

func (env *testEnv) addOrder(id, userID string) *domain.Order {
	order := &domain.Order{ID: id, UserID: userID, ShippingType: domain.ShippingWithKit}
	env.orders.orders[id] = order
	return order
}

func (env *testEnv) addAssay(id, userID, orderID string) *domain.OrderedAssay {
	assay := &domain.OrderedAssay{
		ID:            id,
		UserID:        userID,
		OrderID:       orderID,
		ProjectStatus: domain.ProjectStatusActive,
	}
	env.assays.assays[id] = assay
	return assay
}
