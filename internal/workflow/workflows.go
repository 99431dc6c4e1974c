package workflow

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bioproximity/support-service/internal/domain"
	"github.com/bioproximity/support-service/internal/notify"
	"github.com/bioproximity/support-service/internal/observability"
	"github.com/bioproximity/support-service/internal/repository"
	"github.com/bioproximity/support-service/pkg/util"
)

// Fixed failure messages surfaced to callers.
const (
	UnconfirmedEmailMessage = "Confirm your email address to create tickets. Just click the confirmation link we sent to your email."
	CouldNotCreateMessage   = "Could not create ticket"
	TicketClosedMessage     = "Ticket is closed"
)

// TicketWorkflows runs the ticket and comment workflow chains.
type TicketWorkflows struct {
	tickets  repository.TicketRepository
	comments repository.CommentRepository
	events   repository.EventRepository
	users    repository.UserRepository
	admins   repository.AdminRepository
	orders   repository.OrderRepository
	assays   repository.OrderedAssayRepository
	plans    repository.PlanRepository
	queue    notify.Queue
	logger   *zap.Logger
	metrics  *observability.Metrics
	now      func() time.Time
}

// Dependencies bundles collaborators for ticket workflows.
type Dependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.CommentRepository
	EventRepo   repository.EventRepository
	UserRepo    repository.UserRepository
	AdminRepo   repository.AdminRepository
	OrderRepo   repository.OrderRepository
	AssayRepo   repository.OrderedAssayRepository
	PlanRepo    repository.PlanRepository
	Queue       notify.Queue
	Logger      *zap.Logger
	Metrics     *observability.Metrics
	Now         func() time.Time
}

// NewTicketWorkflows constructs the workflow runner.
func NewTicketWorkflows(deps Dependencies) *TicketWorkflows {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketWorkflows{
		tickets:  deps.TicketRepo,
		comments: deps.CommentRepo,
		events:   deps.EventRepo,
		users:    deps.UserRepo,
		admins:   deps.AdminRepo,
		orders:   deps.OrderRepo,
		assays:   deps.AssayRepo,
		plans:    deps.PlanRepo,
		queue:    deps.Queue,
		logger:   logger,
		metrics:  deps.Metrics,
		now:      now,
	}
}

// TicketAvailability is the pre-flight check for opening a ticket on a
// project, so callers can steer users to an upgrade before they draft one.
// A foreign or unknown assay yields util.NewNotFound, a plan outside its
// support window yields allowed=false.
func (w *TicketWorkflows) TicketAvailability(ctx context.Context, user *domain.User, assayID string) (bool, error) {
	assay, err := w.assays.GetByIDForUser(ctx, assayID, user.ID)
	if err != nil {
		return false, util.MapError(err)
	}
	if assay == nil {
		return false, util.NewNotFound("project", nil)
	}
	plan, err := w.plans.GetByCode(ctx, user.PlanCode)
	if err != nil {
		return false, util.MapError(err)
	}
	return plan.AllowsTicketsFor(assay, w.now()), nil
}

func (w *TicketWorkflows) call(ctx context.Context, org Organizer, run *Run) *Run {
	org.Call(ctx, run)
	w.metrics.RecordWorkflow(org.Name(), run.Success())
	if run.Failed() {
		w.logger.Debug("workflow failed",
			zap.String("workflow", org.Name()),
			zap.String("message", run.Message()))
	}
	return run
}

// repoNames resolves author display names through the repositories.
type repoNames struct {
	ctx    context.Context
	users  repository.UserRepository
	admins repository.AdminRepository
}

func (n repoNames) UserName(userID string) string {
	user, err := n.users.GetByID(n.ctx, userID)
	if err != nil {
		return domain.SystemAuthorName
	}
	return user.FullName()
}

func (n repoNames) AdminName(adminID string) string {
	admin, err := n.admins.GetByID(n.ctx, adminID)
	if err != nil {
		return domain.SystemAuthorName
	}
	return admin.FullName()
}

func (w *TicketWorkflows) names(ctx context.Context) domain.AuthorNames {
	return repoNames{ctx: ctx, users: w.users, admins: w.admins}
}

// notifySuperadmins enqueues one message per opted-in superadmin, in
// ascending admin-id order. Enqueue problems are logged, never surfaced.
func (w *TicketWorkflows) notifySuperadmins(ctx context.Context, msg notify.Message) {
	admins, err := w.admins.ListNotifiableSuperadmins(ctx)
	if err != nil {
		w.logger.Warn("failed to list notifiable superadmins", zap.Error(err))
		return
	}
	for _, admin := range admins {
		adminID := admin.ID
		msg := msg
		msg.AdminID = &adminID
		if err := w.queue.Enqueue(ctx, msg); err != nil {
			w.logger.Warn("failed to enqueue admin notification",
				zap.String("admin_id", adminID), zap.Error(err))
		}
	}
}
