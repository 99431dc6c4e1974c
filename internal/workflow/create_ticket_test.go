package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/bioproximity/support-service/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestCreateTicketForOrder(t *testing.T) {
	env := newTestEnv()
	user := env.addUser("user-1", "Dana", true, true)
	env.addOrder("order-1", user.ID)
	env.addAdmin("admin-1", "Alex", domain.AdminRoleSuperadmin, true)
	env.addAdmin("admin-2", "Ruslan", domain.AdminRoleSuperadmin, true)
	env.addAdmin("admin-3", "Konstantin", domain.AdminRoleSuperadmin, false)

	run := env.workflows.CreateTicket(context.Background(), CreateTicketInput{
		Title:       "My title",
		Description: "Some description",
		OrderID:     strPtr("order-1"),
		User:        user,
	})

	if !run.Success() {
		t.Fatalf("expected success, got failure: %q", run.Message())
	}
	ticket := run.Ticket()
	if ticket == nil || ticket.ID == "" {
		t.Fatal("expected a persisted ticket on the run")
	}
	if ticket.Status != domain.TicketStatusOpen {
		t.Errorf("status = %q, want open", ticket.Status)
	}
	if !ticket.Author.IsUser() || *ticket.Author.UserID != user.ID {
		t.Errorf("author = %+v, want user author %s", ticket.Author, user.ID)
	}
	if ticket.OrderID == nil || *ticket.OrderID != "order-1" {
		t.Errorf("order reference lost: %+v", ticket.OrderID)
	}
	if ticket.OrderedAssayID != nil {
		t.Errorf("unexpected assay reference: %v", *ticket.OrderedAssayID)
	}

	events := env.events.events
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	event := events[0]
	if event.EventType != domain.EventTicketCreated {
		t.Errorf("event type = %q", event.EventType)
	}
	if event.Title != "Ticket #"+ticket.ID+" created" {
		t.Errorf("event title = %q", event.Title)
	}
	if event.OrderID == nil || *event.OrderID != "order-1" {
		t.Errorf("event order = %+v, want order-1", event.OrderID)
	}
	if event.UserID != user.ID {
		t.Errorf("event actor = %q, want %q", event.UserID, user.ID)
	}
	if event.Meta["author"] != user.FullName() || event.Meta["user"] != user.FullName() {
		t.Errorf("event meta names = %v", event.Meta)
	}
	if event.Meta["ticket_id"] != ticket.ID {
		t.Errorf("event meta ticket_id = %q", event.Meta["ticket_id"])
	}

	msgs := env.queue.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(msgs))
	}
	if *msgs[0].AdminID != "admin-1" || *msgs[1].AdminID != "admin-2" {
		t.Errorf("recipients = %s, %s; want admin-1, admin-2 in ascending order",
			*msgs[0].AdminID, *msgs[1].AdminID)
	}
	for _, msg := range msgs {
		if msg.TicketID != ticket.ID {
			t.Errorf("notification ticket = %q, want %q", msg.TicketID, ticket.ID)
		}
	}
}

func TestCreateTicketValidation(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		errorField  string
	}{
		{"blank title", "  ", "Some description", "title"},
		{"blank description", "My title", "  ", "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			user := env.addUser("user-1", "Dana", true, true)
			env.addOrder("order-1", user.ID)
			env.addAdmin("admin-1", "Alex", domain.AdminRoleSuperadmin, true)

			run := env.workflows.CreateTicket(context.Background(), CreateTicketInput{
				Title:       tt.title,
				Description: tt.description,
				OrderID:     strPtr("order-1"),
				User:        user,
			})

			if run.Success() {
				t.Fatal("expected failure")
			}
			if run.Ticket() == nil {
				t.Fatal("invalid ticket should stay attached to the run")
			}
			if run.Ticket().ID != "" {
				t.Error("invalid ticket must not be persisted")
			}
			errs := run.ValidationErrors()
			if errs == nil || len(errs[tt.errorField]) == 0 {
				t.Errorf("expected validation errors on %q, got %v", tt.errorField, errs)
			}
			if len(env.events.events) != 0 {
				t.Error("validation failure must not create an event")
			}
			if env.queue.Len() != 0 {
				t.Error("validation failure must not enqueue notifications")
			}
		})
	}
}

func TestCreateTicketOrderXorAssay(t *testing.T) {
	env := newTestEnv()
	user := env.addUser("user-1", "Dana", true, true)
	order := env.addOrder("order-1", user.ID)
	env.addAssay("assay-1", user.ID, order.ID)

	run := env.workflows.CreateTicket(context.Background(), CreateTicketInput{
		Title:          "My title",
		Description:    "Some description",
		OrderID:        strPtr("order-1"),
		OrderedAssayID: strPtr("assay-1"),
		User:           user,
	})

	if run.Success() {
		t.Fatal("a ticket referencing both an order and a project must fail")
	}
	errs := run.ValidationErrors()
	if errs == nil || len(errs["order_id"]) == 0 || len(errs["ordered_assay_id"]) == 0 {
		t.Errorf("expected exclusivity errors on both fields, got %v", errs)
	}
	if len(env.events.events) != 0 || env.queue.Len() != 0 {
		t.Error("no event or notification expected")
	}
}

func TestCreateTicketUnconfirmedUser(t *testing.T) {
	env := newTestEnv()
	user := env.addUser("user-1", "Dana", false, true)
	env.addOrder("order-1", user.ID)

	run := env.workflows.CreateTicket(context.Background(), CreateTicketInput{
		Title:       "My title",
		Description: "Some description",
		OrderID:     strPtr("order-1"),
		User:        user,
	})

	if run.Success() {
		t.Fatal("expected failure for unconfirmed user")
	}
	if run.Message() != UnconfirmedEmailMessage {
		t.Errorf("message = %q, want the confirmation prompt", run.Message())
	}
	if len(env.events.events) != 0 || env.queue.Len() != 0 {
		t.Error("no event or notification expected")
	}
}

func TestCreateTicketForeignOrder(t *testing.T) {
	env := newTestEnv()
	user := env.addUser("user-1", "Dana", true, true)
	other := env.addUser("user-2", "Alex", true, true)
	env.addOrder("order-1", other.ID)
	env.addAdmin("admin-1", "Alex", domain.AdminRoleSuperadmin, true)

	run := env.workflows.CreateTicket(context.Background(), CreateTicketInput{
		Title:       "My title",
		Description: "Some description",
		OrderID:     strPtr("order-1"),
		User:        user,
	})

	if run.Success() {
		t.Fatal("expected denial for a foreign order")
	}
	if run.Message() != CouldNotCreateMessage {
		t.Errorf("message = %q, want %q", run.Message(), CouldNotCreateMessage)
	}
	ticket := run.Ticket()
	if ticket == nil {
		t.Fatal("denied ticket should stay attached to the run")
	}
	if ticket.ID != "" {
		t.Error("denied ticket must not be persisted")
	}
	if !ticket.Author.IsUser() || *ticket.Author.UserID != user.ID {
		t.Errorf("attempted author lost: %+v", ticket.Author)
	}
	if ticket.OrderID == nil || *ticket.OrderID != "order-1" {
		t.Errorf("attempted order lost: %+v", ticket.OrderID)
	}
	if len(env.events.events) != 0 || env.queue.Len() != 0 {
		t.Error("no event or notification expected")
	}
}

func TestCreateTicketForAssay(t *testing.T) {
	env := newTestEnv()
	user := env.addUser("user-1", "Dana", true, true)
	order := env.addOrder("order-1", user.ID)
	env.addAssay("assay-1", user.ID, order.ID)
	env.addAdmin("admin-1", "Alex", domain.AdminRoleSuperadmin, true)

	run := env.workflows.CreateTicket(context.Background(), CreateTicketInput{
		Title:          "My title",
		Description:    "Some description",
		OrderedAssayID: strPtr("assay-1"),
		User:           user,
	})

	if !run.Success() {
		t.Fatalf("expected success, got %q", run.Message())
	}
	ticket := run.Ticket()
	if ticket.OrderID != nil {
		t.Errorf("project ticket must not carry an order reference: %v", *ticket.OrderID)
	}
	if ticket.OrderedAssayID == nil || *ticket.OrderedAssayID != "assay-1" {
		t.Errorf("assay reference = %+v", ticket.OrderedAssayID)
	}

	events := env.events.events
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	// The event links to the order behind the project.
	if events[0].OrderID == nil || *events[0].OrderID != order.ID {
		t.Errorf("event order = %+v, want %q", events[0].OrderID, order.ID)
	}
	if events[0].OrderedAssayID == nil || *events[0].OrderedAssayID != "assay-1" {
		t.Errorf("event assay = %+v", events[0].OrderedAssayID)
	}
}

func TestCreateTicketForeignAssay(t *testing.T) {
	env := newTestEnv()
	user := env.addUser("user-1", "Dana", true, true)
	other := env.addUser("user-2", "Alex", true, true)
	order := env.addOrder("order-1", other.ID)
	env.addAssay("assay-1", other.ID, order.ID)

	run := env.workflows.CreateTicket(context.Background(), CreateTicketInput{
		Title:          "My title",
		Description:    "Some description",
		OrderedAssayID: strPtr("assay-1"),
		User:           user,
	})

	if run.Success() {
		t.Fatal("expected denial for a foreign project")
	}
	if run.Message() != CouldNotCreateMessage {
		t.Errorf("message = %q, want %q", run.Message(), CouldNotCreateMessage)
	}
	ticket := run.Ticket()
	if ticket.OrderedAssayID == nil || *ticket.OrderedAssayID != "assay-1" {
		t.Errorf("attempted assay lost: %+v", ticket.OrderedAssayID)
	}
	if ticket.ID != "" {
		t.Error("denied ticket must not be persisted")
	}
}

func TestCreateTicketPlanWindowExpired(t *testing.T) {
	env := newTestEnv()
	user := env.addUser("user-1", "Dana", true, true)
	order := env.addOrder("order-1", user.ID)
	assay := env.addAssay("assay-1", user.ID, order.ID)
	assay.ProjectStatus = domain.ProjectStatusComplete
	completed := time.Now().Add(-31 * 24 * time.Hour)
	assay.CompletedAt = &completed

	run := env.workflows.CreateTicket(context.Background(), CreateTicketInput{
		Title:          "My title",
		Description:    "Some description",
		OrderedAssayID: strPtr("assay-1"),
		User:           user,
	})

	if run.Success() {
		t.Fatal("expected denial once the plan's support window has passed")
	}
	if run.Message() != CouldNotCreateMessage {
		t.Errorf("message = %q, want %q", run.Message(), CouldNotCreateMessage)
	}
}
