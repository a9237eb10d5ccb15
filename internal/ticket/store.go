package ticket

import (
	"context"
	"strings"
)

// Store is the ticketing persistence collaborator. Implementations live in
// internal/agent/repo; the engine only depends on this interface.
type Store interface {
	// ListQueues returns all queues for a company.
	ListQueues(ctx context.Context, companyID int) ([]Queue, error)

	// ListTags returns all tags for a company.
	ListTags(ctx context.Context, companyID int) ([]Tag, error)

	// ListUsers returns all users for a company.
	ListUsers(ctx context.Context, companyID int) ([]User, error)

	// ListMessages returns up to limit stored messages for a ticket in
	// chronological order.
	ListMessages(ctx context.Context, ticketID int, limit int) ([]Message, error)

	// TransferQueue moves the ticket to the given queue and persists it.
	TransferQueue(ctx context.Context, queueID int, t *Ticket, c *Contact) error

	// SaveTicket persists the mutated ticket fields.
	SaveTicket(ctx context.Context, t *Ticket) error

	// UpsertTicketTag associates a tag with a ticket. Re-adding an existing
	// association is a no-op.
	UpsertTicketTag(ctx context.Context, ticketID, tagID int) error

	// UpsertContactTag associates a tag with a contact. Re-adding an existing
	// association is a no-op.
	UpsertContactTag(ctx context.Context, contactID, tagID int) error

	// CreateNote records an internal note against a ticket.
	CreateNote(ctx context.Context, n Note) error
}

// Prompts resolves named prompt overrides. A missing override is reported as
// a not-found error; callers fall back to their static prompt.
type Prompts interface {
	Find(ctx context.Context, name string) (string, error)
}

// Snapshot is the per-invocation view of the entities a conversation may
// reference. It is fetched once per turn and never refreshed mid-turn.
type Snapshot struct {
	Queues []Queue
	Tags   []Tag
	Users  []User
}

// QueueByName returns the queue with the given name, ignoring case.
func (s *Snapshot) QueueByName(name string) *Queue {
	for i := range s.Queues {
		if strings.EqualFold(s.Queues[i].Name, name) {
			return &s.Queues[i]
		}
	}
	return nil
}

// TagByName returns the tag with the given name, ignoring case.
func (s *Snapshot) TagByName(name string) *Tag {
	for i := range s.Tags {
		if strings.EqualFold(s.Tags[i].Name, name) {
			return &s.Tags[i]
		}
	}
	return nil
}

// UserByName returns the user with the given name, ignoring case.
func (s *Snapshot) UserByName(name string) *User {
	for i := range s.Users {
		if strings.EqualFold(s.Users[i].Name, name) {
			return &s.Users[i]
		}
	}
	return nil
}

// QueueNames lists the queue names in snapshot order.
func (s *Snapshot) QueueNames() []string {
	names := make([]string, len(s.Queues))
	for i, q := range s.Queues {
		names[i] = q.Name
	}
	return names
}

// TagNames lists the tag names in snapshot order.
func (s *Snapshot) TagNames() []string {
	names := make([]string, len(s.Tags))
	for i, t := range s.Tags {
		names[i] = t.Name
	}
	return names
}

// UserNames lists the user names in snapshot order.
func (s *Snapshot) UserNames() []string {
	names := make([]string, len(s.Users))
	for i, u := range s.Users {
		names[i] = u.Name
	}
	return names
}
