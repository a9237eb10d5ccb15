package ticket

import "time"

// Origin identifies which side of the conversation produced a message.
type Origin string

const (
	OriginAgent    Origin = "agent"
	OriginCustomer Origin = "customer"
)

// MediaKind classifies the payload of a stored message. Only text entries
// participate in the prompt window.
type MediaKind string

const (
	MediaText  MediaKind = "text"
	MediaAudio MediaKind = "audio"
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Ticket is the unit of support work the engine acts on.
type Ticket struct {
	ID        int `json:"id"`
	CompanyID int `json:"companyId"`
	ContactID int `json:"contactId"`
	QueueID   int `json:"queueId"`
	UserID    int `json:"userId"`
}

// Contact is the customer on the other end of the conversation.
type Contact struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Endpoint   string `json:"endpoint"`
	DisableBot bool   `json:"disableBot"`
}

// Queue is a routing destination for tickets.
type Queue struct {
	ID              int    `json:"id"`
	CompanyID       int    `json:"companyId"`
	Name            string `json:"name"`
	GreetingMessage string `json:"greetingMessage"`
}

type Tag struct {
	ID        int    `json:"id"`
	CompanyID int    `json:"companyId"`
	Name      string `json:"name"`
}

type User struct {
	ID        int    `json:"id"`
	CompanyID int    `json:"companyId"`
	Name      string `json:"name"`
}

// Message is one stored conversation entry for a ticket.
type Message struct {
	ID        int       `json:"id"`
	TicketID  int       `json:"ticketId"`
	Origin    Origin    `json:"origin"`
	MediaKind MediaKind `json:"mediaKind"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// Note is an internal annotation on a ticket. UserID is zero when the note
// has no owning user.
type Note struct {
	Note      string    `json:"note"`
	TicketID  int       `json:"ticketId"`
	ContactID int       `json:"contactId"`
	UserID    int       `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
