package mailer

import "context"

// Message is a single outbound email.
type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers messages to a student's personal mailbox. Implementations
// must be safe for concurrent use.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
