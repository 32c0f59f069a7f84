package ports

import "context"

// MailMessage is a single outbound email.
type MailMessage struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers a message synchronously. Implementations should not retry;
// delivery is send-and-forget and failures are logged by the caller.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

// MailQueue accepts messages for asynchronous delivery. Enqueue never blocks
// the request path beyond the queue's buffer.
type MailQueue interface {
	Enqueue(msg MailMessage)
}
