package email

import "context"

// Attachment is a file shipped with an outgoing message.
type Attachment struct {
	Filename string
	MIMEType string
	Content  []byte
}

type Provider interface {
	Send(ctx context.Context, to []string, subject string, body string, attachments ...Attachment) error
}

// NoOpProvider is used when no SMTP host is configured.
type NoOpProvider struct{}

func (p *NoOpProvider) Send(ctx context.Context, to []string, subject string, body string, attachments ...Attachment) error {
	return nil
}
