// Package email provides an SMTP transport for arrival notifications.
package email

import (
	"context"
	"errors"
	"fmt"
	"net/textproto"

	"gopkg.in/mail.v2"

	"github.com/tutorrito/arrival-notifier/internal/model"
)

// Client sends notification payloads over SMTP.
type Client struct {
	smtpHost string
	smtpPort int
	username string
	password string
	from     string
}

func NewClient(smtpHost string, smtpPort int, username, password, from string) *Client {
	return &Client{
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		username: username,
		password: password,
		from:     from,
	}
}

// Send delivers the payload to the recipient's email address.
//
// SMTP 5xx replies mean the server permanently refused the recipient or the
// content; those are wrapped in model.ErrDeliveryRejected so the dispatcher
// does not retry them. Everything else (dial failures, 4xx replies) is
// transient.
func (c *Client) Send(ctx context.Context, p model.Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	message := mail.NewMessage()

	message.SetHeader("From", c.from)
	message.SetHeader("To", p.To)
	message.SetHeader("Subject", p.Subject)

	message.SetBody("text/plain", p.TextBody)

	dialer := mail.NewDialer(c.smtpHost, c.smtpPort, c.username, c.password)

	if err := dialer.DialAndSend(message); err != nil {
		var protoErr *textproto.Error
		if errors.As(err, &protoErr) && protoErr.Code >= 500 {
			return fmt.Errorf("%w: %v", model.ErrDeliveryRejected, err)
		}

		return fmt.Errorf("send email: %w", err)
	}

	return nil
}
