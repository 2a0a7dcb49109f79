// Package compose renders arrival notification payloads.
//
// Rendering is deterministic: identical inputs always produce byte-identical
// payloads. The package performs no I/O.
package compose

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tutorrito/arrival-notifier/internal/model"
)

var (
	// ErrEmptyMessage is returned when the tutor message is blank.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrNoContactAddress is returned when the recipient has no usable
	// contact address for the requested channel.
	ErrNoContactAddress = errors.New("recipient has no contact address")
)

const arrivalSubject = "Your tutor is on the way"

// Arrival renders the notification payload for a resolved recipient.
//
// The estimated-arrival time is optional; when absent it is omitted from the
// body and the metadata entirely.
func Arrival(rec model.Recipient, channel, message, estimatedTime string) (model.Payload, error) {
	if strings.TrimSpace(message) == "" {
		return model.Payload{}, ErrEmptyMessage
	}

	to, err := contactFor(rec, channel)
	if err != nil {
		return model.Payload{}, err
	}

	var b strings.Builder
	if rec.Name != "" {
		fmt.Fprintf(&b, "Hi %s,\n\n", rec.Name)
	}
	b.WriteString(message)
	if estimatedTime != "" {
		fmt.Fprintf(&b, "\n\nEstimated arrival: %s", estimatedTime)
	}
	b.WriteString("\n\nThe Tutorrito team")

	var meta map[string]string
	if estimatedTime != "" {
		meta = map[string]string{"estimated_time": estimatedTime}
	}

	return model.Payload{
		Channel:  channel,
		To:       to,
		Subject:  arrivalSubject,
		TextBody: b.String(),
		Metadata: meta,
	}, nil
}

func contactFor(rec model.Recipient, channel string) (string, error) {
	switch channel {
	case model.ChannelTelegram:
		if rec.TelegramChatID == "" {
			return "", fmt.Errorf("%w: missing telegram chat id", ErrNoContactAddress)
		}
		return rec.TelegramChatID, nil
	default:
		if rec.Email == "" {
			return "", fmt.Errorf("%w: missing email", ErrNoContactAddress)
		}
		return rec.Email, nil
	}
}
