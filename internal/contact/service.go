// Package contact validates contact form submissions, relays them by mail
// and keeps a copy in the inbox.
package contact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/folio/internal/domain"
	"github.com/MrSnakeDoc/folio/internal/logger"
)

const (
	MsgInvalidForm   = "Invalid form data."
	MsgNotConfigured = "Server is not configured to send emails. Please contact the administrator."
	MsgRelayFailed   = "Sorry, something went wrong and your message could not be sent. Please try again later."
	MsgSent          = "Thanks for reaching out. I'll get back to you shortly."
)

var (
	ErrInvalidForm = errors.New("invalid form data")
	ErrRelayFailed = errors.New("relay failed")
)

// Sender delivers a validated form.
type Sender interface {
	Configured() bool
	Send(ctx context.Context, f Form) error
}

// Recorder keeps submissions; the SQLite inbox implements it.
type Recorder interface {
	Record(ctx context.Context, m domain.ContactMessage) error
}

// Service ties validation, relay and inbox together.
type Service struct {
	sender Sender
	inbox  Recorder // nil = inbox disabled
	logger logger.Logger
	now    func() time.Time
}

func NewService(sender Sender, inbox Recorder, log logger.Logger) *Service {
	return &Service{
		sender: sender,
		inbox:  inbox,
		logger: log,
		now:    time.Now,
	}
}

// Submit validates and relays f. The returned error is ErrInvalidForm,
// ErrSMTPNotConfigured or ErrRelayFailed (wrapping the cause).
// Every valid submission is recorded, delivered or not.
func (s *Service) Submit(ctx context.Context, f Form) error {
	f.Normalize()
	if err := f.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}

	msg := domain.ContactMessage{
		ID:        uuid.NewString(),
		Name:      f.Name,
		Email:     f.Email,
		Message:   f.Message,
		CreatedAt: s.now().UTC(),
	}

	var sendErr error
	switch {
	case !s.sender.Configured():
		s.logger.Error("missing SMTP environment variables, email will not be sent")
		sendErr = ErrSMTPNotConfigured
	default:
		if err := s.sender.Send(ctx, f); err != nil {
			s.logger.Error("failed to send contact email",
				logger.String("message_id", msg.ID),
				logger.Error(err))
			sendErr = fmt.Errorf("%w: %v", ErrRelayFailed, err)
		}
	}

	msg.Delivered = sendErr == nil
	if sendErr != nil {
		msg.DeliveryError = sendErr.Error()
	}
	s.record(ctx, msg)

	return sendErr
}

func (s *Service) record(ctx context.Context, msg domain.ContactMessage) {
	if s.inbox == nil {
		return
	}
	if err := s.inbox.Record(ctx, msg); err != nil {
		s.logger.Warn("failed to record contact message in inbox",
			logger.String("message_id", msg.ID),
			logger.Error(err))
	}
}

// ResultFor maps a Submit error to the user-facing envelope.
func ResultFor(err error) domain.Result {
	switch {
	case err == nil:
		return domain.Ok(MsgSent)
	case errors.Is(err, ErrInvalidForm):
		return domain.Fail(MsgInvalidForm)
	case errors.Is(err, ErrSMTPNotConfigured):
		return domain.Fail(MsgNotConfigured)
	default:
		return domain.Fail(MsgRelayFailed)
	}
}
