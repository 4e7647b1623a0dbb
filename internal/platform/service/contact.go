package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/nextprepbd/platform/internal/platform/domain"
	platformmail "github.com/nextprepbd/platform/internal/platform/mail"
	"github.com/nextprepbd/platform/internal/platform/store"
	"github.com/nextprepbd/platform/pkg/idx"
	"github.com/nextprepbd/platform/pkg/slogx"
)

var ErrInvalidMessage = errors.New("invalid message")

// ContactService stores contact-form submissions and forwards them to the
// site inbox. The store write is authoritative; the forward is best-effort
// and never fails the submission.
type ContactService struct {
	Store   store.Store
	Mailer  platformmail.Mailer
	InboxTo string // Site inbox address for forwarded messages
}

func (s *ContactService) Submit(ctx context.Context, name, email, subject, body string) (domain.Message, error) {
	log := slogx.FromContext(ctx)

	if strings.TrimSpace(name) == "" || strings.TrimSpace(body) == "" {
		return domain.Message{}, ErrInvalidMessage
	}

	m := domain.Message{
		ID:        idx.New().String(),
		Name:      name,
		Email:     email,
		Subject:   subject,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Store.Messages().CreateMessage(ctx, m); err != nil {
		log.Error("failed to store message", slog.Any("error", err))
		return domain.Message{}, err
	}

	if s.InboxTo != "" {
		fwdSubject, fwdBody := platformmail.ContactBody(name, email, subject, body)
		if err := s.Mailer.Send(s.InboxTo, fwdSubject, fwdBody); err != nil {
			// Submission already succeeded; just record the miss.
			log.Error("failed to forward message to inbox",
				slog.String("message_id", m.ID),
				slog.Any("error", err),
			)
		}
	}

	log.Info("message received", slog.String("message_id", m.ID))

	return m, nil
}

func (s *ContactService) List(ctx context.Context) ([]domain.Message, error) {
	return s.Store.Messages().ListMessages(ctx)
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	return s.Store.Messages().DeleteMessage(ctx, id)
}
