package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nextprepbd/platform/internal/platform/domain"
	"github.com/nextprepbd/platform/internal/platform/store"
	"github.com/nextprepbd/platform/pkg/idx"
	"github.com/nextprepbd/platform/pkg/slogx"
)

var (
	ErrInvalidDonation  = errors.New("invalid donation")
	ErrDonationNotFound = errors.New("donation not found")
	ErrBadStatusChange  = errors.New("invalid donation status transition")
)

// DonationService records donation pledges and lets admins reconcile them.
// A pledge starts pending and moves to confirmed or rejected exactly once.
type DonationService struct {
	Store store.Store
}

// Pledge records a new donation pledge and returns it. The Reference UUID is
// what donors quote on their payment so inbound transfers can be matched.
func (s *DonationService) Pledge(ctx context.Context, name, email string, amountCents int64, currency, note string) (domain.Donation, error) {
	log := slogx.FromContext(ctx)

	if strings.TrimSpace(name) == "" || amountCents <= 0 {
		return domain.Donation{}, ErrInvalidDonation
	}
	if currency == "" {
		currency = "BDT"
	}

	now := time.Now().UTC()
	d := domain.Donation{
		ID:          idx.New().String(),
		Reference:   uuid.NewString(),
		DonorName:   name,
		DonorEmail:  email,
		AmountCents: amountCents,
		Currency:    strings.ToUpper(currency),
		Status:      domain.DonationPending,
		Note:        note,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.Donations().CreateDonation(ctx, d); err != nil {
		log.Error("failed to record donation", slog.Any("error", err))
		return domain.Donation{}, err
	}

	log.Info("donation pledged",
		slog.String("donation_id", d.ID),
		slog.String("reference", d.Reference),
		slog.Int64("amount_cents", amountCents),
	)

	return d, nil
}

func (s *DonationService) List(ctx context.Context) ([]domain.Donation, error) {
	return s.Store.Donations().ListDonations(ctx)
}

// Resolve moves a pending donation to confirmed or rejected. Resolved
// donations are immutable.
func (s *DonationService) Resolve(ctx context.Context, id string, status domain.DonationStatus) error {
	log := slogx.FromContext(ctx)

	if status != domain.DonationConfirmed && status != domain.DonationRejected {
		return ErrBadStatusChange
	}

	d, err := s.Store.Donations().GetDonationByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrDonationNotFound
		}
		return err
	}
	if d.Status != domain.DonationPending {
		return ErrBadStatusChange
	}

	if err := s.Store.Donations().UpdateDonationStatus(ctx, id, status); err != nil {
		log.Error("failed to update donation status",
			slog.String("donation_id", id),
			slog.Any("error", err),
		)
		return err
	}

	log.Info("donation resolved",
		slog.String("donation_id", id),
		slog.String("status", string(status)),
	)

	return nil
}
