package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nextprepbd/platform/internal/platform/domain"
)

func TestPledgeRecordsPendingDonation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &DonationService{Store: st}

	d, err := svc.Pledge(ctx, "Rahim", "rahim@b.com", 50000, "bdt", "For the scholarship fund")
	require.NoError(t, err)
	require.Equal(t, domain.DonationPending, d.Status)
	require.Equal(t, "BDT", d.Currency)

	// The payment reference is a well-formed UUID
	_, err = uuid.Parse(d.Reference)
	require.NoError(t, err)

	listed, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestPledgeValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &DonationService{Store: st}

	_, err := svc.Pledge(ctx, "", "", 1000, "", "")
	require.ErrorIs(t, err, ErrInvalidDonation)
	_, err = svc.Pledge(ctx, "Rahim", "", 0, "", "")
	require.ErrorIs(t, err, ErrInvalidDonation)
	_, err = svc.Pledge(ctx, "Rahim", "", -5, "", "")
	require.ErrorIs(t, err, ErrInvalidDonation)
}

func TestResolveIsSingleShot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &DonationService{Store: st}

	d, err := svc.Pledge(ctx, "Rahim", "", 50000, "", "")
	require.NoError(t, err)

	require.ErrorIs(t, svc.Resolve(ctx, d.ID, domain.DonationPending), ErrBadStatusChange)
	require.ErrorIs(t, svc.Resolve(ctx, "missing", domain.DonationConfirmed), ErrDonationNotFound)

	require.NoError(t, svc.Resolve(ctx, d.ID, domain.DonationConfirmed))

	// Resolved donations are immutable
	require.ErrorIs(t, svc.Resolve(ctx, d.ID, domain.DonationRejected), ErrBadStatusChange)

	got, err := st.Donations().GetDonationByID(ctx, d.ID)
	require.NoError(t, err)
	require.Equal(t, domain.DonationConfirmed, got.Status)
}

func TestContactSubmitStoresAndForwards(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	mailer := &fakeMailer{}
	svc := &ContactService{Store: st, Mailer: mailer, InboxTo: "inbox@nextprepbd.test"}

	m, err := svc.Submit(ctx, "Karim", "karim@b.com", "Admissions", "When does enrolment open?")
	require.NoError(t, err)
	require.NotEmpty(t, m.ID)

	stored, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)

	sent := mailer.all()
	require.Len(t, sent, 1)
	require.Equal(t, "inbox@nextprepbd.test", sent[0].To)
	require.Contains(t, sent[0].Body, "When does enrolment open?")
}

func TestContactSubmitSurvivesForwardFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := &ContactService{Store: st, Mailer: &fakeMailer{fail: true}, InboxTo: "inbox@nextprepbd.test"}

	_, err := svc.Submit(ctx, "Karim", "", "", "Still stored")
	require.NoError(t, err)

	stored, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)

	// Validation still applies
	_, err = svc.Submit(ctx, "", "", "", "")
	require.ErrorIs(t, err, ErrInvalidMessage)
}
