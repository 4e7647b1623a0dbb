package sqlite

import (
	"context"
	"time"

	"github.com/nextprepbd/platform/internal/platform/domain"
)

type donationsRepo struct {
	db dbtx
}

func (r *donationsRepo) CreateDonation(ctx context.Context, d domain.Donation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO donations (id, reference, donor_name, donor_email, amount_cents, currency, status, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Reference, d.DonorName, d.DonorEmail, d.AmountCents,
		d.Currency, string(d.Status), d.Note, d.CreatedAt, d.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *donationsRepo) GetDonationByID(ctx context.Context, id string) (domain.Donation, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, reference, donor_name, donor_email, amount_cents, currency, status, note, created_at, updated_at
		FROM donations WHERE id = ?`, id)

	var d domain.Donation
	var status string
	err := row.Scan(
		&d.ID, &d.Reference, &d.DonorName, &d.DonorEmail, &d.AmountCents,
		&d.Currency, &status, &d.Note, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return domain.Donation{}, mapNotFound(err)
	}
	d.Status = domain.DonationStatus(status)
	return d, nil
}

func (r *donationsRepo) ListDonations(ctx context.Context) ([]domain.Donation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, reference, donor_name, donor_email, amount_cents, currency, status, note, created_at, updated_at
		FROM donations ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donations []domain.Donation
	for rows.Next() {
		var d domain.Donation
		var status string
		if err := rows.Scan(
			&d.ID, &d.Reference, &d.DonorName, &d.DonorEmail, &d.AmountCents,
			&d.Currency, &status, &d.Note, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		d.Status = domain.DonationStatus(status)
		donations = append(donations, d)
	}
	return donations, rows.Err()
}

func (r *donationsRepo) UpdateDonationStatus(
	ctx context.Context,
	id string,
	status domain.DonationStatus,
) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE donations SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}
