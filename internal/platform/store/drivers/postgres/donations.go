package postgres

import (
	"context"

	"github.com/nextprepbd/platform/internal/platform/domain"
)

type donationsRepo struct {
	db dbtx
}

const donationColumns = `id, reference, donor_name, donor_email, amount_cents, currency, status, note, created_at, updated_at`

func (r *donationsRepo) CreateDonation(ctx context.Context, d domain.Donation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO donations (`+donationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		d.ID, d.Reference, d.DonorName, d.DonorEmail, d.AmountCents,
		d.Currency, string(d.Status), d.Note, d.CreatedAt, d.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *donationsRepo) GetDonationByID(ctx context.Context, id string) (domain.Donation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+donationColumns+` FROM donations WHERE id = $1`, id)
	return scanDonation(row)
}

func (r *donationsRepo) ListDonations(ctx context.Context) ([]domain.Donation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+donationColumns+` FROM donations ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donations []domain.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
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
		UPDATE donations SET status = $1, updated_at = now() WHERE id = $2`,
		string(status), id,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func scanDonation(row rowScanner) (domain.Donation, error) {
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
