package repository

import (
	"context"
	"database/sql"

	"github.com/bookverse/bookverse-api/internal/models"
)

type AddressRepo struct {
	db *sql.DB
}

func NewAddressRepo(db *sql.DB) *AddressRepo {
	return &AddressRepo{db: db}
}

func (r *AddressRepo) ListByEmail(ctx context.Context, email string) ([]models.Address, error) {
	query := `
		SELECT id, email, full_name, street, city, state, zip, country, phone
		FROM addresses
		WHERE lower(email) = lower($1)
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addrs []models.Address
	for rows.Next() {
		var a models.Address
		err := rows.Scan(&a.ID, &a.Email, &a.FullName, &a.Street, &a.City,
			&a.State, &a.Zip, &a.Country, &a.Phone)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, a)
	}
	return addrs, rows.Err()
}

func (r *AddressRepo) Create(ctx context.Context, a *models.Address) error {
	query := `
		INSERT INTO addresses
		(email, full_name, street, city, state, zip, country, phone)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`
	return r.db.QueryRowContext(ctx, query,
		a.Email, a.FullName, a.Street, a.City, a.State, a.Zip, a.Country, a.Phone,
	).Scan(&a.ID)
}

func (r *AddressRepo) Delete(ctx context.Context, id int, email string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM addresses WHERE id = $1 AND lower(email) = lower($2)`, id, email)
	if err != nil {
		return err
	}
	return requireRow(res)
}
