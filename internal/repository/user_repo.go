package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bookverse/bookverse-api/internal/models"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `
	id, email, password, first_name, last_name, mobile_number,
	role, date_joined, profile_image_url
`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	var mobile, image sql.NullString
	err := row.Scan(
		&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName,
		&mobile, &u.Role, &u.DateJoined, &image,
	)
	if err != nil {
		return nil, err
	}
	u.MobileNumber = mobile.String
	u.ProfileImageURL = image.String
	return &u, nil
}

// GetByEmail returns nil when no user holds the email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepo) Get(ctx context.Context, id int) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users
		(email, password, first_name, last_name, mobile_number, role, date_joined)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`
	return r.db.QueryRowContext(ctx, query,
		u.Email, u.Password, u.FirstName, u.LastName,
		nullString(u.MobileNumber), u.Role, u.DateJoined,
	).Scan(&u.ID)
}

func (r *UserRepo) Update(ctx context.Context, u *models.User) error {
	query := `
		UPDATE users SET
			email = $1, first_name = $2, last_name = $3,
			mobile_number = $4, role = $5, profile_image_url = $6
		WHERE id = $7
	`
	res, err := r.db.ExecContext(ctx, query,
		u.Email, u.FirstName, u.LastName,
		nullString(u.MobileNumber), u.Role, nullString(u.ProfileImageURL), u.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *UserRepo) UpdatePassword(ctx context.Context, email, hashed string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password = $1 WHERE lower(email) = lower($2)`, hashed, email)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *UserRepo) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
