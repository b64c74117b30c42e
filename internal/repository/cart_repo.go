package repository

import (
	"context"
	"database/sql"

	"github.com/bookverse/bookverse-api/internal/models"
	"github.com/bookverse/bookverse-api/internal/pricing"
)

type CartRepo struct {
	db *sql.DB
}

func NewCartRepo(db *sql.DB) *CartRepo {
	return &CartRepo{db: db}
}

// Lines joins the customer's cart against books to produce the priced
// snapshot checkout works from.
func (r *CartRepo) Lines(ctx context.Context, email string) ([]pricing.CartLine, error) {
	query := `
		SELECT ci.book_id, b.title, b.price, ci.quantity
		FROM cart_items ci
		JOIN books b ON b.id = ci.book_id
		WHERE lower(ci.email) = lower($1)
		ORDER BY ci.id
	`
	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []pricing.CartLine
	for rows.Next() {
		var l pricing.CartLine
		if err := rows.Scan(&l.BookID, &l.Title, &l.UnitPrice, &l.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *CartRepo) Items(ctx context.Context, email string) ([]models.CartItem, error) {
	query := `
		SELECT id, email, book_id, quantity
		FROM cart_items
		WHERE lower(email) = lower($1)
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.CartItem
	for rows.Next() {
		var it models.CartItem
		if err := rows.Scan(&it.ID, &it.Email, &it.BookID, &it.Quantity); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Upsert adds the book to the cart or bumps its quantity.
func (r *CartRepo) Upsert(ctx context.Context, email string, bookID, quantity int) error {
	query := `
		INSERT INTO cart_items (email, book_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (email, book_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`
	_, err := r.db.ExecContext(ctx, query, email, bookID, quantity)
	return err
}

// SetQuantity updates one line; zero removes it.
func (r *CartRepo) SetQuantity(ctx context.Context, email string, bookID, quantity int) error {
	if quantity <= 0 {
		return r.Remove(ctx, email, bookID)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE cart_items SET quantity = $1 WHERE lower(email) = lower($2) AND book_id = $3`,
		quantity, email, bookID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *CartRepo) Remove(ctx context.Context, email string, bookID int) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE lower(email) = lower($1) AND book_id = $2`,
		email, bookID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Clear empties the customer's cart. Clearing an already-empty cart is fine.
func (r *CartRepo) Clear(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE lower(email) = lower($1)`, email)
	return err
}
