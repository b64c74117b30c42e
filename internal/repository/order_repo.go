package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bookverse/bookverse-api/internal/models"
)

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// Create persists the order header and its lines in one transaction. When an
// order with the same idempotency key already exists, that order's number is
// returned instead of inserting a duplicate.
func (r *OrderRepo) Create(ctx context.Context, sub models.OrderSubmission, number string) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if sub.IdempotencyKey != "" {
		var existing string
		query := `SELECT number FROM orders WHERE idempotency_key = $1`
		err := tx.QueryRowContext(ctx, query, sub.IdempotencyKey).Scan(&existing)
		switch {
		case err == nil:
			return existing, tx.Commit()
		case errors.Is(err, sql.ErrNoRows):
			// first submission with this key
		default:
			return "", err
		}
	}

	insert := `
		INSERT INTO orders
		(number, email, date, status, subtotal, discount, tip, shipping_charge,
		 total, payment_method, coupon_code, idempotency_key)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id
	`
	var orderID int
	err = tx.QueryRowContext(ctx, insert,
		number,
		sub.Email,
		time.Now().UTC(),
		models.StatusPlaced,
		sub.Subtotal,
		sub.Discount,
		sub.Tip,
		sub.ShippingCharge,
		sub.Total,
		sub.PaymentMethod,
		nullString(sub.CouponCode),
		nullString(sub.IdempotencyKey),
	).Scan(&orderID)
	if err != nil {
		return "", err
	}

	line := `INSERT INTO order_items (order_id, book_id, quantity, price) VALUES ($1,$2,$3,$4)`
	for _, it := range sub.Items {
		if _, err := tx.ExecContext(ctx, line, orderID, it.BookID, it.Quantity, it.Price); err != nil {
			return "", err
		}
	}

	return number, tx.Commit()
}

const orderColumns = `
	id, number, email, date, status, subtotal, discount, tip,
	shipping_charge, total, payment_method, coupon_code, delivery_date
`

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	var coupon sql.NullString
	var delivered sql.NullTime
	err := row.Scan(
		&o.ID, &o.Number, &o.Email, &o.Date, &o.Status, &o.Subtotal,
		&o.Discount, &o.Tip, &o.ShippingCharge, &o.Total, &o.PaymentMethod,
		&coupon, &delivered,
	)
	if err != nil {
		return nil, err
	}
	o.CouponCode = coupon.String
	if delivered.Valid {
		o.DeliveryDate = &delivered.Time
	}
	return &o, nil
}

func (r *OrderRepo) collect(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (r *OrderRepo) ListByEmail(ctx context.Context, email string) ([]models.Order, error) {
	orders, err := r.collect(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE lower(email) = lower($1) ORDER BY date DESC`,
		email)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *OrderRepo) List(ctx context.Context) ([]models.Order, error) {
	return r.collect(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY date DESC`)
}

func (r *OrderRepo) loadItems(ctx context.Context, o *models.Order) error {
	query := `
		SELECT oi.id, oi.order_id, oi.book_id, coalesce(b.title, ''), oi.quantity, oi.price
		FROM order_items oi
		LEFT JOIN books b ON b.id = oi.book_id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`
	rows, err := r.db.QueryContext(ctx, query, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.BookID, &it.Title, &it.Quantity, &it.Price); err != nil {
			return err
		}
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}

// UpdateStatus moves an order through its lifecycle; reaching Delivered
// stamps the delivery date.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id int, status string) error {
	var delivered any
	if status == models.StatusDelivered {
		delivered = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1, delivery_date = $2 WHERE id = $3`,
		status, delivered, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SalesReport aggregates the admin dashboard numbers in SQL.
func (r *OrderRepo) SalesReport(ctx context.Context) (*models.SalesReport, error) {
	var rep models.SalesReport
	var last sql.NullTime

	summary := `
		SELECT
			COUNT(*),
			coalesce(SUM(total), 0),
			COUNT(*) FILTER (WHERE status = 'Placed'),
			COUNT(*) FILTER (WHERE status = 'Delivered'),
			COUNT(*) FILTER (WHERE status = 'Cancelled'),
			COUNT(*) FILTER (WHERE status = 'Returned'),
			MAX(date)
		FROM orders
	`
	err := r.db.QueryRowContext(ctx, summary).Scan(
		&rep.TotalOrders, &rep.TotalRevenue, &rep.PlacedOrders,
		&rep.DeliveredOrders, &rep.CancelledOrders, &rep.ReturnedOrders, &last,
	)
	if err != nil {
		return nil, err
	}
	if last.Valid {
		rep.LastOrderDate = last.Time
	}

	var sold sql.NullInt64
	if err := r.db.QueryRowContext(ctx,
		`SELECT SUM(quantity) FROM order_items`).Scan(&sold); err != nil {
		return nil, err
	}
	rep.TotalBooksSold = int(sold.Int64)

	ranking := `
		SELECT coalesce(b.title, ''), SUM(oi.quantity) AS sold
		FROM order_items oi
		JOIN books b ON b.id = oi.book_id
		GROUP BY b.title
		ORDER BY sold DESC
	`
	rows, err := r.db.QueryContext(ctx, ranking)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rep.TopBook, rep.LeastBook = "N/A", "N/A"
	first := true
	for rows.Next() {
		var title string
		var n int
		if err := rows.Scan(&title, &n); err != nil {
			return nil, err
		}
		if first {
			rep.TopBook = title
			first = false
		}
		rep.LeastBook = title
	}
	return &rep, rows.Err()
}
