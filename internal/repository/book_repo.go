package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/bookverse/bookverse-api/internal/models"
)

type BookRepo struct {
	db *sql.DB
}

func NewBookRepo(db *sql.DB) *BookRepo {
	return &BookRepo{db: db}
}

const bookColumns = `
	id, title, author, price, quantity, category, description,
	cover_image_url, is_trending, page_count, story_type, theme_type,
	subject, genre, course, language
`

func scanBook(row interface{ Scan(...any) error }) (*models.Book, error) {
	var b models.Book
	var desc, cover, story, theme, subject, genre, course, language sql.NullString
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.Price, &b.Quantity, &b.Category,
		&desc, &cover, &b.IsTrending, &b.PageCount, &story, &theme,
		&subject, &genre, &course, &language,
	)
	if err != nil {
		return nil, err
	}
	b.Description = desc.String
	b.CoverImageURL = cover.String
	b.StoryType = story.String
	b.ThemeType = theme.String
	b.Subject = subject.String
	b.Genre = genre.String
	b.Course = course.String
	b.Language = language.String
	return &b, nil
}

func (r *BookRepo) collect(ctx context.Context, query string, args ...any) ([]models.Book, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *b)
	}
	return books, rows.Err()
}

func (r *BookRepo) List(ctx context.Context) ([]models.Book, error) {
	return r.collect(ctx, `SELECT `+bookColumns+` FROM books ORDER BY id`)
}

func (r *BookRepo) Trending(ctx context.Context) ([]models.Book, error) {
	return r.collect(ctx, `SELECT `+bookColumns+` FROM books WHERE is_trending ORDER BY id`)
}

// Get returns nil when the book does not exist.
func (r *BookRepo) Get(ctx context.Context, id int) (*models.Book, error) {
	b, err := scanBook(r.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return b, nil
}

// Search matches the query against title or author, case-insensitively.
func (r *BookRepo) Search(ctx context.Context, query, filter string) ([]models.Book, error) {
	column := "title"
	if strings.EqualFold(filter, "author") {
		column = "author"
	}
	q := `SELECT ` + bookColumns + ` FROM books WHERE lower(` + column + `) LIKE lower($1) ORDER BY id`
	return r.collect(ctx, q, "%"+query+"%")
}

func (r *BookRepo) ByCategory(ctx context.Context, category string) ([]models.Book, error) {
	return r.collect(ctx,
		`SELECT `+bookColumns+` FROM books WHERE lower(category) = lower($1) ORDER BY id`,
		category)
}

// Match finds books whose category, theme and story all contain the given
// fragments, case-insensitively.
func (r *BookRepo) Match(ctx context.Context, genre, theme, story string) ([]models.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE lower(category) LIKE lower($1)
		  AND lower(coalesce(theme_type, '')) LIKE lower($2)
		  AND lower(coalesce(story_type, '')) LIKE lower($3)
		ORDER BY id
	`
	return r.collect(ctx, query, "%"+genre+"%", "%"+theme+"%", "%"+story+"%")
}

func (r *BookRepo) Create(ctx context.Context, b *models.Book) error {
	query := `
		INSERT INTO books
		(title, author, price, quantity, category, description, cover_image_url,
		 is_trending, page_count, story_type, theme_type, subject, genre, course, language)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING id
	`
	return r.db.QueryRowContext(ctx, query,
		b.Title, b.Author, b.Price, b.Quantity, b.Category, b.Description,
		b.CoverImageURL, b.IsTrending, b.PageCount, b.StoryType, b.ThemeType,
		b.Subject, b.Genre, b.Course, b.Language,
	).Scan(&b.ID)
}

func (r *BookRepo) Update(ctx context.Context, b *models.Book) error {
	query := `
		UPDATE books SET
			title = $1, author = $2, price = $3, quantity = $4, category = $5,
			description = $6, cover_image_url = $7, is_trending = $8,
			page_count = $9, story_type = $10, theme_type = $11,
			subject = $12, genre = $13, course = $14, language = $15
		WHERE id = $16
	`
	res, err := r.db.ExecContext(ctx, query,
		b.Title, b.Author, b.Price, b.Quantity, b.Category, b.Description,
		b.CoverImageURL, b.IsTrending, b.PageCount, b.StoryType, b.ThemeType,
		b.Subject, b.Genre, b.Course, b.Language, b.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *BookRepo) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// StockReport buckets every book into Out of Stock / Low Stock / In Stock.
func (r *BookRepo) StockReport(ctx context.Context) ([]models.StockReportRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, category, quantity FROM books ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var report []models.StockReportRow
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Category, &b.Quantity); err != nil {
			return nil, err
		}
		report = append(report, models.StockReportRow{
			BookID:   b.ID,
			Title:    b.Title,
			Category: b.Category,
			Quantity: b.Quantity,
			Status:   b.StockStatus(),
		})
	}
	return report, rows.Err()
}

// requireRow turns a zero-row write into sql.ErrNoRows.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
