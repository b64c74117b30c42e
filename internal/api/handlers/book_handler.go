package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bookverse/bookverse-api/internal/models"
	"github.com/bookverse/bookverse-api/internal/repository"
)

type BookHandler struct {
	books *repository.BookRepo
}

func NewBookHandler(books *repository.BookRepo) *BookHandler {
	return &BookHandler{books: books}
}

// List handles GET /api/books
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_list_books")
		return
	}
	writeJSON(w, http.StatusOK, books)
}

// Trending handles GET /api/books/trending
func (h *BookHandler) Trending(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.Trending(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_list_books")
		return
	}
	writeJSON(w, http.StatusOK, books)
}

// Get handles GET /api/books/{id}
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_book_id")
		return
	}
	book, err := h.books.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_load_book")
		return
	}
	if book == nil {
		writeError(w, http.StatusNotFound, "book_not_found")
		return
	}
	writeJSON(w, http.StatusOK, book)
}

// Search handles GET /api/books/search?query=&filter=
func (h *BookHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query required")
		return
	}
	filter := r.URL.Query().Get("filter")
	books, err := h.books.Search(r.Context(), query, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_search_books")
		return
	}
	writeJSON(w, http.StatusOK, books)
}

// ByCategory handles GET /api/books/by-category/{category}
func (h *BookHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	category := urlParam(r, "category")
	books, err := h.books.ByCategory(r.Context(), category)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_list_books")
		return
	}
	writeJSON(w, http.StatusOK, books)
}

// Match handles GET /api/books/match?genre=&theme=&story=
func (h *BookHandler) Match(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	books, err := h.books.Match(r.Context(), q.Get("genre"), q.Get("theme"), q.Get("story"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_match_books")
		return
	}
	writeJSON(w, http.StatusOK, books)
}

// Create handles POST /api/books (admin)
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var book models.Book
	if err := json.NewDecoder(r.Body).Decode(&book); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if book.Title == "" || book.Category == "" {
		writeError(w, http.StatusBadRequest, "title and category required")
		return
	}
	if err := h.books.Create(r.Context(), &book); err != nil {
		writeError(w, http.StatusInternalServerError, "failed_create_book")
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

// Update handles PUT /api/books/{id} (admin)
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_book_id")
		return
	}
	var book models.Book
	if err := json.NewDecoder(r.Body).Decode(&book); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	book.ID = id
	if err := h.books.Update(r.Context(), &book); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "book_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed_update_book")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/books/{id} (admin)
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_book_id")
		return
	}
	if err := h.books.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "book_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed_delete_book")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
