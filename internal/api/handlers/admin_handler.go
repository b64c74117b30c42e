package handlers

import (
	"net/http"

	"github.com/bookverse/bookverse-api/internal/repository"
)

// AdminHandler serves the dashboard report endpoints.
type AdminHandler struct {
	orders *repository.OrderRepo
	books  *repository.BookRepo
}

func NewAdminHandler(orders *repository.OrderRepo, books *repository.BookRepo) *AdminHandler {
	return &AdminHandler{orders: orders, books: books}
}

// SalesReport handles GET /api/admin/reports/sales
func (h *AdminHandler) SalesReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.orders.SalesReport(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_build_sales_report")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// StockReport handles GET /api/admin/reports/stock
func (h *AdminHandler) StockReport(w http.ResponseWriter, r *http.Request) {
	rows, err := h.books.StockReport(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_build_stock_report")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
