package models

import "time"

// Order statuses.
const (
	StatusPlaced    = "Placed"
	StatusDelivered = "Delivered"
	StatusCancelled = "Cancelled"
	StatusReturned  = "Returned"
)

// Payment methods accepted at checkout.
const (
	PaymentCashOnDelivery = "Cash on Delivery"
	PaymentUPI            = "UPI"
	PaymentCard           = "Card"
)

func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCashOnDelivery, PaymentUPI, PaymentCard:
		return true
	}
	return false
}

func ValidOrderStatus(s string) bool {
	switch s {
	case StatusPlaced, StatusDelivered, StatusCancelled, StatusReturned:
		return true
	}
	return false
}

type Order struct {
	ID             int         `json:"id"`
	Number         string      `json:"number"`
	Email          string      `json:"email"`
	Date           time.Time   `json:"date"`
	Status         string      `json:"status"`
	Subtotal       float64     `json:"subtotal"`
	Discount       float64     `json:"discount"`
	Tip            float64     `json:"tip"`
	ShippingCharge float64     `json:"shippingCharge"`
	Total          float64     `json:"total"`
	PaymentMethod  string      `json:"paymentMethod"`
	CouponCode     string      `json:"couponCode,omitempty"`
	DeliveryDate   *time.Time  `json:"deliveryDate,omitempty"`
	Items          []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	ID       int     `json:"id"`
	OrderID  int     `json:"orderId"`
	BookID   int     `json:"bookId"`
	Title    string  `json:"title,omitempty"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// OrderSubmission is the payload persisted when a checkout confirms.
type OrderSubmission struct {
	Email          string          `json:"email"`
	Items          []OrderItemSpec `json:"items"`
	Subtotal       float64         `json:"subtotal"`
	Discount       float64         `json:"discount"`
	Tip            float64         `json:"tip"`
	ShippingCharge float64         `json:"shippingCharge"`
	Total          float64         `json:"total"`
	PaymentMethod  string          `json:"paymentMethod"`
	CouponCode     string          `json:"couponCode,omitempty"`
	// IdempotencyKey dedupes re-submissions of the same checkout confirmation.
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
}

type OrderItemSpec struct {
	BookID   int     `json:"bookId"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// SalesReport is the admin dashboard aggregate.
type SalesReport struct {
	TotalOrders     int       `json:"totalOrders"`
	TotalRevenue    float64   `json:"totalRevenue"`
	TotalBooksSold  int       `json:"totalBooksSold"`
	PlacedOrders    int       `json:"placedOrders"`
	DeliveredOrders int       `json:"deliveredOrders"`
	CancelledOrders int       `json:"cancelledOrders"`
	ReturnedOrders  int       `json:"returnedOrders"`
	TopBook         string    `json:"topBook"`
	LeastBook       string    `json:"leastBook"`
	LastOrderDate   time.Time `json:"lastOrderDate"`
}

// StockReportRow is one book's stock standing.
type StockReportRow struct {
	BookID   int    `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
	Status   string `json:"status"`
}
