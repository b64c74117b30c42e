package models

type CartItem struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	BookID   int    `json:"bookId"`
	Quantity int    `json:"quantity"`
}
