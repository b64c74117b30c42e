package models

import "time"

const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

type User struct {
	ID              int       `json:"id"`
	Email           string    `json:"email"`
	Password        string    `json:"-"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	MobileNumber    string    `json:"mobileNumber,omitempty"`
	Role            string    `json:"role"`
	DateJoined      time.Time `json:"dateJoined"`
	ProfileImageURL string    `json:"profileImageUrl,omitempty"`
}
