package models

import "time"

// User is an application account bootstrapped from a verified identity
// principal. Admin status is a separate allow-list lookup, not a flag here.
type User struct {
	ID        int64     `json:"id"`
	UID       string    `json:"uid"`
	Name      *string   `json:"name"`
	Phone     *string   `json:"phone"`
	Email     *string   `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Admin is one row of the phone-number allow-list that gates protected
// routes.
type Admin struct {
	ID        int64     `json:"id"`
	Name      *string   `json:"name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

type AdminRequest struct {
	Phone string  `json:"phone" validate:"required"`
	Name  *string `json:"name"`
}

type AdminUpdateRequest struct {
	Phone *string `json:"phone"`
	Name  *string `json:"name"`
}
