package models

import "time"

type Testimonial struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Review        string    `json:"review"`
	CustomerType  *string   `json:"customer_type"`
	CustomerImage *string   `json:"customer_image"`
	CustomerPhone *string   `json:"customer_phone"`
	Rating        *int64    `json:"rating"`
	ServiceType   *string   `json:"service_type"`
	IsHome        bool      `json:"isHome"`
	Page          *string   `json:"page"`
	CreatedAt     time.Time `json:"created_at"`
}

type TestimonialRequest struct {
	Name          string  `json:"name" validate:"required"`
	Review        string  `json:"review" validate:"required"`
	CustomerType  *string `json:"customer_type"`
	CustomerImage *string `json:"customer_image"`
	CustomerPhone *string `json:"customer_phone"`
	Rating        *int64  `json:"rating"`
	ServiceType   *string `json:"service_type"`
}

// ValidRating keeps ratings in 1..5; anything else is dropped to null.
func ValidRating(rating *int64) *int64 {
	if rating == nil || *rating < 1 || *rating > 5 {
		return nil
	}
	return rating
}
