package models

// HomeEnquiryRequest is the public home-interiors enquiry form.
type HomeEnquiryRequest struct {
	UserID         int64    `json:"user_id" validate:"required"`
	Email          string   `json:"email" validate:"required"`
	City           *string  `json:"city"`
	BhkType        string   `json:"bhk_type" validate:"required"`
	BathroomNumber *int64   `json:"bathroom_number"`
	KitchenType    *string  `json:"kitchen_type"`
	Material       *string  `json:"material"`
	Area           *float64 `json:"area"`
	Theme          *string  `json:"theme"`
}

// KBEnquiryRequest is a kitchen/bathroom enquiry.
type KBEnquiryRequest struct {
	UserID       int64    `json:"user_id" validate:"required"`
	Type         string   `json:"type" validate:"required"`
	Email        *string  `json:"email"`
	City         *string  `json:"city"`
	Area         *float64 `json:"area"`
	BathroomType *string  `json:"bathroom_type"`
	KitchenType  *string  `json:"kitchen_type"`
	KitchenTheme *string  `json:"kitchen_theme"`
}

// CustomEnquiryRequest accepts either "message" or the frontend's
// "custom_message" for the free-form text.
type CustomEnquiryRequest struct {
	UserID        int64    `json:"user_id" validate:"required"`
	Type          *string  `json:"type"`
	Email         *string  `json:"email"`
	City          *string  `json:"city"`
	Area          *float64 `json:"area"`
	Message       *string  `json:"message"`
	CustomMessage *string  `json:"custom_message"`
}

// Text resolves the message field, preferring "message" over
// "custom_message".
func (r *CustomEnquiryRequest) Text() *string {
	if r.Message != nil {
		return r.Message
	}
	return r.CustomMessage
}
