package profile

import (
	"time"

	"github.com/google/uuid"
)

// LandlordAccount mirrors the account subsystem's record for a landlord,
// including the latest verification outcome for quick display.
type LandlordAccount struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	FullName           string    `json:"full_name" db:"full_name"`
	Email              string    `json:"email" db:"email"`
	Phone              string    `json:"phone" db:"phone"`
	BusinessName       string    `json:"business_name" db:"business_name"`
	VerificationStatus string    `json:"verification_status" db:"verification_status"`
	VerificationNote   string    `json:"verification_note" db:"verification_note"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// UpdateProfileRequest carries the editable profile fields.
type UpdateProfileRequest struct {
	FullName     *string `json:"full_name"`
	Phone        *string `json:"phone"`
	BusinessName *string `json:"business_name"`
}
