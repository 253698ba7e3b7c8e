package listings

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Listing is the property inventory row owned by the listings subsystem.
// This package only reads it to summarize a landlord's active inventory for
// the review screen.
type Listing struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	LandlordID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"landlord_id"`
	Title       string         `gorm:"not null" json:"title"`
	Status      string         `gorm:"not null;default:'ACTIVE'" json:"status"`
	MonthlyRent int64          `json:"monthly_rent"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// InventorySummary is the per-landlord rollup shown next to a verification
// request under review.
type InventorySummary struct {
	LandlordID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"landlord_id"`
	TotalListings int       `json:"total_listings"`
	ActiveListings int      `json:"active_listings"`
	RefreshedAt   time.Time `json:"refreshed_at"`
}

func (InventorySummary) TableName() string {
	return "inventory_summaries"
}
