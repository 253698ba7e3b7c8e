package notifications

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// StatusNotification records one decision to notify a landlord about a
// verification status change. Delivery (email/SMS/push) is owned by the
// notification collaborator; this table is the emission log it consumes.
type StatusNotification struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	LandlordID uuid.UUID      `gorm:"type:uuid;not null;index" json:"landlord_id"`
	OldStatus  string         `gorm:"not null" json:"old_status"`
	NewStatus  string         `gorm:"not null" json:"new_status"`
	Note       string         `json:"note"`
	Metadata   datatypes.JSON `gorm:"type:jsonb" json:"metadata"`
	EmittedAt  time.Time      `json:"emitted_at"`
}

func (StatusNotification) TableName() string {
	return "status_notifications"
}
