package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"homematch/landlord-portal/landlord-portal-backend/internal/statussync"
)

// Service records status change emissions for the delivery collaborator.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewService(db *gorm.DB, logger *zap.Logger) (*Service, error) {
	if err := db.AutoMigrate(&StatusNotification{}); err != nil {
		return nil, fmt.Errorf("failed to migrate notifications: %w", err)
	}
	return &Service{db: db, logger: logger}, nil
}

// StatusChanged implements statussync.Notifier.
func (s *Service) StatusChanged(ctx context.Context, change statussync.StatusChange) error {
	landlordID, err := uuid.Parse(change.LandlordID)
	if err != nil {
		return fmt.Errorf("invalid landlord id %q: %w", change.LandlordID, err)
	}

	meta, _ := json.Marshal(map[string]string{
		"old": change.Old,
		"new": change.New,
	})
	record := &StatusNotification{
		ID:         uuid.New(),
		LandlordID: landlordID,
		OldStatus:  change.Old,
		NewStatus:  change.New,
		Note:       change.Note,
		Metadata:   meta,
		EmittedAt:  time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to record status notification: %w", err)
	}

	s.logger.Info("status change emitted",
		zap.String("landlord_id", change.LandlordID),
		zap.String("old", change.Old),
		zap.String("new", change.New))
	return nil
}

// ListForLandlord returns emitted notifications, newest first.
func (s *Service) ListForLandlord(ctx context.Context, landlordID uuid.UUID) ([]StatusNotification, error) {
	var records []StatusNotification
	err := s.db.WithContext(ctx).
		Where("landlord_id = ?", landlordID).
		Order("emitted_at DESC").
		Find(&records).Error
	return records, err
}
