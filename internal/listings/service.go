package listings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewService(db *gorm.DB, logger *zap.Logger) (*Service, error) {
	if err := db.AutoMigrate(&InventorySummary{}); err != nil {
		return nil, err
	}
	return &Service{db: db, logger: logger}, nil
}

// SummariesFor returns the cached inventory rollups for a set of landlords.
// Landlords without listings are simply absent from the result.
func (s *Service) SummariesFor(ctx context.Context, landlordIDs []uuid.UUID) (map[uuid.UUID]InventorySummary, error) {
	if len(landlordIDs) == 0 {
		return map[uuid.UUID]InventorySummary{}, nil
	}
	var rows []InventorySummary
	if err := s.db.WithContext(ctx).
		Where("landlord_id IN ?", landlordIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	summaries := make(map[uuid.UUID]InventorySummary, len(rows))
	for _, row := range rows {
		summaries[row.LandlordID] = row
	}
	return summaries, nil
}

// RefreshSummaries recomputes the rollup table from the listings inventory.
// Scheduled hourly; review screens read the cached rows. Landlords whose
// last listing disappeared since the previous refresh lose their row.
func (s *Service) RefreshSummaries(ctx context.Context) error {
	type rollup struct {
		LandlordID     uuid.UUID
		TotalListings  int
		ActiveListings int
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rollups []rollup
		err := tx.Model(&Listing{}).
			Select("landlord_id, COUNT(*) AS total_listings, COUNT(*) FILTER (WHERE status = 'ACTIVE') AS active_listings").
			Group("landlord_id").
			Scan(&rollups).Error
		if err != nil {
			return err
		}

		now := time.Now()
		fresh := make(map[uuid.UUID]bool, len(rollups))
		for _, r := range rollups {
			fresh[r.LandlordID] = true
			summary := InventorySummary{
				LandlordID:     r.LandlordID,
				TotalListings:  r.TotalListings,
				ActiveListings: r.ActiveListings,
				RefreshedAt:    now,
			}
			if err := tx.Save(&summary).Error; err != nil {
				return err
			}
		}

		var existing []InventorySummary
		if err := tx.Find(&existing).Error; err != nil {
			return err
		}
		if stale := staleSummaries(existing, fresh); len(stale) > 0 {
			if err := tx.Where("landlord_id IN ?", stale).Delete(&InventorySummary{}).Error; err != nil {
				return err
			}
		}

		s.logger.Info("inventory summaries refreshed", zap.Int("landlords", len(rollups)))
		return nil
	})
}

// staleSummaries returns landlords holding a cached rollup that the current
// inventory no longer produces.
func staleSummaries(existing []InventorySummary, fresh map[uuid.UUID]bool) []uuid.UUID {
	var stale []uuid.UUID
	for _, row := range existing {
		if !fresh[row.LandlordID] {
			stale = append(stale, row.LandlordID)
		}
	}
	return stale
}
