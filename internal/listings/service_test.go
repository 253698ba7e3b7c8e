package listings

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStaleSummariesPrunesVanishedLandlords(t *testing.T) {
	kept := uuid.New()
	gone := uuid.New()
	existing := []InventorySummary{
		{LandlordID: kept, TotalListings: 3, ActiveListings: 2, RefreshedAt: time.Now()},
		{LandlordID: gone, TotalListings: 1, ActiveListings: 1, RefreshedAt: time.Now()},
	}

	stale := staleSummaries(existing, map[uuid.UUID]bool{kept: true})

	assert.Equal(t, []uuid.UUID{gone}, stale)
}

func TestStaleSummariesEmptyInventoryDropsEverything(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	existing := []InventorySummary{{LandlordID: a}, {LandlordID: b}}

	stale := staleSummaries(existing, map[uuid.UUID]bool{})

	assert.ElementsMatch(t, []uuid.UUID{a, b}, stale)
}

func TestStaleSummariesNothingCachedIsNoop(t *testing.T) {
	assert.Empty(t, staleSummaries(nil, map[uuid.UUID]bool{uuid.New(): true}))
}
