package statussync

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// FetchFunc reads the authoritative {status, note} for a landlord.
type FetchFunc func(ctx context.Context, landlordID string) (status, note string, err error)

// ObservationStore remembers the last status shown to each landlord. It is a
// read-through cache, never a second source of truth.
type ObservationStore interface {
	LastObserved(ctx context.Context, landlordID string) (status, note string, found bool, err error)
	Record(ctx context.Context, landlordID, status, note string) error
}

// Notifier consumes emitted status changes.
type Notifier interface {
	StatusChanged(ctx context.Context, change StatusChange) error
}

// Result is what the landlord-facing surface renders after a refresh. Stale
// means the fetch failed and Status carries the last-known observation; the
// page degrades, it never blanks.
type Result struct {
	Status  string        `json:"status"`
	Note    string        `json:"note"`
	Stale   bool          `json:"stale"`
	Changed *StatusChange `json:"changed,omitempty"`
}

type Synchronizer struct {
	fetch    FetchFunc
	store    ObservationStore
	notifier Notifier
	logger   *zap.Logger
}

func NewSynchronizer(fetch FetchFunc, store ObservationStore, notifier Notifier, logger *zap.Logger) *Synchronizer {
	return &Synchronizer{fetch: fetch, store: store, notifier: notifier, logger: logger}
}

// Refresh runs one reconciliation pass. Invoked on mount and on explicit
// user refresh only; there is no background polling.
func (s *Synchronizer) Refresh(ctx context.Context, landlordID string) (*Result, error) {
	prev, prevNote, hasPrev, err := s.store.LastObserved(ctx, landlordID)
	if err != nil {
		// A broken observation cache must not suppress the display; treat
		// as first load, which also suppresses emission.
		s.logger.Warn("observation store read failed",
			zap.String("landlord_id", landlordID), zap.Error(err))
		hasPrev = false
	}

	fetched, note, err := s.fetch(ctx, landlordID)
	if err != nil {
		s.logger.Warn("status fetch failed, serving last-known status",
			zap.String("landlord_id", landlordID), zap.Error(err))
		if !hasPrev {
			// Nothing observed yet; the display still needs a status.
			return &Result{Status: "UNSUBMITTED", Stale: true}, nil
		}
		return &Result{Status: prev, Note: prevNote, Stale: true}, nil
	}

	newStatus, changed := Reduce(prev, hasPrev, fetched)
	if err := s.store.Record(ctx, landlordID, newStatus, note); err != nil {
		s.logger.Warn("observation store write failed",
			zap.String("landlord_id", landlordID), zap.Error(err))
	}

	result := &Result{Status: newStatus, Note: note}
	if changed {
		change := StatusChange{
			LandlordID: landlordID,
			Old:        prev,
			New:        newStatus,
			Note:       note,
			At:         time.Now(),
		}
		result.Changed = &change
		if s.notifier != nil {
			if err := s.notifier.StatusChanged(ctx, change); err != nil {
				s.logger.Error("status change notification failed",
					zap.String("landlord_id", landlordID), zap.Error(err))
			}
		}
	}
	return result, nil
}
