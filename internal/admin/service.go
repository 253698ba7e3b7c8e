package admin

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"homematch/landlord-portal/landlord-portal-backend/internal/listings"
	"homematch/landlord-portal/landlord-portal-backend/internal/verification"
)

// SummaryProvider supplies per-landlord inventory rollups for the review
// screen.
type SummaryProvider interface {
	SummariesFor(ctx context.Context, landlordIDs []uuid.UUID) (map[uuid.UUID]listings.InventorySummary, error)
}

// ReviewEntry is one request prepared for review: the request, the landlord's
// identity, and their inventory rollup when one exists.
type ReviewEntry struct {
	verification.ReviewItem
	Inventory *listings.InventorySummary `json:"inventory,omitempty"`
}

// LandlordGroup collects a landlord's requests so a reviewer can inspect
// their full history and inventory before deciding.
type LandlordGroup struct {
	LandlordID    uuid.UUID                  `json:"landlord_id"`
	LandlordName  string                     `json:"landlord_name"`
	LandlordEmail string                     `json:"landlord_email"`
	Inventory     *listings.InventorySummary `json:"inventory,omitempty"`
	Requests      []verification.VerificationRequest `json:"requests"`
}

type Service struct {
	repo      verification.Repository
	summaries SummaryProvider
	logger    *zap.Logger
}

func NewService(repo verification.Repository, summaries SummaryProvider, logger *zap.Logger) *Service {
	return &Service{repo: repo, summaries: summaries, logger: logger}
}

func (s *Service) List(ctx context.Context, filter verification.ListFilter) ([]ReviewEntry, error) {
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	rollups := s.loadSummaries(ctx, items)

	entries := make([]ReviewEntry, 0, len(items))
	for _, item := range items {
		entry := ReviewEntry{ReviewItem: item}
		if summary, ok := rollups[item.Request.LandlordID]; ok {
			entry.Inventory = &summary
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// GroupedByLandlord arranges the filtered requests by landlord, newest
// request first within each group.
func (s *Service) GroupedByLandlord(ctx context.Context, filter verification.ListFilter) ([]LandlordGroup, error) {
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	rollups := s.loadSummaries(ctx, items)

	index := make(map[uuid.UUID]int)
	var groups []LandlordGroup
	for _, item := range items {
		id := item.Request.LandlordID
		pos, ok := index[id]
		if !ok {
			group := LandlordGroup{
				LandlordID:    id,
				LandlordName:  item.LandlordName,
				LandlordEmail: item.LandlordEmail,
			}
			if summary, found := rollups[id]; found {
				group.Inventory = &summary
			}
			groups = append(groups, group)
			pos = len(groups) - 1
			index[id] = pos
		}
		groups[pos].Requests = append(groups[pos].Requests, item.Request)
	}
	return groups, nil
}

func (s *Service) loadSummaries(ctx context.Context, items []verification.ReviewItem) map[uuid.UUID]listings.InventorySummary {
	if s.summaries == nil || len(items) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, item := range items {
		if !seen[item.Request.LandlordID] {
			seen[item.Request.LandlordID] = true
			ids = append(ids, item.Request.LandlordID)
		}
	}
	rollups, err := s.summaries.SummariesFor(ctx, ids)
	if err != nil {
		// Rollups are decoration; review proceeds without them.
		s.logger.Warn("inventory summaries unavailable", zap.Error(err))
		return nil
	}
	return rollups
}

// Approve gates on evidence completeness regardless of what the submitting
// client believed, then commits the decision with a compare-and-set.
func (s *Service) Approve(ctx context.Context, reviewerID, requestID uuid.UUID, note string) (*verification.VerificationRequest, error) {
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !req.Documents.HasRequiredDocuments() {
		return nil, verification.ErrGating
	}

	decision := verification.AdminDecision{
		Action:     verification.ActionApprove,
		Note:       note,
		ReviewerID: reviewerID,
		Timestamp:  time.Now(),
	}
	updated, err := s.repo.ApplyDecision(ctx, requestID, verification.StatusApproved, decision)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateAccountStatus(ctx, updated.LandlordID, verification.StatusApproved, note); err != nil {
		s.logger.Error("account status mirror failed",
			zap.String("landlord_id", updated.LandlordID.String()), zap.Error(err))
	}

	s.logger.Info("verification request approved",
		zap.String("request_id", requestID.String()),
		zap.String("reviewer_id", reviewerID.String()))
	return updated, nil
}

// Reject is always permitted on a PENDING request; the note is mandatory
// because it is what the landlord later sees.
func (s *Service) Reject(ctx context.Context, reviewerID, requestID uuid.UUID, note string) (*verification.VerificationRequest, error) {
	if strings.TrimSpace(note) == "" {
		return nil, verification.ErrNoteRequired
	}
	if _, err := s.repo.GetByID(ctx, requestID); err != nil {
		return nil, err
	}

	decision := verification.AdminDecision{
		Action:     verification.ActionReject,
		Note:       note,
		ReviewerID: reviewerID,
		Timestamp:  time.Now(),
	}
	updated, err := s.repo.ApplyDecision(ctx, requestID, verification.StatusRejected, decision)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateAccountStatus(ctx, updated.LandlordID, verification.StatusRejected, note); err != nil {
		s.logger.Error("account status mirror failed",
			zap.String("landlord_id", updated.LandlordID.String()), zap.Error(err))
	}

	s.logger.Info("verification request rejected",
		zap.String("request_id", requestID.String()),
		zap.String("reviewer_id", reviewerID.String()))
	return updated, nil
}
