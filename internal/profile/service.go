package profile

import (
	"context"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*LandlordAccount, error) {
	return s.repo.GetAccount(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*LandlordAccount, error) {
	account, err := s.repo.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FullName != nil {
		account.FullName = *req.FullName
	}
	if req.Phone != nil {
		account.Phone = *req.Phone
	}
	if req.BusinessName != nil {
		account.BusinessName = *req.BusinessName
	}
	if err := s.repo.UpdateAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Defaults feeds profile-derived values into draft loading. Implements the
// verification package's ProfileReader port.
func (s *Service) Defaults(ctx context.Context, landlordID uuid.UUID) (string, string, error) {
	account, err := s.repo.GetAccount(ctx, landlordID)
	if err != nil {
		return "", "", err
	}
	return account.BusinessName, account.Phone, nil
}
