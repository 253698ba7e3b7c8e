package verification

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"homematch/landlord-portal/landlord-portal-backend/internal/draft"
	"homematch/landlord-portal/landlord-portal-backend/pkg/workflows"
)

// FileUpload carries one evidence file through a submission.
type FileUpload struct {
	Name        string
	Size        int64
	ContentType string
	Content     io.Reader
}

type SubmitInput struct {
	Business BusinessInfo
	Identity Identity
	Bank     BankInfo
	Files    map[Slot]*FileUpload
}

// ProfileReader supplies profile-derived defaults for draft loading. The
// account subsystem owns the data; this is its read port.
type ProfileReader interface {
	Defaults(ctx context.Context, landlordID uuid.UUID) (businessName, phone string, err error)
}

type Service interface {
	// Submit validates and submits a verification request. It is the only
	// landlord-triggered transition into PENDING.
	Submit(ctx context.Context, landlordID uuid.UUID, in SubmitInput) (*VerificationRequest, error)

	// Status returns the authoritative {status, note} for the landlord.
	Status(ctx context.Context, landlordID uuid.UUID) (*StatusResult, error)

	SaveDraft(ctx context.Context, landlordID uuid.UUID, d *draft.Draft) error
	// LoadDraft merges the saved draft with profile defaults and reports
	// slots whose binary must be re-attached before the draft counts as
	// complete.
	LoadDraft(ctx context.Context, landlordID uuid.UUID) (*draft.Draft, []Slot, error)
	ClearDraft(ctx context.Context, landlordID uuid.UUID) error
}

var ErrAlreadyVerified = errors.New("landlord is already verified")

type service struct {
	repo     Repository
	drafts   draft.Store
	storage  *StorageProvider
	profiles ProfileReader
	sm       *workflows.StateMachine
	logger   *zap.Logger
}

func NewService(repo Repository, drafts draft.Store, storage *StorageProvider, profiles ProfileReader, logger *zap.Logger) Service {
	return &service{
		repo:     repo,
		drafts:   drafts,
		storage:  storage,
		profiles: profiles,
		sm:       workflows.NewStateMachine(),
		logger:   logger,
	}
}

func (s *service) Submit(ctx context.Context, landlordID uuid.UUID, in SubmitInput) (*VerificationRequest, error) {
	// Draft is advisory: a load failure costs confirmed-upload reuse, not
	// the submission.
	wd, err := s.drafts.Load(ctx, landlordID.String())
	if err != nil {
		s.logger.Warn("draft load failed, continuing without draft",
			zap.String("landlord_id", landlordID.String()), zap.Error(err))
		wd = nil
	}
	if wd == nil {
		wd = &draft.Draft{LandlordID: landlordID.String()}
	}
	wd.Business = draft.BusinessInfo(in.Business)
	wd.Identity = draft.Identity(in.Identity)
	wd.Bank = draft.BankInfo(in.Bank)

	if verr := s.validate(in, wd); verr != nil {
		return nil, verr
	}
	for _, slot := range Slots {
		if f := in.Files[slot]; f != nil {
			if err := ValidateFile(f.Size, f.ContentType); err != nil {
				return nil, err
			}
		}
	}

	latest, err := s.repo.GetLatestByLandlord(ctx, landlordID)
	if err != nil && !errors.Is(err, ErrRequestNotFound) {
		return nil, err
	}
	prior := StatusUnsubmitted
	if latest != nil {
		switch latest.Status {
		case StatusApproved:
			return nil, ErrAlreadyVerified
		case StatusPending:
			return nil, ErrPendingExists
		case StatusRejected:
			// new cycle, prior row retained for audit
			prior = StatusUnsubmitted
		}
	}
	if !s.sm.CanTransition(string(prior), string(StatusPending)) {
		return nil, ErrStaleState
	}

	evidence, err := s.collectEvidence(ctx, landlordID, in, wd)
	if err != nil {
		return nil, err
	}
	if !evidence.HasRequiredDocuments() {
		return nil, &ValidationError{Missing: []string{string(SlotIdentification), string(SlotUtilityBill)}}
	}

	req := &VerificationRequest{
		ID:          uuid.New(),
		LandlordID:  landlordID,
		Status:      StatusPending,
		Business:    in.Business,
		Identity:    in.Identity,
		Bank:        in.Bank,
		Documents:   *evidence,
		SubmittedAt: time.Now(),
	}
	if err := s.repo.CreateRequest(ctx, req); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateAccountStatus(ctx, landlordID, StatusPending, ""); err != nil {
		s.logger.Error("account status mirror failed",
			zap.String("landlord_id", landlordID.String()), zap.Error(err))
	}
	if err := s.drafts.Clear(ctx, landlordID.String()); err != nil {
		s.logger.Warn("draft clear failed", zap.String("landlord_id", landlordID.String()), zap.Error(err))
	}

	present, total := req.Documents.Completeness()
	s.logger.Info("verification request submitted",
		zap.String("request_id", req.ID.String()),
		zap.String("landlord_id", landlordID.String()),
		zap.Int("documents_present", present),
		zap.Int("documents_total", total))
	return req, nil
}

// validate enumerates missing required fields and documents before anything
// reaches the object store. A slot counts as covered when a file accompanies
// the submission or the draft holds a confirmed upload for it.
func (s *service) validate(in SubmitInput, wd *draft.Draft) error {
	var missing []string
	if strings.TrimSpace(in.Business.BusinessName) == "" {
		missing = append(missing, "business_name")
	}
	if strings.TrimSpace(in.Business.BusinessAddress) == "" {
		missing = append(missing, "business_address")
	}
	if strings.TrimSpace(in.Business.PhoneNumber) == "" {
		missing = append(missing, "phone_number")
	}
	if strings.TrimSpace(in.Identity.IDNumber) == "" {
		missing = append(missing, "id_number")
	}
	covered := func(slot Slot) bool {
		if in.Files[slot] != nil {
			return true
		}
		meta := wd.SlotMeta(string(slot))
		return meta != nil && meta.Uploaded
	}
	if !covered(SlotIdentification) {
		missing = append(missing, string(SlotIdentification))
	}
	if !covered(SlotUtilityBill) {
		missing = append(missing, string(SlotUtilityBill))
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// collectEvidence uploads newly attached files slot by slot and reuses
// confirmed uploads from the draft. Each confirmed upload is recorded in the
// draft immediately, so a failure partway leaves a draft from which a retry
// skips the slots that already made it.
func (s *service) collectEvidence(ctx context.Context, landlordID uuid.UUID, in SubmitInput, wd *draft.Draft) (*EvidenceSet, error) {
	var evidence EvidenceSet
	for _, slot := range Slots {
		if f := in.Files[slot]; f != nil {
			ref, err := s.storage.UploadEvidence(ctx, landlordID.String(), slot, f.Name, f.ContentType, f.Size, f.Content)
			if err != nil {
				if saveErr := s.drafts.Save(ctx, wd); saveErr != nil {
					s.logger.Warn("draft save after upload failure failed", zap.Error(saveErr))
				}
				return nil, err
			}
			if err := evidence.Attach(slot, ref); err != nil {
				return nil, err
			}
			wd.SetSlotMeta(string(slot), &draft.DocumentMeta{
				Name:        f.Name,
				Size:        f.Size,
				ContentType: f.ContentType,
				StorageKey:  ref.Key,
				Uploaded:    true,
			})
			continue
		}
		meta := wd.SlotMeta(string(slot))
		if meta == nil || !meta.Uploaded {
			continue
		}
		// A confirmed key always lives under this landlord's prefix; anything
		// else did not come from collectEvidence and is not evidence.
		if !strings.HasPrefix(meta.StorageKey, "landlords/"+landlordID.String()+"/") {
			s.logger.Warn("draft slot references a foreign storage key, ignoring",
				zap.String("landlord_id", landlordID.String()), zap.String("slot", string(slot)))
			continue
		}
		ref, err := s.storage.RefFromKey(ctx, meta.StorageKey, meta.Name, meta.ContentType, meta.Size)
		if err != nil {
			return nil, err
		}
		if err := evidence.Attach(slot, ref); err != nil {
			return nil, err
		}
	}
	return &evidence, nil
}

func (s *service) Status(ctx context.Context, landlordID uuid.UUID) (*StatusResult, error) {
	latest, err := s.repo.GetLatestByLandlord(ctx, landlordID)
	if errors.Is(err, ErrRequestNotFound) {
		return &StatusResult{Status: StatusUnsubmitted}, nil
	}
	if err != nil {
		return nil, err
	}
	return &StatusResult{Status: latest.Status, Note: latest.Note}, nil
}

// SaveDraft persists client-edited fields. Upload confirmation is server
// state: collectEvidence is the only writer of Uploaded/StorageKey, so any
// client-asserted values are discarded and confirmation survives a round trip
// only when the stored draft already holds it for the same file.
func (s *service) SaveDraft(ctx context.Context, landlordID uuid.UUID, d *draft.Draft) error {
	d.LandlordID = landlordID.String()
	existing, err := s.drafts.Load(ctx, landlordID.String())
	if err != nil {
		s.logger.Warn("draft load before save failed",
			zap.String("landlord_id", landlordID.String()), zap.Error(err))
		existing = nil
	}
	for _, slot := range Slots {
		meta := d.SlotMeta(string(slot))
		if meta == nil {
			continue
		}
		meta.Uploaded = false
		meta.StorageKey = ""
		if existing == nil {
			continue
		}
		if prev := existing.SlotMeta(string(slot)); prev != nil && prev.Uploaded &&
			prev.Name == meta.Name && prev.Size == meta.Size {
			meta.Uploaded = true
			meta.StorageKey = prev.StorageKey
		}
	}
	return s.drafts.Save(ctx, d)
}

func (s *service) LoadDraft(ctx context.Context, landlordID uuid.UUID) (*draft.Draft, []Slot, error) {
	d, err := s.drafts.Load(ctx, landlordID.String())
	if err != nil {
		return nil, nil, err
	}
	if d == nil {
		d = &draft.Draft{LandlordID: landlordID.String()}
	}
	if s.profiles != nil {
		name, phone, err := s.profiles.Defaults(ctx, landlordID)
		if err != nil {
			s.logger.Warn("profile defaults unavailable",
				zap.String("landlord_id", landlordID.String()), zap.Error(err))
		} else {
			d.ApplyProfileDefaults(name, phone)
		}
	}
	var reupload []Slot
	for _, slot := range Slots {
		if meta := d.SlotMeta(string(slot)); meta.NeedsReupload() {
			reupload = append(reupload, slot)
		}
	}
	return d, reupload, nil
}

func (s *service) ClearDraft(ctx context.Context, landlordID uuid.UUID) error {
	return s.drafts.Clear(ctx, landlordID.String())
}
