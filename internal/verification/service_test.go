package verification

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"homematch/landlord-portal/landlord-portal-backend/internal/draft"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateRequest(ctx context.Context, req *VerificationRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*VerificationRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*VerificationRequest), args.Error(1)
}

func (m *MockRepository) GetLatestByLandlord(ctx context.Context, landlordID uuid.UUID) (*VerificationRequest, error) {
	args := m.Called(ctx, landlordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*VerificationRequest), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, filter ListFilter) ([]ReviewItem, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ReviewItem), args.Error(1)
}

func (m *MockRepository) ApplyDecision(ctx context.Context, requestID uuid.UUID, newStatus Status, decision AdminDecision) (*VerificationRequest, error) {
	args := m.Called(ctx, requestID, newStatus, decision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*VerificationRequest), args.Error(1)
}

func (m *MockRepository) UpdateAccountStatus(ctx context.Context, landlordID uuid.UUID, status Status, note string) error {
	args := m.Called(ctx, landlordID, status, note)
	return args.Error(0)
}

// countingS3 wraps the object store with upload accounting and an optional
// per-slot failure.
type countingS3 struct {
	mu       sync.Mutex
	uploads  []string
	failKeys string
}

func (c *countingS3) Upload(ctx context.Context, bucket, key string, body io.Reader) error {
	if c.failKeys != "" && strings.Contains(key, c.failKeys) {
		return errors.New("connection reset")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.uploads = append(c.uploads, key)
	return nil
}

func (c *countingS3) Download(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func (c *countingS3) Delete(ctx context.Context, bucket, key string) error { return nil }

func (c *countingS3) GetPresignedURL(ctx context.Context, bucket, key string, expiration time.Duration) (string, error) {
	return "https://" + bucket + ".s3.amazonaws.com/" + key, nil
}

type staticProfile struct {
	name, phone string
}

func (p staticProfile) Defaults(ctx context.Context, landlordID uuid.UUID) (string, string, error) {
	return p.name, p.phone, nil
}

func validInput() SubmitInput {
	return SubmitInput{
		Business: BusinessInfo{
			BusinessName:    "Acme Properties",
			BusinessAddress: "12 Main St",
			PhoneNumber:     "+2348000000000",
		},
		Identity: Identity{IDType: "passport", IDNumber: "A1234567"},
		Bank:     BankInfo{BankName: "First Bank", AccountNumber: "0011223344", AccountName: "Acme Properties Ltd"},
		Files: map[Slot]*FileUpload{
			SlotIdentification: {Name: "passport.pdf", Size: 1024, ContentType: "application/pdf", Content: strings.NewReader("id")},
			SlotUtilityBill:    {Name: "bill.png", Size: 2048, ContentType: "image/png", Content: strings.NewReader("bill")},
		},
	}
}

func newTestService(repo Repository, s3 *countingS3) (Service, draft.Store) {
	drafts := draft.NewMemoryStore()
	provider := NewStorageProvider(s3, "test-docs")
	svc := NewService(repo, drafts, provider, staticProfile{name: "Acme Properties", phone: "+2348000000000"}, zap.NewNop())
	return svc, drafts
}

func TestSubmitWithRequiredDocuments(t *testing.T) {
	mockRepo := new(MockRepository)
	s3 := &countingS3{}
	svc, drafts := newTestService(mockRepo, s3)

	ctx := context.Background()
	landlordID := uuid.New()

	mockRepo.On("GetLatestByLandlord", ctx, landlordID).Return(nil, ErrRequestNotFound)
	mockRepo.On("CreateRequest", ctx, mock.AnythingOfType("*verification.VerificationRequest")).Return(nil)
	mockRepo.On("UpdateAccountStatus", ctx, landlordID, StatusPending, "").Return(nil)

	req, err := svc.Submit(ctx, landlordID, validInput())

	assert.NoError(t, err)
	assert.NotNil(t, req)
	assert.Equal(t, StatusPending, req.Status)
	assert.Equal(t, "Acme Properties", req.Business.BusinessName)

	present, total := req.Documents.Completeness()
	assert.Equal(t, 2, present)
	assert.Equal(t, 4, total)
	assert.Nil(t, req.Documents.BankStatement)

	// draft is cleared on successful submission
	d, err := drafts.Load(ctx, landlordID.String())
	assert.NoError(t, err)
	assert.Nil(t, d)

	assert.Len(t, s3.uploads, 2)
	mockRepo.AssertExpectations(t)
}

func TestSubmitEnumeratesMissingFields(t *testing.T) {
	mockRepo := new(MockRepository)
	svc, _ := newTestService(mockRepo, &countingS3{})

	in := validInput()
	in.Business.BusinessName = ""
	in.Identity.IDNumber = ""
	delete(in.Files, SlotUtilityBill)

	_, err := svc.Submit(context.Background(), uuid.New(), in)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{"business_name", "id_number", "utility_bill"}, verr.Missing)

	// nothing reaches the repository or the object store
	mockRepo.AssertNotCalled(t, "CreateRequest", mock.Anything, mock.Anything)
}

func TestSubmitRejectsOversizeFile(t *testing.T) {
	mockRepo := new(MockRepository)
	svc, _ := newTestService(mockRepo, &countingS3{})

	in := validInput()
	in.Files[SlotIdentification].Size = MaxFileSize + 1

	_, err := svc.Submit(context.Background(), uuid.New(), in)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestSubmitRejectsUnsupportedType(t *testing.T) {
	mockRepo := new(MockRepository)
	svc, _ := newTestService(mockRepo, &countingS3{})

	in := validInput()
	in.Files[SlotUtilityBill].ContentType = "application/zip"

	_, err := svc.Submit(context.Background(), uuid.New(), in)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestSubmitWhilePendingIsRejected(t *testing.T) {
	mockRepo := new(MockRepository)
	svc, _ := newTestService(mockRepo, &countingS3{})

	ctx := context.Background()
	landlordID := uuid.New()
	mockRepo.On("GetLatestByLandlord", ctx, landlordID).
		Return(&VerificationRequest{ID: uuid.New(), LandlordID: landlordID, Status: StatusPending}, nil)

	_, err := svc.Submit(ctx, landlordID, validInput())
	assert.ErrorIs(t, err, ErrPendingExists)
	mockRepo.AssertNotCalled(t, "CreateRequest", mock.Anything, mock.Anything)
}

func TestResubmissionAfterRejectionOpensNewCycle(t *testing.T) {
	mockRepo := new(MockRepository)
	svc, _ := newTestService(mockRepo, &countingS3{})

	ctx := context.Background()
	landlordID := uuid.New()
	rejectedID := uuid.New()
	mockRepo.On("GetLatestByLandlord", ctx, landlordID).
		Return(&VerificationRequest{ID: rejectedID, LandlordID: landlordID, Status: StatusRejected, Note: "ID unreadable"}, nil)
	mockRepo.On("CreateRequest", ctx, mock.AnythingOfType("*verification.VerificationRequest")).Return(nil)
	mockRepo.On("UpdateAccountStatus", ctx, landlordID, StatusPending, "").Return(nil)

	req, err := svc.Submit(ctx, landlordID, validInput())

	assert.NoError(t, err)
	assert.NotEqual(t, rejectedID, req.ID, "resubmission creates a new auditable request")
	assert.Equal(t, StatusPending, req.Status)
	assert.Empty(t, req.Note)
}

func TestSubmitReusesConfirmedUploads(t *testing.T) {
	mockRepo := new(MockRepository)
	s3 := &countingS3{}
	svc, drafts := newTestService(mockRepo, s3)

	ctx := context.Background()
	landlordID := uuid.New()

	// a prior attempt confirmed the utility bill upload
	assert.NoError(t, drafts.Save(ctx, &draft.Draft{
		LandlordID: landlordID.String(),
		UtilityBill: &draft.DocumentMeta{
			Name:        "bill.png",
			Size:        2048,
			ContentType: "image/png",
			StorageKey:  "landlords/" + landlordID.String() + "/verification/utility_bill/bill.png",
			Uploaded:    true,
		},
	}))

	in := validInput()
	delete(in.Files, SlotUtilityBill)

	mockRepo.On("GetLatestByLandlord", ctx, landlordID).Return(nil, ErrRequestNotFound)
	mockRepo.On("CreateRequest", ctx, mock.AnythingOfType("*verification.VerificationRequest")).Return(nil)
	mockRepo.On("UpdateAccountStatus", ctx, landlordID, StatusPending, "").Return(nil)

	req, err := svc.Submit(ctx, landlordID, in)

	assert.NoError(t, err)
	assert.True(t, req.Documents.HasRequiredDocuments())
	assert.Len(t, s3.uploads, 1, "only the identification slot is uploaded")
}

func TestSubmitUploadFailureKeepsConfirmedSlots(t *testing.T) {
	mockRepo := new(MockRepository)
	s3 := &countingS3{failKeys: "utility_bill"}
	svc, drafts := newTestService(mockRepo, s3)

	ctx := context.Background()
	landlordID := uuid.New()
	mockRepo.On("GetLatestByLandlord", ctx, landlordID).Return(nil, ErrRequestNotFound)

	_, err := svc.Submit(ctx, landlordID, validInput())
	assert.ErrorIs(t, err, ErrUploadFailed)

	// the identification upload was confirmed before the failure and survives
	// in the draft, so a retry does not re-upload it
	d, loadErr := drafts.Load(ctx, landlordID.String())
	assert.NoError(t, loadErr)
	assert.NotNil(t, d)
	assert.NotNil(t, d.Identification)
	assert.True(t, d.Identification.Uploaded)
	assert.Nil(t, d.UtilityBill)
	mockRepo.AssertNotCalled(t, "CreateRequest", mock.Anything, mock.Anything)
}

func TestStatusWithoutRequestIsUnsubmitted(t *testing.T) {
	mockRepo := new(MockRepository)
	svc, _ := newTestService(mockRepo, &countingS3{})

	ctx := context.Background()
	landlordID := uuid.New()
	mockRepo.On("GetLatestByLandlord", ctx, landlordID).Return(nil, ErrRequestNotFound)

	result, err := svc.Status(ctx, landlordID)
	assert.NoError(t, err)
	assert.Equal(t, StatusUnsubmitted, result.Status)
	assert.Empty(t, result.Note)
}

func TestSaveDraftDiscardsClientUploadClaims(t *testing.T) {
	mockRepo := new(MockRepository)
	s3 := &countingS3{}
	svc, drafts := newTestService(mockRepo, s3)

	ctx := context.Background()
	landlordID := uuid.New()

	tampered := &draft.Draft{
		Identification: &draft.DocumentMeta{
			Name:        "id.pdf",
			Size:        1024,
			ContentType: "application/pdf",
			StorageKey:  "landlords/" + uuid.NewString() + "/verification/identification/id.pdf",
			Uploaded:    true,
		},
		UtilityBill: &draft.DocumentMeta{
			Name:        "bill.png",
			Size:        2048,
			ContentType: "image/png",
			StorageKey:  "landlords/" + landlordID.String() + "/verification/utility_bill/bill.png",
			Uploaded:    true,
		},
	}
	assert.NoError(t, svc.SaveDraft(ctx, landlordID, tampered))

	stored, err := drafts.Load(ctx, landlordID.String())
	assert.NoError(t, err)
	assert.False(t, stored.Identification.Uploaded)
	assert.Empty(t, stored.Identification.StorageKey)
	assert.False(t, stored.UtilityBill.Uploaded)
	assert.Empty(t, stored.UtilityBill.StorageKey)

	// the asserted slots never confirm, so a file-less submission fails
	in := validInput()
	in.Files = nil
	_, err = svc.Submit(ctx, landlordID, in)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{"identification", "utility_bill"}, verr.Missing)
	assert.Empty(t, s3.uploads)
	mockRepo.AssertNotCalled(t, "CreateRequest", mock.Anything, mock.Anything)
}

func TestSaveDraftKeepsConfirmedUploadAcrossRoundTrip(t *testing.T) {
	mockRepo := new(MockRepository)
	svc, drafts := newTestService(mockRepo, &countingS3{})

	ctx := context.Background()
	landlordID := uuid.New()
	key := "landlords/" + landlordID.String() + "/verification/utility_bill/bill.png"

	// a confirmed upload recorded by a prior submission attempt
	assert.NoError(t, drafts.Save(ctx, &draft.Draft{
		LandlordID: landlordID.String(),
		UtilityBill: &draft.DocumentMeta{
			Name: "bill.png", Size: 2048, ContentType: "image/png",
			StorageKey: key, Uploaded: true,
		},
	}))

	// client round-trips the draft while editing other fields
	roundTrip := &draft.Draft{
		Business: draft.BusinessInfo{BusinessName: "Acme Properties"},
		UtilityBill: &draft.DocumentMeta{
			Name: "bill.png", Size: 2048, ContentType: "image/png",
			StorageKey: key, Uploaded: true,
		},
	}
	assert.NoError(t, svc.SaveDraft(ctx, landlordID, roundTrip))

	stored, err := drafts.Load(ctx, landlordID.String())
	assert.NoError(t, err)
	assert.Equal(t, "Acme Properties", stored.Business.BusinessName)
	assert.True(t, stored.UtilityBill.Uploaded)
	assert.Equal(t, key, stored.UtilityBill.StorageKey)

	// a renamed file is a different file; confirmation does not carry over
	renamed := &draft.Draft{
		UtilityBill: &draft.DocumentMeta{
			Name: "other.png", Size: 2048, ContentType: "image/png",
			StorageKey: key, Uploaded: true,
		},
	}
	assert.NoError(t, svc.SaveDraft(ctx, landlordID, renamed))

	stored, err = drafts.Load(ctx, landlordID.String())
	assert.NoError(t, err)
	assert.False(t, stored.UtilityBill.Uploaded)
}

func TestCollectEvidenceIgnoresForeignStorageKey(t *testing.T) {
	mockRepo := new(MockRepository)
	s3 := &countingS3{}
	svc, drafts := newTestService(mockRepo, s3)

	ctx := context.Background()
	landlordID := uuid.New()

	// corrupt store state: a confirmed slot pointing outside this landlord's
	// prefix must never become evidence
	assert.NoError(t, drafts.Save(ctx, &draft.Draft{
		LandlordID: landlordID.String(),
		UtilityBill: &draft.DocumentMeta{
			Name: "bill.png", Size: 2048, ContentType: "image/png",
			StorageKey: "landlords/" + uuid.NewString() + "/verification/utility_bill/bill.png",
			Uploaded:   true,
		},
	}))

	mockRepo.On("GetLatestByLandlord", ctx, landlordID).Return(nil, ErrRequestNotFound)

	in := validInput()
	delete(in.Files, SlotUtilityBill)

	_, err := svc.Submit(ctx, landlordID, in)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	mockRepo.AssertNotCalled(t, "CreateRequest", mock.Anything, mock.Anything)
}

func TestLoadDraftMarksSlotsNeedingReupload(t *testing.T) {
	mockRepo := new(MockRepository)
	svc, drafts := newTestService(mockRepo, &countingS3{})

	ctx := context.Background()
	landlordID := uuid.New()
	assert.NoError(t, drafts.Save(ctx, &draft.Draft{
		LandlordID: landlordID.String(),
		Identification: &draft.DocumentMeta{
			Name: "passport.pdf", Size: 1024, ContentType: "application/pdf",
		},
	}))

	d, reupload, err := svc.LoadDraft(ctx, landlordID)
	assert.NoError(t, err)
	assert.Equal(t, []Slot{SlotIdentification}, reupload)
	// profile defaults filled the empty fields
	assert.Equal(t, "Acme Properties", d.Business.BusinessName)
	assert.Equal(t, "+2348000000000", d.Business.PhoneNumber)
}
