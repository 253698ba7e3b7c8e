package verification

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ListFilter narrows the admin review list. Status "ALL" (or empty) matches
// every reviewed or pending request; Search matches landlord name or email.
type ListFilter struct {
	Status string
	Search string
}

type Repository interface {
	CreateRequest(ctx context.Context, req *VerificationRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*VerificationRequest, error)
	GetLatestByLandlord(ctx context.Context, landlordID uuid.UUID) (*VerificationRequest, error)
	List(ctx context.Context, filter ListFilter) ([]ReviewItem, error)

	// ApplyDecision moves a request out of PENDING with a single
	// compare-and-set. Returns ErrStaleState when the request exists but is
	// no longer PENDING, so concurrent reviewers resolve deterministically.
	ApplyDecision(ctx context.Context, requestID uuid.UUID, newStatus Status, decision AdminDecision) (*VerificationRequest, error)

	// UpdateAccountStatus mirrors the latest outcome onto the landlord
	// account for quick display.
	UpdateAccountStatus(ctx context.Context, landlordID uuid.UUID, status Status, note string) error
}

type requestRow struct {
	ID              uuid.UUID  `db:"id"`
	LandlordID      uuid.UUID  `db:"landlord_id"`
	Status          string     `db:"status"`
	BusinessName    string     `db:"business_name"`
	BusinessAddress string     `db:"business_address"`
	PhoneNumber     string     `db:"phone_number"`
	IDType          string     `db:"id_type"`
	IDNumber        string     `db:"id_number"`
	BankName        string     `db:"bank_name"`
	AccountNumber   string     `db:"account_number"`
	AccountName     string     `db:"account_name"`
	Documents       []byte     `db:"documents"`
	SubmittedAt     time.Time  `db:"submitted_at"`
	ReviewedAt      *time.Time `db:"reviewed_at"`
	ReviewerID      *uuid.UUID `db:"reviewer_id"`
	Note            string     `db:"note"`
}

type reviewRow struct {
	requestRow
	LandlordName  string `db:"landlord_name"`
	LandlordEmail string `db:"landlord_email"`
}

func (r *requestRow) toModel() (*VerificationRequest, error) {
	req := &VerificationRequest{
		ID:         r.ID,
		LandlordID: r.LandlordID,
		Status:     Status(r.Status),
		Business: BusinessInfo{
			BusinessName:    r.BusinessName,
			BusinessAddress: r.BusinessAddress,
			PhoneNumber:     r.PhoneNumber,
		},
		Identity: Identity{IDType: r.IDType, IDNumber: r.IDNumber},
		Bank: BankInfo{
			BankName:      r.BankName,
			AccountNumber: r.AccountNumber,
			AccountName:   r.AccountName,
		},
		SubmittedAt: r.SubmittedAt,
		ReviewedAt:  r.ReviewedAt,
		ReviewerID:  r.ReviewerID,
		Note:        r.Note,
	}
	if len(r.Documents) > 0 {
		if err := json.Unmarshal(r.Documents, &req.Documents); err != nil {
			return nil, fmt.Errorf("unmarshal documents: %w", err)
		}
	}
	return req, nil
}

func rowFromModel(req *VerificationRequest) (*requestRow, error) {
	docs, err := json.Marshal(req.Documents)
	if err != nil {
		return nil, fmt.Errorf("marshal documents: %w", err)
	}
	return &requestRow{
		ID:              req.ID,
		LandlordID:      req.LandlordID,
		Status:          string(req.Status),
		BusinessName:    req.Business.BusinessName,
		BusinessAddress: req.Business.BusinessAddress,
		PhoneNumber:     req.Business.PhoneNumber,
		IDType:          req.Identity.IDType,
		IDNumber:        req.Identity.IDNumber,
		BankName:        req.Bank.BankName,
		AccountNumber:   req.Bank.AccountNumber,
		AccountName:     req.Bank.AccountName,
		Documents:       docs,
		SubmittedAt:     req.SubmittedAt,
		ReviewedAt:      req.ReviewedAt,
		ReviewerID:      req.ReviewerID,
		Note:            req.Note,
	}, nil
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateRequest(ctx context.Context, req *VerificationRequest) error {
	row, err := rowFromModel(req)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO verification_requests (
			id, landlord_id, status, business_name, business_address, phone_number,
			id_type, id_number, bank_name, account_number, account_name,
			documents, submitted_at, reviewed_at, reviewer_id, note
		) VALUES (
			:id, :landlord_id, :status, :business_name, :business_address, :phone_number,
			:id_type, :id_number, :bank_name, :account_number, :account_name,
			:documents, :submitted_at, :reviewed_at, :reviewer_id, :note
		)`
	_, err = r.db.NamedExecContext(ctx, query, row)
	return err
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*VerificationRequest, error) {
	var row requestRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM verification_requests WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toModel()
}

func (r *postgresRepository) GetLatestByLandlord(ctx context.Context, landlordID uuid.UUID) (*VerificationRequest, error) {
	var row requestRow
	err := r.db.GetContext(ctx, &row,
		"SELECT * FROM verification_requests WHERE landlord_id = $1 ORDER BY submitted_at DESC LIMIT 1", landlordID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toModel()
}

func (r *postgresRepository) List(ctx context.Context, filter ListFilter) ([]ReviewItem, error) {
	query := `
		SELECT vr.*, la.full_name AS landlord_name, la.email AS landlord_email
		FROM verification_requests vr
		JOIN landlord_accounts la ON la.id = vr.landlord_id
		WHERE 1=1`
	var args []interface{}
	argCount := 1

	if filter.Status != "" && filter.Status != "ALL" {
		query += fmt.Sprintf(" AND vr.status = $%d", argCount)
		args = append(args, filter.Status)
		argCount++
	}
	if filter.Search != "" {
		query += fmt.Sprintf(" AND (la.full_name ILIKE $%d OR la.email ILIKE $%d)", argCount, argCount)
		args = append(args, "%"+filter.Search+"%")
		argCount++
	}
	query += " ORDER BY vr.submitted_at DESC"

	var rows []reviewRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	items := make([]ReviewItem, 0, len(rows))
	for i := range rows {
		req, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		items = append(items, ReviewItem{
			Request:       *req,
			LandlordName:  rows[i].LandlordName,
			LandlordEmail: rows[i].LandlordEmail,
		})
	}
	return items, nil
}

func (r *postgresRepository) ApplyDecision(ctx context.Context, requestID uuid.UUID, newStatus Status, decision AdminDecision) (*VerificationRequest, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE verification_requests
		SET status = $1, reviewed_at = $2, reviewer_id = $3, note = $4
		WHERE id = $5 AND status = $6`,
		string(newStatus), decision.Timestamp, decision.ReviewerID, decision.Note,
		requestID, string(StatusPending))
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Distinguish a lost race from a bad id.
		var exists bool
		if err := r.db.GetContext(ctx, &exists,
			"SELECT EXISTS (SELECT 1 FROM verification_requests WHERE id = $1)", requestID); err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrStaleState
		}
		return nil, ErrRequestNotFound
	}
	return r.GetByID(ctx, requestID)
}

func (r *postgresRepository) UpdateAccountStatus(ctx context.Context, landlordID uuid.UUID, status Status, note string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE landlord_accounts
		SET verification_status = $1, verification_note = $2, updated_at = NOW()
		WHERE id = $3`,
		string(status), note, landlordID)
	return err
}
