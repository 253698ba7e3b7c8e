package verification

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusUnsubmitted Status = "UNSUBMITTED"
	StatusPending     Status = "PENDING"
	StatusApproved    Status = "APPROVED"
	StatusRejected    Status = "REJECTED"
)

// IsTerminal reports whether the status ends a request's lifecycle. A rejected
// request is superseded by a new request on resubmission, never mutated.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

type BusinessInfo struct {
	BusinessName    string `json:"business_name"`
	BusinessAddress string `json:"business_address"`
	PhoneNumber     string `json:"phone_number"`
}

type Identity struct {
	IDType   string `json:"id_type"`
	IDNumber string `json:"id_number"`
}

type BankInfo struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
}

// VerificationRequest is one submission cycle for one landlord. Requests are
// append-only across cycles: a rejection keeps its row and resubmission
// creates a new id.
type VerificationRequest struct {
	ID         uuid.UUID    `json:"id"`
	LandlordID uuid.UUID    `json:"landlord_id"`
	Status     Status       `json:"status"`
	Business   BusinessInfo `json:"business"`
	Identity   Identity     `json:"identity"`
	Bank       BankInfo     `json:"bank"`
	Documents  EvidenceSet  `json:"documents"`
	SubmittedAt time.Time   `json:"submitted_at"`
	ReviewedAt *time.Time   `json:"reviewed_at,omitempty"`
	ReviewerID *uuid.UUID   `json:"reviewer_id,omitempty"`
	Note       string       `json:"note"`
}

type DecisionAction string

const (
	ActionApprove DecisionAction = "approve"
	ActionReject  DecisionAction = "reject"
)

// AdminDecision is applied to exactly one PENDING request.
type AdminDecision struct {
	Action     DecisionAction `json:"action"`
	Note       string         `json:"note"`
	ReviewerID uuid.UUID      `json:"reviewer_id"`
	Timestamp  time.Time      `json:"timestamp"`
}

// StatusResult is the authoritative {status, note} pair a landlord sees.
type StatusResult struct {
	Status Status `json:"status"`
	Note   string `json:"note"`
}

// ReviewItem is a request joined with landlord identity for the admin list.
type ReviewItem struct {
	Request       VerificationRequest `json:"request"`
	LandlordName  string              `json:"landlord_name"`
	LandlordEmail string              `json:"landlord_email"`
}
