package draft

import "time"

// DocumentMeta describes an evidence slot in a saved draft. Only metadata is
// kept; binary content never enters the draft store. Uploaded is set once the
// object store confirmed the upload, so a retried submission can skip the slot.
type DocumentMeta struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	StorageKey  string `json:"storage_key,omitempty"`
	Uploaded    bool   `json:"uploaded"`
}

// NeedsReupload reports whether the slot holds metadata without a confirmed
// stored object. Such a slot must never be treated as attached.
func (m *DocumentMeta) NeedsReupload() bool {
	return m != nil && !m.Uploaded
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

// Draft is the per-landlord, non-authoritative record of an in-progress
// verification submission.
type Draft struct {
	LandlordID string       `json:"landlord_id"`
	Business   BusinessInfo `json:"business"`
	Identity   Identity     `json:"identity"`
	Bank       BankInfo     `json:"bank"`

	Identification    *DocumentMeta `json:"identification,omitempty"`
	UtilityBill       *DocumentMeta `json:"utility_bill,omitempty"`
	BankStatement     *DocumentMeta `json:"bank_statement,omitempty"`
	PropertyDocuments *DocumentMeta `json:"property_documents,omitempty"`

	SavedAt time.Time `json:"saved_at"`
}

// ApplyProfileDefaults fills profile-derived values into fields the draft does
// not already hold. A value the landlord typed is never overwritten.
func (d *Draft) ApplyProfileDefaults(businessName, phone string) {
	if d.Business.BusinessName == "" {
		d.Business.BusinessName = businessName
	}
	if d.Business.PhoneNumber == "" {
		d.Business.PhoneNumber = phone
	}
}

// SlotMeta returns the metadata for a named slot, nil when absent.
func (d *Draft) SlotMeta(slot string) *DocumentMeta {
	switch slot {
	case "identification":
		return d.Identification
	case "utility_bill":
		return d.UtilityBill
	case "bank_statement":
		return d.BankStatement
	case "property_documents":
		return d.PropertyDocuments
	}
	return nil
}

// SetSlotMeta stores metadata for a named slot.
func (d *Draft) SetSlotMeta(slot string, meta *DocumentMeta) {
	switch slot {
	case "identification":
		d.Identification = meta
	case "utility_bill":
		d.UtilityBill = meta
	case "bank_statement":
		d.BankStatement = meta
	case "property_documents":
		d.PropertyDocuments = meta
	}
}
