package verification

// Slot names one of the four fixed evidence attachment points. The set is a
// closed record, not a map, so completeness checks are exhaustive.
type Slot string

const (
	SlotIdentification    Slot = "identification"
	SlotUtilityBill       Slot = "utility_bill"
	SlotBankStatement     Slot = "bank_statement"
	SlotPropertyDocuments Slot = "property_documents"
)

// Slots lists every evidence slot in display order.
var Slots = [4]Slot{SlotIdentification, SlotUtilityBill, SlotBankStatement, SlotPropertyDocuments}

// MaxFileSize caps a single evidence file at 5 MiB.
const MaxFileSize = 5 << 20

var allowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

// EvidenceRef points at a stored evidence object. Size and ContentType are
// validated before upload; Key and URL are set once the object store confirmed
// the upload.
type EvidenceRef struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	Key         string `json:"key"`
	URL         string `json:"url"`
}

// EvidenceSet is the fixed four-slot evidence record of a verification
// request. Identification and UtilityBill are mandatory, the other two
// optional.
type EvidenceSet struct {
	Identification    *EvidenceRef `json:"identification"`
	UtilityBill       *EvidenceRef `json:"utility_bill"`
	BankStatement     *EvidenceRef `json:"bank_statement"`
	PropertyDocuments *EvidenceRef `json:"property_documents"`
}

// ValidateFile checks size and mime type limits for an evidence file.
func ValidateFile(size int64, contentType string) error {
	if size > MaxFileSize {
		return ErrFileTooLarge
	}
	if !allowedContentTypes[contentType] {
		return ErrUnsupportedType
	}
	return nil
}

// Attach validates the reference and places it in the named slot.
func (s *EvidenceSet) Attach(slot Slot, ref *EvidenceRef) error {
	if err := ValidateFile(ref.Size, ref.ContentType); err != nil {
		return err
	}
	s.set(slot, ref)
	return nil
}

// Remove clears the named slot.
func (s *EvidenceSet) Remove(slot Slot) {
	s.set(slot, nil)
}

// Get returns the reference in the named slot, nil when absent.
func (s *EvidenceSet) Get(slot Slot) *EvidenceRef {
	switch slot {
	case SlotIdentification:
		return s.Identification
	case SlotUtilityBill:
		return s.UtilityBill
	case SlotBankStatement:
		return s.BankStatement
	case SlotPropertyDocuments:
		return s.PropertyDocuments
	}
	return nil
}

func (s *EvidenceSet) set(slot Slot, ref *EvidenceRef) {
	switch slot {
	case SlotIdentification:
		s.Identification = ref
	case SlotUtilityBill:
		s.UtilityBill = ref
	case SlotBankStatement:
		s.BankStatement = ref
	case SlotPropertyDocuments:
		s.PropertyDocuments = ref
	}
}

// Completeness returns how many of the four slots hold evidence.
func (s *EvidenceSet) Completeness() (present, total int) {
	for _, slot := range Slots {
		if s.Get(slot) != nil {
			present++
		}
	}
	return present, len(Slots)
}

// HasRequiredDocuments reports whether both mandatory slots hold evidence.
// The submit pre-check and the admin approval gate both call this exact
// predicate; the two must never diverge.
func (s *EvidenceSet) HasRequiredDocuments() bool {
	return s.Identification != nil && s.UtilityBill != nil
}
