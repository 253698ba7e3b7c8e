package verification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttachRejectsOversizeFile(t *testing.T) {
	var set EvidenceSet
	err := set.Attach(SlotIdentification, &EvidenceRef{
		Name:        "huge.pdf",
		Size:        MaxFileSize + 1,
		ContentType: "application/pdf",
	})
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Nil(t, set.Identification)
}

func TestAttachRejectsUnsupportedType(t *testing.T) {
	var set EvidenceSet
	err := set.Attach(SlotUtilityBill, &EvidenceRef{
		Name:        "bill.docx",
		Size:        1024,
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestAttachAcceptsAllowedTypes(t *testing.T) {
	for _, contentType := range []string{"image/jpeg", "image/png", "application/pdf"} {
		var set EvidenceSet
		err := set.Attach(SlotBankStatement, &EvidenceRef{
			Name:        "statement",
			Size:        2048,
			ContentType: contentType,
		})
		assert.NoError(t, err)
		assert.NotNil(t, set.BankStatement)
	}
}

func TestCompleteness(t *testing.T) {
	var set EvidenceSet
	present, total := set.Completeness()
	assert.Equal(t, 0, present)
	assert.Equal(t, 4, total)

	assert.NoError(t, set.Attach(SlotIdentification, &EvidenceRef{Name: "id.png", Size: 1, ContentType: "image/png"}))
	assert.NoError(t, set.Attach(SlotUtilityBill, &EvidenceRef{Name: "bill.pdf", Size: 1, ContentType: "application/pdf"}))

	present, total = set.Completeness()
	assert.Equal(t, 2, present)
	assert.Equal(t, 4, total)
}

func TestHasRequiredDocuments(t *testing.T) {
	var set EvidenceSet
	assert.False(t, set.HasRequiredDocuments())

	assert.NoError(t, set.Attach(SlotIdentification, &EvidenceRef{Name: "id.png", Size: 1, ContentType: "image/png"}))
	assert.False(t, set.HasRequiredDocuments(), "utility bill still missing")

	assert.NoError(t, set.Attach(SlotUtilityBill, &EvidenceRef{Name: "bill.pdf", Size: 1, ContentType: "application/pdf"}))
	assert.True(t, set.HasRequiredDocuments())

	// the optional slots do not affect the predicate
	set.Remove(SlotBankStatement)
	set.Remove(SlotPropertyDocuments)
	assert.True(t, set.HasRequiredDocuments())

	set.Remove(SlotUtilityBill)
	assert.False(t, set.HasRequiredDocuments())
}

func TestRemoveClearsSlot(t *testing.T) {
	var set EvidenceSet
	assert.NoError(t, set.Attach(SlotPropertyDocuments, &EvidenceRef{Name: "deed.pdf", Size: 1, ContentType: "application/pdf"}))
	assert.NotNil(t, set.Get(SlotPropertyDocuments))

	set.Remove(SlotPropertyDocuments)
	assert.Nil(t, set.Get(SlotPropertyDocuments))
}
