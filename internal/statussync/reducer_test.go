package statussync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReduceFirstObservationIsSilent(t *testing.T) {
	status, changed := Reduce("", false, "PENDING")
	assert.Equal(t, "PENDING", status)
	assert.False(t, changed)
}

func TestReduceUnchangedIsSilent(t *testing.T) {
	status, changed := Reduce("PENDING", true, "PENDING")
	assert.Equal(t, "PENDING", status)
	assert.False(t, changed)
}

func TestReduceChangeEmits(t *testing.T) {
	status, changed := Reduce("PENDING", true, "REJECTED")
	assert.Equal(t, "REJECTED", status)
	assert.True(t, changed)
}

func TestReduceRepeatedFetchEmitsOnce(t *testing.T) {
	status, changed := Reduce("PENDING", true, "APPROVED")
	assert.True(t, changed)

	// second fetch with no intervening change
	status, changed = Reduce(status, true, "APPROVED")
	assert.Equal(t, "APPROVED", status)
	assert.False(t, changed)
}
