package statussync

import "time"

// StatusChange is emitted when the authoritative status differs from the last
// observed one. It is the decision to notify; delivery belongs to the
// notification collaborator.
type StatusChange struct {
	LandlordID string    `json:"landlord_id"`
	Old        string    `json:"old"`
	New        string    `json:"new"`
	Note       string    `json:"note"`
	At         time.Time `json:"at"`
}

// Reduce reconciles a fetched authoritative status against the previously
// observed one. No event is produced on the very first observation or when
// nothing changed, so repeated fetches never re-notify.
func Reduce(prev string, hasPrev bool, fetched string) (string, bool) {
	if !hasPrev {
		return fetched, false
	}
	if prev == fetched {
		return fetched, false
	}
	return fetched, true
}
