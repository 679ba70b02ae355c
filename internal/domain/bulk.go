package domain

// BulkAddGuestsRequest pre-invites a batch of guests, typically right after
// event creation.
type BulkAddGuestsRequest struct {
	Guests []AddGuestRequest `json:"guests"`
}

type BulkAddFailure struct {
	Index  int    `json:"index"`
	Phone  string `json:"phone"`
	Reason string `json:"reason"`
}

// BulkAddResult reports per-row outcomes; one duplicate phone does not sink
// the rest of the batch.
type BulkAddResult struct {
	Created []Guest          `json:"created"`
	Failed  []BulkAddFailure `json:"failed"`
}
