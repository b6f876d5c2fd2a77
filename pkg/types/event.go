package types

// Event is one entry in an account's event stream. Events are immutable
// and ordered by sequence number within a single handle/field.
type Event struct {
	SequenceNumber uint64    `json:"sequence_number,string"`
	Type           string    `json:"type"`
	Data           EventData `json:"data"`
}

// EventData is the payload of a token deposit or withdrawal event.
// Amounts are textual on the wire (64-bit range).
type EventData struct {
	ID     TokenID `json:"id"`
	Amount uint64  `json:"amount,string"`
}

// Cursor is an opaque pagination token issued by the event-fetch side.
type Cursor string

// EventPage is one fetched page of an event stream. Next is nil when the
// stream is exhausted.
type EventPage struct {
	Events []Event
	Next   *Cursor
}
