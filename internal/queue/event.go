// Package queue defines message payloads exchanged over the message broker.
package queue

// AccessRequestedEvent is published when a share-link holder asks the
// note owner for edit access. It carries enough information for
// downstream consumers to notify the owner (email, push, digest)
// without querying the primary database.
type AccessRequestedEvent struct {
	NoteID         string `json:"note_id"`
	NoteTitle      string `json:"note_title"`
	OwnerID        uint64 `json:"owner_id"`
	RequesterEmail string `json:"requester_email"`
	Message        string `json:"message"`
	RequestedAt    string `json:"requested_at"`
}
