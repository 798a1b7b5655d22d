package models

import "time"

// Video is the persisted record of one encrypted video entry. The server
// never sees the plaintext: the ciphertext lives in object storage under
// StorageKey, and IV plus the exported key travel alongside so the owning
// client can decrypt.
//
// StorageKey, IV and JWK are set together at creation and are immutable
// afterwards; only Title may change. The repository exposes no statement
// that touches them post-insert.
type Video struct {
	ID     string
	UserID string

	Title string

	// StorageKey is the object-storage key of the ciphertext blob.
	StorageKey string
	// IV is the 12-byte GCM nonce in the canonical hex encoding.
	IV string
	// JWK is the exported per-object key (JSON key object).
	JWK string

	// SequenceNumber orders entries within one owner (1-based). It is
	// display ordering, not a uniqueness guarantee; see the upload flow.
	SequenceNumber int64
	// SolDay is the mission day the entry was recorded on.
	SolDay int

	CreatedAt time.Time
}
