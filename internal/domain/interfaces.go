package domain

// ─── Collaborator Interfaces ────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.

// StateStore abstracts the durable key-value record behind the ledger.
// The ledger is the only writer; readers see in-memory snapshots.
type StateStore interface {
	// GetState returns the stored value for key, or "" if absent.
	GetState(key string) (string, error)

	// SetState stores value under key, replacing any previous value.
	SetState(key, value string) error
}

// TrashClassifier decides whether a photo shows trash. The shipped
// implementation is a mock; a real vision model slots in here without
// touching the scoring arithmetic.
type TrashClassifier interface {
	Classify(imageRef string) Classification
}

// ImageMetaReader supplies pixel dimensions for a photo reference.
// Failures propagate as ErrUnreadableImage.
type ImageMetaReader interface {
	ReadMeta(imageRef string) (ImageMeta, error)
}
