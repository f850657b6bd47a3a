package domain

import "time"

// ─── Cleanup Verification Types ─────────────────────────────────────────────

// CleanupSubmission is one verification attempt: before/after photo refs,
// an optional location fix, and a capture timestamp. Consumed once by the
// scorer; never stored.
type CleanupSubmission struct {
	BeforeImage string      `json:"before_image"`
	AfterImage  string      `json:"after_image"`
	MissionID   string      `json:"mission_id"`
	Location    *Coordinate `json:"location,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
	Notes       string      `json:"notes,omitempty"`
}

// ImageMeta is the pixel geometry of a photo reference.
type ImageMeta struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Pixels returns the pixel-dimension product.
func (m ImageMeta) Pixels() int { return m.Width * m.Height }

// ImageQuality buckets a photo by megapixel count.
type ImageQuality string

const (
	QualityGood ImageQuality = "good" // >= 2 MP
	QualityFair ImageQuality = "fair" // >= 1 MP
	QualityPoor ImageQuality = "poor"
)

// VerificationSignals records the independent checks behind a score.
type VerificationSignals struct {
	TrashBefore      bool         `json:"trash_before"`
	TrashAfter       bool         `json:"trash_after"`
	LocationVerified bool         `json:"location_verified"`
	TimestampValid   bool         `json:"timestamp_valid"`
	ImageQuality     ImageQuality `json:"image_quality"`
}

// VerificationResult is the derived outcome of scoring a submission.
// Confidence is an integer in [0,100]; Verified holds iff confidence > 75.
type VerificationResult struct {
	Verified        bool                `json:"verified"`
	Confidence      int                 `json:"confidence"`
	Signals         VerificationSignals `json:"signals"`
	Recommendations []string            `json:"recommendations"`
}

// Classification is the output of a trash classifier for one photo.
type Classification struct {
	TrashPresent bool `json:"trash_present"`
}
