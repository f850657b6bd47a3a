// Package verify implements the cleanup-photo verification scorer.
//
// The scorer combines independent signals — image quality, trash presence
// before/after, location accuracy, capture recency — into a confidence
// score via fixed point deltas from a base of 50, plus bounded jitter.
// Trash detection sits behind domain.TrashClassifier so a real vision
// model can replace the shipped mock without touching the arithmetic.
package verify

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/ecoquest-app/ecoquest/internal/domain"
	"github.com/ecoquest-app/ecoquest/internal/infra/metrics"
)

const (
	baseScore = 50

	qualityGoodDelta = 20
	qualityFairDelta = 10
	qualityPoorDelta = -15

	trashClearedDelta   = 25
	trashRemainingDelta = -10
	noTrashBeforeDelta  = -20

	locationGoodDelta = 10
	locationPoorDelta = -5

	recentDelta = 5
	staleDelta  = -15

	jitterRange = 5 // uniform in [-5, +5]

	verifiedThreshold  = 75
	excellentThreshold = 85
	retakeThreshold    = 50

	goodAccuracyM = 50.0
	maxRecency    = 2 * time.Hour

	goodPixels = 2_000_000
	fairPixels = 1_000_000
)

// Scorer scores cleanup submissions. All nondeterminism (jitter, the mock
// classifier, the processing delay, the clock) is injected. One scorer is
// shared across requests; the mutex guards the rng.
type Scorer struct {
	classifier domain.TrashClassifier
	images     domain.ImageMetaReader
	clock      func() time.Time
	mu         sync.Mutex
	rng        *rand.Rand
	sleep      func(time.Duration)
}

// Option customizes a Scorer.
type Option func(*Scorer)

// WithClock fixes the clock.
func WithClock(clock func() time.Time) Option {
	return func(s *Scorer) { s.clock = clock }
}

// WithRand fixes the jitter source.
func WithRand(rng *rand.Rand) Option {
	return func(s *Scorer) { s.rng = rng }
}

// WithSleep replaces the simulated processing delay (tests pass a no-op).
func WithSleep(sleep func(time.Duration)) Option {
	return func(s *Scorer) { s.sleep = sleep }
}

// New creates a scorer over the given classifier and image reader.
func New(classifier domain.TrashClassifier, images domain.ImageMetaReader, opts ...Option) *Scorer {
	s := &Scorer{
		classifier: classifier,
		images:     images,
		clock:      time.Now,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score evaluates one submission. It blocks for a simulated 1–3 second
// processing window, then always resolves: an unreadable image yields a
// terminal failed result (verified=false, confidence=0) alongside an error
// wrapping domain.ErrUnreadableImage — callers surface the result, not the
// error.
func (s *Scorer) Score(sub domain.CleanupSubmission) (domain.VerificationResult, error) {
	s.mu.Lock()
	delay := time.Duration(1000+s.rng.Intn(2000)) * time.Millisecond
	s.mu.Unlock()
	s.sleep(delay)

	beforeMeta, err := s.images.ReadMeta(sub.BeforeImage)
	if err != nil {
		return s.failed("We couldn't read your before photo. Please retake and resubmit."),
			fmt.Errorf("%w: before photo: %v", domain.ErrUnreadableImage, err)
	}
	afterMeta, err := s.images.ReadMeta(sub.AfterImage)
	if err != nil {
		return s.failed("We couldn't read your after photo. Please retake and resubmit."),
			fmt.Errorf("%w: after photo: %v", domain.ErrUnreadableImage, err)
	}

	score := float64(baseScore)
	var recs []string
	signals := domain.VerificationSignals{}

	// Image quality: both good → good, both poor → poor, else fair.
	signals.ImageQuality = combineQuality(qualityOf(beforeMeta), qualityOf(afterMeta))
	switch signals.ImageQuality {
	case domain.QualityGood:
		score += qualityGoodDelta
	case domain.QualityFair:
		score += qualityFairDelta
	case domain.QualityPoor:
		score += qualityPoorDelta
		recs = append(recs, "Photos are low resolution — hold the camera steady and try better lighting.")
	}

	// Trash presence before vs. after.
	signals.TrashBefore = s.classifier.Classify(sub.BeforeImage).TrashPresent
	signals.TrashAfter = s.classifier.Classify(sub.AfterImage).TrashPresent
	switch {
	case signals.TrashBefore && !signals.TrashAfter:
		score += trashClearedDelta
	case signals.TrashBefore && signals.TrashAfter:
		score += trashRemainingDelta
		recs = append(recs, "Trash is still visible in the after photo — finish the cleanup and retake it.")
	default:
		score += noTrashBeforeDelta
		recs = append(recs, "Your before photo needs to clearly show the mess you're cleaning up.")
	}

	// Location accuracy.
	if sub.Location != nil && sub.Location.Accuracy < goodAccuracyM {
		signals.LocationVerified = true
		score += locationGoodDelta
	} else {
		score += locationPoorDelta
		recs = append(recs, "Enable precise GPS so we can confirm where the cleanup happened.")
	}

	// Capture recency.
	if s.clock().Sub(sub.Timestamp) < maxRecency {
		signals.TimestampValid = true
		score += recentDelta
	} else {
		score += staleDelta
		recs = append(recs, "Submit within two hours of the cleanup so the photos match the site.")
	}

	// Measurement noise.
	s.mu.Lock()
	jitter := s.rng.Float64()*2*jitterRange - jitterRange
	s.mu.Unlock()
	score += jitter

	confidence := int(math.Round(score))
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}

	result := domain.VerificationResult{
		Verified:        confidence > verifiedThreshold,
		Confidence:      confidence,
		Signals:         signals,
		Recommendations: recs,
	}
	if confidence > excellentThreshold {
		result.Recommendations = append(result.Recommendations, "Excellent verification — clear photos and a confirmed location.")
	}
	if confidence < retakeThreshold {
		result.Recommendations = append(result.Recommendations, "Verification confidence is low — retake both photos at the cleanup site.")
	}

	outcome := "rejected"
	if result.Verified {
		outcome = "verified"
	}
	metrics.Verifications.WithLabelValues(outcome).Inc()
	metrics.VerificationConfidence.Observe(float64(confidence))

	return result, nil
}

// failed builds the terminal failed result for unreadable input.
func (s *Scorer) failed(rec string) domain.VerificationResult {
	metrics.Verifications.WithLabelValues("failed").Inc()
	return domain.VerificationResult{
		Verified:        false,
		Confidence:      0,
		Recommendations: []string{rec},
	}
}

// qualityOf buckets one photo by pixel count.
func qualityOf(m domain.ImageMeta) domain.ImageQuality {
	switch {
	case m.Pixels() >= goodPixels:
		return domain.QualityGood
	case m.Pixels() >= fairPixels:
		return domain.QualityFair
	default:
		return domain.QualityPoor
	}
}

// combineQuality merges two per-photo buckets: good only if both are good,
// poor only if both are poor, fair otherwise.
func combineQuality(a, b domain.ImageQuality) domain.ImageQuality {
	if a == domain.QualityGood && b == domain.QualityGood {
		return domain.QualityGood
	}
	if a == domain.QualityPoor && b == domain.QualityPoor {
		return domain.QualityPoor
	}
	return domain.QualityFair
}
