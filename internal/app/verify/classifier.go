package verify

import (
	"math/rand"
	"sync"

	"github.com/ecoquest-app/ecoquest/internal/domain"
)

// MockClassifier stands in for a real trash-detection model. It returns a
// biased random boolean per photo — real AI integration replaces this
// implementation behind the same interface.
type MockClassifier struct {
	mu  sync.Mutex
	rng *rand.Rand
	// probability a photo is reported as containing trash
	hitRate float64
}

// NewMockClassifier creates a mock with an 80% hit rate.
func NewMockClassifier(rng *rand.Rand) *MockClassifier {
	return &MockClassifier{rng: rng, hitRate: 0.8}
}

// Classify reports trash presence by a weighted coin flip.
func (c *MockClassifier) Classify(imageRef string) domain.Classification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.Classification{TrashPresent: c.rng.Float64() < c.hitRate}
}

// FixedClassifier returns predetermined answers keyed by image reference.
// Used in tests and demos where outcomes must be deterministic.
type FixedClassifier map[string]bool

// Classify looks up the fixed answer for the reference (default false).
func (c FixedClassifier) Classify(imageRef string) domain.Classification {
	return domain.Classification{TrashPresent: c[imageRef]}
}
