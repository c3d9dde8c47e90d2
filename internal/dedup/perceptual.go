package dedup

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"sync"

	"github.com/corona10/goimagehash"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

// DefaultPerceptualThreshold is the maximum Hamming distance between two
// dHash values below which images are considered perceptually identical.
const DefaultPerceptualThreshold = 10

// PerceptualFilter matches images by perceptual hash against analyses seen
// by this process. Matches are advisory: they never short-circuit
// ingestion, only annotate the result. Safe for concurrent use.
type PerceptualFilter struct {
	mu        sync.Mutex
	threshold int
	hashes    map[uuid.UUID]*goimagehash.ImageHash
}

// NewPerceptualFilter creates a filter with the given Hamming threshold.
// A non-positive threshold falls back to DefaultPerceptualThreshold.
func NewPerceptualFilter(threshold int) *PerceptualFilter {
	if threshold <= 0 {
		threshold = DefaultPerceptualThreshold
	}
	return &PerceptualFilter{
		threshold: threshold,
		hashes:    make(map[uuid.UUID]*goimagehash.ImageHash),
	}
}

// Match reports the first remembered analysis whose hash is within the
// threshold of data's hash. Decode or hash failures accept the image as
// unique.
func (f *PerceptualFilter) Match(data []byte) (uuid.UUID, bool) {
	hash, ok := hashImage(data)
	if !ok {
		return uuid.Nil, false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for id, prior := range f.hashes {
		dist, err := hash.Distance(prior)
		if err == nil && dist < f.threshold {
			return id, true
		}
	}
	return uuid.Nil, false
}

// Remember stores the hash of a processed image under its analysis ID.
func (f *PerceptualFilter) Remember(id uuid.UUID, data []byte) {
	hash, ok := hashImage(data)
	if !ok {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.hashes[id] = hash
}

func hashImage(data []byte) (*goimagehash.ImageHash, bool) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	hash, err := goimagehash.DifferenceHash(img)
	if err != nil {
		return nil, false
	}
	return hash, true
}
