package bloomkit

import (
	"fmt"
	"math"

	"github.com/bloomkit/bloomkit/internal/util"
)

// Default construction parameters used by NewDefaultBloomFilter.
const (
	DefaultNumItems  uint    = 216553
	DefaultErrorRate float64 = 0.001
)

// CalculateFilterSize returns the optimal bitset size for a filter expected
// to hold _numItems_ items at false positive rate _errorRate_:
// ceil(-numItems * ln(errorRate) / ln(2)^2)
func CalculateFilterSize(numItems uint, errorRate float64) uint {
	return uint(math.Ceil(-((float64(numItems) * math.Log(errorRate)) / math.Pow(math.Log(2), 2))))
}

// CalculateNumHashes returns the optimal number of hash functions for a
// bitset of _size_ bits holding _numItems_ items:
// round(size / numItems * ln(2)), clamped to at least 1.
// Without the clamp a small size relative to numItems rounds to zero hash
// functions and every lookup matches.
func CalculateNumHashes(size, numItems uint) uint {
	numHashes := uint(math.Round(float64(size) / float64(numItems) * math.Log(2)))
	return util.Max(numHashes, 1)
}

// EstimateParameters validates _numItems_ and _errorRate_ and derives the
// bitset size and number of hash functions from them. It is pure: identical
// inputs always produce identical outputs, and increasing numItems or
// decreasing errorRate never shrinks the size.
func EstimateParameters(numItems uint, errorRate float64) (size, numHashes uint, err error) {
	if numItems == 0 {
		return 0, 0, fmt.Errorf("%w: numItems must be positive", ErrInvalidArgument)
	}
	if errorRate < 0 || errorRate > 1 {
		return 0, 0, fmt.Errorf("%w: errorRate %v outside [0, 1]", ErrInvalidArgument, errorRate)
	}
	if errorRate == 0 {
		return 0, 0, fmt.Errorf("%w: errorRate 0 needs an unbounded bitset", ErrDegenerateConfig)
	}
	size = util.Max(CalculateFilterSize(numItems, errorRate), 1)
	numHashes = CalculateNumHashes(size, numItems)
	return size, numHashes, nil
}
