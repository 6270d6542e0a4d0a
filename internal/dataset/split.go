// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pdiddy/tunebench/pkg/types"
)

// proportionTolerance absorbs floating error when checking that the three
// split fractions sum to 1.0.
const proportionTolerance = 1e-9

// ValidateProportions checks that the train/validation/test fractions are
// each positive and sum to 1.0 within floating tolerance.
func ValidateProportions(p [3]float64) error {
	for i, v := range p {
		if v <= 0 {
			return fmt.Errorf("split proportion %d must be positive, got %g", i, v)
		}
	}
	if sum := p[0] + p[1] + p[2]; math.Abs(sum-1.0) > proportionTolerance {
		return fmt.Errorf("split proportions must sum to 1.0, got %g", sum)
	}
	return nil
}

// Split partitions ratings into three disjoint subsets by seeded random
// assignment. Split i receives floor(p[i]*n) records; any remainder from
// rounding goes to the last split, so the three sizes always sum to n and no
// record is duplicated or dropped.
func Split(ratings []types.Rating, p [3]float64, seed int64) [3][]types.Rating {
	n := len(ratings)

	perm := rand.New(rand.NewSource(seed)).Perm(n)

	n0 := int(math.Floor(p[0] * float64(n)))
	n1 := int(math.Floor(p[1] * float64(n)))

	var splits [3][]types.Rating
	for i, idx := range perm {
		switch {
		case i < n0:
			splits[0] = append(splits[0], ratings[idx])
		case i < n0+n1:
			splits[1] = append(splits[1], ratings[idx])
		default:
			splits[2] = append(splits[2], ratings[idx])
		}
	}
	return splits
}
