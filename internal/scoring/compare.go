package scoring

import "fmt"

// Direction states which way a comparison key improves.
type Direction int

const (
	HigherIsBetter Direction = iota
	LowerIsBetter
)

// CompareKeyRent orders by rent, the one key where lower wins.
const CompareKeyRent = "rent"

// CompareKeyOverall orders by the overall aggregate.
const CompareKeyOverall = "overall"

// KeyDirection returns the improvement direction for a comparison key: rent
// ascends, every category and the overall descend. Unknown keys are an error.
func KeyDirection(key string) (Direction, error) {
	if key == CompareKeyRent {
		return LowerIsBetter, nil
	}
	if key == CompareKeyOverall {
		return HigherIsBetter, nil
	}
	for _, c := range AllCategories() {
		if key == string(c) {
			return HigherIsBetter, nil
		}
	}
	return 0, fmt.Errorf("unknown comparison key %q", key)
}

// KeyValue extracts the comparable value for key from a score vector and the
// record's rent.
func KeyValue(key string, v Vector, rent int) (float64, error) {
	if key == CompareKeyRent {
		return float64(rent), nil
	}
	if key == CompareKeyOverall {
		return float64(v.Overall), nil
	}
	for _, c := range AllCategories() {
		if key == string(c) {
			return float64(v.ByCategory(c)), nil
		}
	}
	return 0, fmt.Errorf("unknown comparison key %q", key)
}

// Better reports whether a beats b under the given direction. Equal values are
// not better; ties are handled by BestIndices.
func Better(d Direction, a, b float64) bool {
	if d == LowerIsBetter {
		return a < b
	}
	return a > b
}

// BestIndices returns the indices holding the best value, ties included by
// exact equality. An empty input yields an empty result.
func BestIndices(values []float64, d Direction) []int {
	if len(values) == 0 {
		return nil
	}
	best := values[0]
	for _, v := range values[1:] {
		if Better(d, v, best) {
			best = v
		}
	}
	var idx []int
	for i, v := range values {
		if v == best {
			idx = append(idx, i)
		}
	}
	return idx
}
