package forecasting

import (
	"fmt"
	"math"
)

// TemporalTrainTestSplit keeps order and puts the last testSize points in test.
func TemporalTrainTestSplit(y []float64, testSize int) ([]float64, []float64, error) {
	if testSize < 1 {
		return nil, nil, fmt.Errorf("%w: test size %d", ErrInvalidHorizon, testSize)
	}
	if testSize >= len(y) {
		return nil, nil, fmt.Errorf("%w: test size %d leaves no training data from %d points", ErrInsufficientData, testSize, len(y))
	}
	cut := len(y) - testSize
	return append([]float64(nil), y[:cut]...), append([]float64(nil), y[cut:]...), nil
}

// SymmetricMAPE is mean(2|a-p| / (|a|+|p|)), bounded in [0, 2]. The
// denominator is floored at machine epsilon so two zeros score 0.
func SymmetricMAPE(actual, pred []float64) (float64, error) {
	if len(actual) != len(pred) {
		return 0, fmt.Errorf("smape: %d actual vs %d predicted values", len(actual), len(pred))
	}
	if len(actual) == 0 {
		return 0, fmt.Errorf("smape: no values")
	}
	eps := math.Nextafter(1, 2) - 1
	sum := 0.0
	for i := range actual {
		den := math.Max(math.Abs(actual[i])+math.Abs(pred[i]), eps)
		sum += 2 * math.Abs(actual[i]-pred[i]) / den
	}
	return sum / float64(len(actual)), nil
}
