package pipeline

import "math"

// Normalize normalizes a vector to unit length.
// Returns a new vector. If the input is a zero vector, returns a zero vector.
func Normalize(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	// Calculate magnitude
	var magnitude float32
	for _, val := range v {
		magnitude += val * val
	}
	magnitude = float32(math.Sqrt(float64(magnitude)))

	// Can't normalize zero vector
	if magnitude == 0 {
		result := make([]float32, len(v))
		return result
	}

	result := make([]float32, len(v))
	for i, val := range v {
		result[i] = val / magnitude
	}
	return result
}

// Round5 converts a vector to float64 coordinates rounded to 5 decimal
// digits, the precision carried on the output wire format.
func Round5(v []float32) []float64 {
	result := make([]float64, len(v))
	for i, val := range v {
		result[i] = math.Round(float64(val)*1e5) / 1e5
	}
	return result
}
