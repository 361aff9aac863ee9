package calculator

import "github.com/giorgikontridze/health-intel-dash/internal/models"

// Classify labels a distance against a radius. The threshold is inclusive:
// a point exactly at the radius is Covered.
func Classify(distance, radius float64) models.Status {
	if distance <= radius {
		return models.StatusCovered
	}
	return models.StatusGap
}
