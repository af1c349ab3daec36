package scoring

import (
	"strings"

	"github.com/Dosada05/livescore/models"
	"github.com/microcosm-cc/bluemonday"
)

// ShotPoints is the value of a basketball shot. Only made shots score.
func ShotPoints(t models.ShotType, r models.ShotResult) int {
	if r != models.ShotMade {
		return 0
	}
	switch t {
	case models.ShotThree:
		return 3
	case models.ShotTwo:
		return 2
	case models.ShotFreeThrow:
		return 1
	}
	return 0
}

const maxTextLength = 64

var textPolicy = bluemonday.StrictPolicy()

// SanitizeText strips markup from operator supplied labels (foul type, stoppage reason)
// before they are stored and pushed to every viewer.
func SanitizeText(s string) string {
	clean := strings.TrimSpace(textPolicy.Sanitize(s))
	if len([]rune(clean)) > maxTextLength {
		clean = string([]rune(clean)[:maxTextLength])
	}
	return clean
}
