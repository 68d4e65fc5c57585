package quiz

const (
	BaseScore = 50
	MinScore  = 10
	MaxScore  = 90
)

// scoreDeltas holds the point adjustment for each question/option pair.
// Options not listed contribute nothing.
var scoreDeltas = map[string]map[string]int{
	"diet":        {"whole": 15, "plant": 15, "mixed": 5, "processed": -10},
	"sugar":       {"rarely": 10, "daily-multiple": -15},
	"fiber":       {"multiple": 15, "rarely": -10},
	"fermented":   {"daily": 10},
	"bloating":    {"rarely": 10, "daily": -15},
	"stress":      {"minimal": 5, "high": -10},
	"sleep":       {"7-plus": 10, "less-5": -10},
	"antibiotics": {"multiple": -15},
}

// ComputeScore maps answers to a microbiome score clamped to [MinScore, MaxScore].
func ComputeScore(answers Answers) int {
	score := BaseScore
	for question, deltas := range scoreDeltas {
		score += deltas[answers[question]]
	}
	return max(MinScore, min(MaxScore, score))
}

// LabelKey returns the catalogue key of the qualitative score label.
func LabelKey(score int) string {
	switch {
	case score >= 70:
		return "results.score.good"
	case score >= 50:
		return "results.score.moderate"
	default:
		return "results.score.needsAttention"
	}
}

// Label is the English label for a score.
func Label(score int) string {
	switch LabelKey(score) {
	case "results.score.good":
		return "Good"
	case "results.score.moderate":
		return "Moderate"
	default:
		return "Needs Attention"
	}
}
