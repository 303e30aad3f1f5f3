// ABOUTME: Maps an overall urgency score to a named priority band
// ABOUTME: Bands drive dashboard colours and ranking labels
package urgency

type Priority struct {
	Level string `json:"level"`
	Color string `json:"color"`
	Label string `json:"label"`
}

func PriorityLevel(score int) Priority {
	switch {
	case score >= 90:
		return Priority{Level: "critical", Color: "red", Label: "HOT"}
	case score >= 75:
		return Priority{Level: "high", Color: "orange", Label: "WARM"}
	case score >= 60:
		return Priority{Level: "medium", Color: "yellow", Label: "DEVELOPING"}
	case score >= 40:
		return Priority{Level: "low", Color: "green", Label: "NURTURE"}
	default:
		return Priority{Level: "none", Color: "gray", Label: "COLD"}
	}
}

// Priority returns the band of the breakdown's overall score.
func (b *Breakdown) Priority() Priority {
	return PriorityLevel(b.Overall)
}
