// ABOUTME: Tunable weights for warm-introduction matching
// ABOUTME: Defaults reproduce the standard scoring; a policy file may override them
package warmintro

type Policy struct {
	DirectScore       float64            `yaml:"direct_score"`
	IndustryScore     float64            `yaml:"industry_score"`
	RelatedScore      float64            `yaml:"related_industry_score"`
	CityScore         float64            `yaml:"city_score"`
	StateScore        float64            `yaml:"state_score"`
	StrengthBonus     map[string]float64 `yaml:"strength_bonus"`
	RecentMonths      int                `yaml:"recent_months"`
	RecentBonus       float64            `yaml:"recent_bonus"`
	MutualThreshold   int                `yaml:"mutual_threshold"`
	MutualBonus       float64            `yaml:"mutual_bonus"`
	MinScore          float64            `yaml:"min_score"`
	DefaultUrgency    int                `yaml:"default_urgency"`
	ConfidenceWeight  float64            `yaml:"confidence_weight"`
	UrgencyWeight     float64            `yaml:"urgency_weight"`
	BaseSuccessRate   float64            `yaml:"base_success_rate"`
	SuccessMultiplier map[string]float64 `yaml:"success_multiplier"`
	RecentMultiplier  float64            `yaml:"recent_multiplier"`
	MaxSuccessPercent int                `yaml:"max_success_percent"`
}

func DefaultPolicy() Policy {
	return Policy{
		DirectScore:   0.95,
		IndustryScore: 0.4,
		RelatedScore:  0.25,
		CityScore:     0.2,
		StateScore:    0.1,
		StrengthBonus: map[string]float64{
			"strong": 0.3,
			"warm":   0.2,
			"medium": 0.1,
			"weak":   0.05,
		},
		RecentMonths:     6,
		RecentBonus:      0.15,
		MutualThreshold:  10,
		MutualBonus:      0.1,
		MinScore:         0.3,
		DefaultUrgency:   65,
		ConfidenceWeight: 0.6,
		UrgencyWeight:    0.4,
		BaseSuccessRate:  0.3,
		SuccessMultiplier: map[string]float64{
			"strong": 2.0,
			"warm":   1.5,
			"medium": 1.2,
			"weak":   1.0,
		},
		RecentMultiplier:  1.3,
		MaxSuccessPercent: 85,
	}
}
