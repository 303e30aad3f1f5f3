// ABOUTME: Tunable weights for relationship strength, path confidence and intro success
// ABOUTME: Defaults are named constants; a policy file may override any field
package scoring

const (
	DefaultBaseWeight         = 0.4
	DefaultMutualDivisor      = 50.0
	DefaultMutualCap          = 0.3
	DefaultRecentDays         = 30
	DefaultRecentBonus        = 0.2
	DefaultWarmDays           = 90
	DefaultWarmBonus          = 0.1
	DefaultEndorsementStep    = 0.02
	DefaultEndorsementCap     = 0.1
	DefaultSharedCompanyBonus = 0.15
	DefaultSharedSchoolBonus  = 0.1
	DefaultSharedOtherBonus   = 0.05

	// DefaultColleagueOverlapMonths separates current colleagues from former ones.
	DefaultColleagueOverlapMonths = 12

	DefaultUnverifiedDiscount = 0.8
	DefaultHopDecay           = 0.85

	DefaultMutualLowThreshold  = 10
	DefaultMutualLowBonus      = 0.05
	DefaultMutualHighThreshold = 50
	DefaultMutualHighBonus     = 0.10
	DefaultRecencyNearBonus    = 0.10
	DefaultRecencyFarBonus     = 0.05

	DefaultStrongKindBonus = 0.05
	DefaultMediumKindBonus = 0.03

	DefaultDegreeRateFloor   = 0.05
	DefaultSuccessBonusScale = 0.5
	DefaultSuccessCeiling    = 0.85

	DefaultResponseBase      = 0.3
	DefaultResponseWeight    = 0.4
	DefaultResponseMin       = 0.05
	DefaultResponseMax       = 0.95
	DefaultStaleResponseDays = 365
)

// Policy holds every weight the scorer applies.
type Policy struct {
	BaseWeight         float64 `yaml:"base_weight"`
	MutualDivisor      float64 `yaml:"mutual_divisor"`
	MutualCap          float64 `yaml:"mutual_cap"`
	RecentDays         int     `yaml:"recent_days"`
	RecentBonus        float64 `yaml:"recent_bonus"`
	WarmDays           int     `yaml:"warm_days"`
	WarmBonus          float64 `yaml:"warm_bonus"`
	EndorsementStep    float64 `yaml:"endorsement_step"`
	EndorsementCap     float64 `yaml:"endorsement_cap"`
	SharedCompanyBonus float64 `yaml:"shared_company_bonus"`
	SharedSchoolBonus  float64 `yaml:"shared_school_bonus"`
	SharedOtherBonus   float64 `yaml:"shared_other_bonus"`

	ColleagueOverlapMonths int `yaml:"colleague_overlap_months"`

	UnverifiedDiscount float64 `yaml:"unverified_discount"`
	HopDecay           float64 `yaml:"hop_decay"`

	MutualLowThreshold  int     `yaml:"mutual_low_threshold"`
	MutualLowBonus      float64 `yaml:"mutual_low_bonus"`
	MutualHighThreshold int     `yaml:"mutual_high_threshold"`
	MutualHighBonus     float64 `yaml:"mutual_high_bonus"`
	RecencyNearBonus    float64 `yaml:"recency_near_bonus"`
	RecencyFarBonus     float64 `yaml:"recency_far_bonus"`

	StrongKindBonus float64 `yaml:"strong_kind_bonus"`
	MediumKindBonus float64 `yaml:"medium_kind_bonus"`

	// DegreeRates[i] is the base intro success rate at degree i+1.
	DegreeRates       []float64 `yaml:"degree_rates"`
	DegreeRateFloor   float64   `yaml:"degree_rate_floor"`
	SuccessBonusScale float64   `yaml:"success_bonus_scale"`
	SuccessCeiling    float64   `yaml:"success_ceiling"`

	ResponseBase      float64 `yaml:"response_base"`
	ResponseWeight    float64 `yaml:"response_weight"`
	ResponseMin       float64 `yaml:"response_min"`
	ResponseMax       float64 `yaml:"response_max"`
	StaleResponseDays int     `yaml:"stale_response_days"`
}

// DefaultPolicy returns the stock weights.
func DefaultPolicy() Policy {
	return Policy{
		BaseWeight:             DefaultBaseWeight,
		MutualDivisor:          DefaultMutualDivisor,
		MutualCap:              DefaultMutualCap,
		RecentDays:             DefaultRecentDays,
		RecentBonus:            DefaultRecentBonus,
		WarmDays:               DefaultWarmDays,
		WarmBonus:              DefaultWarmBonus,
		EndorsementStep:        DefaultEndorsementStep,
		EndorsementCap:         DefaultEndorsementCap,
		SharedCompanyBonus:     DefaultSharedCompanyBonus,
		SharedSchoolBonus:      DefaultSharedSchoolBonus,
		SharedOtherBonus:       DefaultSharedOtherBonus,
		ColleagueOverlapMonths: DefaultColleagueOverlapMonths,
		UnverifiedDiscount:     DefaultUnverifiedDiscount,
		HopDecay:               DefaultHopDecay,
		MutualLowThreshold:     DefaultMutualLowThreshold,
		MutualLowBonus:         DefaultMutualLowBonus,
		MutualHighThreshold:    DefaultMutualHighThreshold,
		MutualHighBonus:        DefaultMutualHighBonus,
		RecencyNearBonus:       DefaultRecencyNearBonus,
		RecencyFarBonus:        DefaultRecencyFarBonus,
		StrongKindBonus:        DefaultStrongKindBonus,
		MediumKindBonus:        DefaultMediumKindBonus,
		DegreeRates:            []float64{0.85, 0.70, 0.55, 0.40, 0.25, 0.15, 0.10},
		DegreeRateFloor:        DefaultDegreeRateFloor,
		SuccessBonusScale:      DefaultSuccessBonusScale,
		SuccessCeiling:         DefaultSuccessCeiling,
		ResponseBase:           DefaultResponseBase,
		ResponseWeight:         DefaultResponseWeight,
		ResponseMin:            DefaultResponseMin,
		ResponseMax:            DefaultResponseMax,
		StaleResponseDays:      DefaultStaleResponseDays,
	}
}
