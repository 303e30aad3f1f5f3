// ABOUTME: Point values and thresholds for the urgency categories
// ABOUTME: Category weights are fixed; everything in Policy may be overridden from a policy file
package urgency

// Category weights. They sum to 1 and are not configurable.
const (
	WeightTiming       = 0.25
	WeightCompany      = 0.20
	WeightRelationship = 0.20
	WeightEngagement   = 0.15
	WeightFit          = 0.10
	WeightCompetitive  = 0.10
)

// MaxCategoryScore caps every category sub-score.
const MaxCategoryScore = 100

type TimingPolicy struct {
	QuarterEndDays        int `yaml:"quarter_end_days"`
	QuarterEndPoints      int `yaml:"quarter_end_points"`
	ApproachingDays       int `yaml:"approaching_days"`
	ApproachingPoints     int `yaml:"approaching_points"`
	BudgetFlushMonths     int `yaml:"budget_flush_months"`
	BudgetFlushPoints     int `yaml:"budget_flush_points"`
	PlanningMonths        int `yaml:"planning_months"`
	PlanningPoints        int `yaml:"planning_points"`
	Q1Points              int `yaml:"q1_points"`
	ContractPoints        int `yaml:"contract_points"`
	BudgetNewsPoints      int `yaml:"budget_news_points"`
	RecentSignalDays      int `yaml:"recent_signal_days"`
	RecentSignalStep      int `yaml:"recent_signal_step"`
	RecentSignalMaxPoints int `yaml:"recent_signal_max_points"`
}

type CompanyPolicy struct {
	FundingCriticalPoints int `yaml:"funding_critical_points"`
	FundingHighPoints     int `yaml:"funding_high_points"`
	FundingPoints         int `yaml:"funding_points"`
	ExecutivePoints       int `yaml:"executive_points"`
	HiringSpreeCount      int `yaml:"hiring_spree_count"`
	HiringSpreePoints     int `yaml:"hiring_spree_points"`
	HiringPoints          int `yaml:"hiring_points"`
	ExpansionPoints       int `yaml:"expansion_points"`
	TechnologyPoints      int `yaml:"technology_points"`
	PartnershipPoints     int `yaml:"partnership_points"`
}

type RelationshipPolicy struct {
	// DegreePoints[i] is awarded for a best separation of i+1; the last
	// entry covers every further degree.
	DegreePoints           []int   `yaml:"degree_points"`
	StrengthScale          float64 `yaml:"strength_scale"`
	DecisionMakerThreshold int     `yaml:"decision_maker_threshold"`
	DecisionMakerDivisor   float64 `yaml:"decision_maker_divisor"`
	EntryPointMaxDegree    int     `yaml:"entry_point_max_degree"`
	ManyEntryPoints        int     `yaml:"many_entry_points"`
	ManyEntryPointsPoints  int     `yaml:"many_entry_points_points"`
	FewEntryPoints         int     `yaml:"few_entry_points"`
	FewEntryPointsPoints   int     `yaml:"few_entry_points_points"`
}

type EngagementPolicy struct {
	ActiveDays        int     `yaml:"active_days"`
	ActivePoints      int     `yaml:"active_points"`
	RecentDays        int     `yaml:"recent_days"`
	RecentPoints      int     `yaml:"recent_points"`
	ModerateDays      int     `yaml:"moderate_days"`
	ModeratePoints    int     `yaml:"moderate_points"`
	ResponseDays      int     `yaml:"response_days"`
	ResponseStep      int     `yaml:"response_step"`
	ResponseMaxPoints int     `yaml:"response_max_points"`
	MeetingDays       int     `yaml:"meeting_days"`
	MeetingStep       int     `yaml:"meeting_step"`
	MeetingMaxPoints  int     `yaml:"meeting_max_points"`
	EmailScale        float64 `yaml:"email_scale"`
}

type FitPolicy struct {
	NoICPPoints            int `yaml:"no_icp_points"`
	IndustryPoints         int `yaml:"industry_points"`
	SizePoints             int `yaml:"size_points"`
	RevenuePoints          int `yaml:"revenue_points"`
	DecisionMakerPoints    int `yaml:"decision_maker_points"`
	DecisionMakerInfluence int `yaml:"decision_maker_influence"`
}

type CompetitivePolicy struct {
	UrgentCompetitorPoints int `yaml:"urgent_competitor_points"`
	CompetitorPoints       int `yaml:"competitor_points"`
	DisplacementPoints     int `yaml:"displacement_points"`
	EvaluationPoints       int `yaml:"evaluation_points"`
	DissatisfactionPoints  int `yaml:"dissatisfaction_points"`
}

// Policy holds the point values of every urgency factor.
type Policy struct {
	Timing       TimingPolicy       `yaml:"timing"`
	Company      CompanyPolicy      `yaml:"company"`
	Relationship RelationshipPolicy `yaml:"relationship"`
	Engagement   EngagementPolicy   `yaml:"engagement"`
	Fit          FitPolicy          `yaml:"fit"`
	Competitive  CompetitivePolicy  `yaml:"competitive"`
}

func DefaultPolicy() Policy {
	return Policy{
		Timing: TimingPolicy{
			QuarterEndDays:        21,
			QuarterEndPoints:      20,
			ApproachingDays:       45,
			ApproachingPoints:     12,
			BudgetFlushMonths:     2,
			BudgetFlushPoints:     15,
			PlanningMonths:        10,
			PlanningPoints:        12,
			Q1Points:              15,
			ContractPoints:        20,
			BudgetNewsPoints:      15,
			RecentSignalDays:      14,
			RecentSignalStep:      5,
			RecentSignalMaxPoints: 15,
		},
		Company: CompanyPolicy{
			FundingCriticalPoints: 25,
			FundingHighPoints:     20,
			FundingPoints:         15,
			ExecutivePoints:       20,
			HiringSpreeCount:      3,
			HiringSpreePoints:     15,
			HiringPoints:          8,
			ExpansionPoints:       15,
			TechnologyPoints:      15,
			PartnershipPoints:     10,
		},
		Relationship: RelationshipPolicy{
			DegreePoints:           []int{40, 30, 20, 10, 5},
			StrengthScale:          20,
			DecisionMakerThreshold: 70,
			DecisionMakerDivisor:   8,
			EntryPointMaxDegree:    4,
			ManyEntryPoints:        3,
			ManyEntryPointsPoints:  15,
			FewEntryPoints:         2,
			FewEntryPointsPoints:   8,
		},
		Engagement: EngagementPolicy{
			ActiveDays:        7,
			ActivePoints:      30,
			RecentDays:        30,
			RecentPoints:      20,
			ModerateDays:      90,
			ModeratePoints:    10,
			ResponseDays:      30,
			ResponseStep:      10,
			ResponseMaxPoints: 25,
			MeetingDays:       60,
			MeetingStep:       8,
			MeetingMaxPoints:  25,
			EmailScale:        20,
		},
		Fit: FitPolicy{
			NoICPPoints:            50,
			IndustryPoints:         30,
			SizePoints:             30,
			RevenuePoints:          25,
			DecisionMakerPoints:    15,
			DecisionMakerInfluence: 60,
		},
		Competitive: CompetitivePolicy{
			UrgentCompetitorPoints: 30,
			CompetitorPoints:       20,
			DisplacementPoints:     25,
			EvaluationPoints:       25,
			DissatisfactionPoints:  20,
		},
	}
}
