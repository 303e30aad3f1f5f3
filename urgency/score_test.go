// ABOUTME: Tests for the urgency scoring engine categories and overall formula
// ABOUTME: Includes the funding-only and recently-active account scenarios
package urgency

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/harperreed/sherpa/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// April 20 is more than 45 days from the quarter end and outside Q1.
var now = time.Date(2025, 4, 20, 12, 0, 0, 0, time.UTC)

var nonMatchingICP = &models.ICPProfile{
	TargetIndustries: []string{"Healthcare"},
	MinEmployees:     100,
	MaxEmployees:     500,
	MinRevenue:       1e6,
	MaxRevenue:       5e7,
	TargetTitles:     []string{"CIO"},
}

func daysAgo(n int) time.Time {
	return now.AddDate(0, 0, -n)
}

func ptr[T any](v T) *T {
	return &v
}

func factorNamed(t *testing.T, cat CategoryScore, name string) Factor {
	t.Helper()
	for _, f := range cat.Factors {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("factor %q not found in %+v", name, cat.Factors)
	return Factor{}
}

func TestScoreFundingOnlyAccount(t *testing.T) {
	account := &models.Account{
		ID:   "acct-1",
		Name: "Acme",
		Alerts: []models.Alert{
			{ID: "a1", Type: models.AlertFunding, Urgency: models.UrgencyCritical, CreatedAt: daysAgo(19)},
		},
	}

	b, err := Score(account, nonMatchingICP, now)
	require.NoError(t, err)

	assert.Equal(t, 25, b.Company.Score)
	assert.Equal(t, 0, b.Timing.Score)
	assert.Equal(t, 0, b.Relationship.Score)
	assert.Equal(t, 0, b.Engagement.Score)
	assert.Equal(t, 0, b.Fit.Score)
	assert.Equal(t, 0, b.Competitive.Score)
	assert.Equal(t, 5, b.Overall)
	assert.Equal(t, "Recent Funding", b.Factors[0].Name)
}

func TestScoreRecentlyActiveAccount(t *testing.T) {
	account := &models.Account{ID: "acct-2", LastActivityAt: ptr(daysAgo(5))}

	b, err := Score(account, nil, now)
	require.NoError(t, err)

	f := factorNamed(t, b.Engagement, "Active Engagement")
	assert.Equal(t, 30, f.Points)
	assert.Equal(t, 30, f.MaxPoints)
	assert.Equal(t, CategoryEngagement, f.Category)
}

func TestScoreMissingIdentity(t *testing.T) {
	_, err := Score(&models.Account{Name: "No Id"}, nil, now)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrMissingIdentity))

	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "id", verr.Field)

	_, err = Score(nil, nil, now)
	assert.Error(t, err)
}

func TestTimingQuarterEnd(t *testing.T) {
	account := &models.Account{ID: "a"}

	b, err := Score(account, nil, time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 20, factorNamed(t, b.Timing, "Quarter-End Proximity").Points)

	b, err = Score(account, nil, time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 12, factorNamed(t, b.Timing, "Approaching Quarter-End").Points)

	assert.Equal(t, 0, daysToQuarterEnd(time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, 30, daysToQuarterEnd(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestTimingFiscalYear(t *testing.T) {
	b, err := Score(&models.Account{ID: "a", FiscalYearEnd: "2025-06-30"}, nil, now)
	require.NoError(t, err)
	assert.Equal(t, 15, factorNamed(t, b.Timing, "Fiscal Year Budget Flush").Points)

	feb := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	b, err = Score(&models.Account{ID: "a", FiscalYearEnd: "12-31"}, nil, feb)
	require.NoError(t, err)
	assert.Equal(t, 12, factorNamed(t, b.Timing, "New Fiscal Year Planning").Points)
	assert.Equal(t, 15, factorNamed(t, b.Timing, "Q1 Planning Season").Points)

	_, ok := fiscalYearEndMonth("not-a-date")
	assert.False(t, ok)
	m, ok := fiscalYearEndMonth("09")
	assert.True(t, ok)
	assert.Equal(t, 9, m)
}

func TestTimingAlerts(t *testing.T) {
	account := &models.Account{
		ID: "a",
		Alerts: []models.Alert{
			{Type: models.AlertContract, Urgency: models.UrgencyHigh, CreatedAt: daysAgo(2)},
			{Type: models.AlertNews, Urgency: models.UrgencyLow, CreatedAt: daysAgo(3), Metadata: &models.AlertMetadata{Keywords: []string{"Budget"}}},
			{Type: models.AlertHiring, Urgency: models.UrgencyCritical, CreatedAt: daysAgo(1)},
			{Type: models.AlertFunding, Urgency: models.UrgencyCritical, CreatedAt: daysAgo(20)},
		},
	}
	b, err := Score(account, nil, now)
	require.NoError(t, err)

	assert.Equal(t, 20, factorNamed(t, b.Timing, "Contract Renewal Detected").Points)
	assert.Equal(t, 15, factorNamed(t, b.Timing, "Budget Cycle News").Points)
	assert.Equal(t, 10, factorNamed(t, b.Timing, "Recent High-Urgency Signals").Points)
	assert.Equal(t, 45, b.Timing.Score)
}

func TestCompanySignals(t *testing.T) {
	alerts := []models.Alert{
		{Type: models.AlertFunding, Urgency: models.UrgencyCritical, CreatedAt: daysAgo(40)},
		{Type: models.AlertFunding, Urgency: models.UrgencyHigh, CreatedAt: daysAgo(10)},
		{Type: models.AlertExecutiveChange},
		{Type: models.AlertHiring},
		{Type: models.AlertHiring},
		{Type: models.AlertHiring},
		{Type: models.AlertPartnership},
	}
	b, err := Score(&models.Account{ID: "a", Alerts: alerts}, nil, now)
	require.NoError(t, err)

	assert.Equal(t, 20, factorNamed(t, b.Company, "Recent Funding").Points)
	assert.Equal(t, 20, factorNamed(t, b.Company, "Executive Change").Points)
	assert.Equal(t, 15, factorNamed(t, b.Company, "Hiring Spree").Points)
	assert.Equal(t, 10, factorNamed(t, b.Company, "Partnership Activity").Points)
	assert.Equal(t, 65, b.Company.Score)

	b, err = Score(&models.Account{ID: "a", Alerts: []models.Alert{{Type: models.AlertHiring}}}, nil, now)
	require.NoError(t, err)
	assert.Equal(t, 8, factorNamed(t, b.Company, "Active Hiring").Points)
}

func TestRelationshipZeroContacts(t *testing.T) {
	b, err := Score(&models.Account{ID: "a"}, nil, now)
	require.NoError(t, err)

	assert.Equal(t, 0, b.Relationship.Score)
	require.Len(t, b.Relationship.Factors, 1)
	assert.Equal(t, "No Mapped Contacts", b.Relationship.Factors[0].Name)
}

func TestRelationshipFactors(t *testing.T) {
	account := &models.Account{
		ID: "a",
		Contacts: []models.Contact{
			{ID: "c1", Name: "Dana", SeparationDegree: ptr(3)},
			{ID: "c2", Name: "Eli", SeparationDegree: ptr(2), ConnectionStrength: ptr(0.5), Influence: models.Influence{Budget: 80, Urgency: 40}},
			{ID: "c3", Name: "Fay"},
		},
	}
	b, err := Score(account, nil, now)
	require.NoError(t, err)

	assert.Equal(t, 30, factorNamed(t, b.Relationship, "2nd Separation").Points)
	assert.Equal(t, 10, factorNamed(t, b.Relationship, "Connection Strength").Points)
	assert.Equal(t, 15, factorNamed(t, b.Relationship, "Decision Maker Access").Points)
	assert.Equal(t, 8, factorNamed(t, b.Relationship, "Multiple Contacts").Points)
	assert.Equal(t, 63, b.Relationship.Score)
}

func TestRelationshipFarSeparation(t *testing.T) {
	account := &models.Account{ID: "a", Contacts: []models.Contact{{ID: "c", SeparationDegree: ptr(6)}}}
	b, err := Score(account, nil, now)
	require.NoError(t, err)
	assert.Equal(t, 5, factorNamed(t, b.Relationship, "6th Separation").Points)
}

func TestEngagementFactors(t *testing.T) {
	account := &models.Account{
		ID: "a",
		Contacts: []models.Contact{
			{ID: "c1", LastResponseAt: ptr(daysAgo(3))},
			{ID: "c2", LastResponseAt: ptr(daysAgo(45))},
		},
		Activities: []models.Activity{
			{Type: "meeting", CreatedAt: daysAgo(40)},
			{Type: "phone_call", CreatedAt: daysAgo(20)},
			{Type: "meeting", CreatedAt: daysAgo(70)},
			{Type: "email", CreatedAt: daysAgo(50), Outcome: models.OutcomeReplied},
			{Type: "email", CreatedAt: daysAgo(60), Outcome: models.OutcomeNone},
		},
	}
	b, err := Score(account, nil, now)
	require.NoError(t, err)

	assert.Equal(t, 20, factorNamed(t, b.Engagement, "Recent Engagement").Points)
	assert.Equal(t, 10, factorNamed(t, b.Engagement, "Contact Responsiveness").Points)
	assert.Equal(t, 16, factorNamed(t, b.Engagement, "Meeting Activity").Points)
	assert.Equal(t, 10, factorNamed(t, b.Engagement, "Email Engagement").Points)
	assert.Equal(t, 56, b.Engagement.Score)
}

func TestEngagementStale(t *testing.T) {
	b, err := Score(&models.Account{ID: "a", LastActivityAt: ptr(daysAgo(200))}, nil, now)
	require.NoError(t, err)
	assert.Equal(t, 0, factorNamed(t, b.Engagement, "Stale Account").Points)
	assert.Equal(t, 0, b.Engagement.Score)
}

func TestFitFactors(t *testing.T) {
	b, err := Score(&models.Account{ID: "a"}, nil, now)
	require.NoError(t, err)
	assert.Equal(t, 50, b.Fit.Score)
	assert.Equal(t, "No ICP Defined", b.Fit.Factors[0].Name)

	icp := &models.ICPProfile{
		TargetIndustries: []string{"software"},
		MinEmployees:     100,
		MaxEmployees:     500,
		MinRevenue:       1e6,
		MaxRevenue:       1e8,
		TargetTitles:     []string{"VP"},
	}
	account := &models.Account{
		ID:            "a",
		Industry:      "Enterprise Software",
		EmployeeCount: 600,
		AnnualRevenue: 2e7,
		Contacts:      []models.Contact{{ID: "c", Title: "VP Engineering"}},
	}
	b, err = Score(account, icp, now)
	require.NoError(t, err)
	assert.Equal(t, 30, factorNamed(t, b.Fit, "Industry Match").Points)
	assert.Equal(t, 24, factorNamed(t, b.Fit, "Near Size Match").Points)
	assert.Equal(t, 25, factorNamed(t, b.Fit, "Revenue Match").Points)
	assert.Equal(t, 15, factorNamed(t, b.Fit, "Decision Maker Present").Points)
	assert.Equal(t, 94, b.Fit.Score)
}

func TestFitDecisionMakerByInfluence(t *testing.T) {
	icp := &models.ICPProfile{MaxEmployees: 10}
	account := &models.Account{ID: "a", Contacts: []models.Contact{{ID: "c", Influence: models.Influence{Technical: 65}}}}
	b, err := Score(account, icp, now)
	require.NoError(t, err)
	assert.Equal(t, 15, b.Fit.Score)
}

func TestCompetitiveSignals(t *testing.T) {
	account := &models.Account{
		ID: "a",
		Alerts: []models.Alert{
			{Type: models.AlertCompetitorMention, Urgency: models.UrgencyHigh},
			{Type: models.AlertTechnologyAdoption, Metadata: &models.AlertMetadata{IsCompetitor: true}},
			{Type: models.AlertNews, Metadata: &models.AlertMetadata{Keywords: []string{"RFP"}}},
			{Type: models.AlertNews, Metadata: &models.AlertMetadata{Keywords: []string{"Switching"}}},
		},
	}
	b, err := Score(account, nil, now)
	require.NoError(t, err)
	assert.Equal(t, 30, factorNamed(t, b.Competitive, "Competitive Activity").Points)
	assert.Equal(t, 25, factorNamed(t, b.Competitive, "Using Competitor Solution").Points)
	assert.Equal(t, 25, factorNamed(t, b.Competitive, "Active Evaluation").Points)
	assert.Equal(t, 20, factorNamed(t, b.Competitive, "Dissatisfaction Signals").Points)
	assert.Equal(t, 100, b.Competitive.Score)
}

func TestCategoryCapsAtMax(t *testing.T) {
	cat := newCategory(CategoryTiming)
	cat.add("one", 70, 70, "")
	cat.add("two", 50, 50, "")
	res := cat.result()
	assert.Equal(t, 100, res.Score)
	assert.Equal(t, 100, res.MaxScore)
	assert.Len(t, res.Factors, 2)
}

func TestFactorsSortedByPoints(t *testing.T) {
	account := &models.Account{
		ID:             "a",
		LastActivityAt: ptr(daysAgo(1)),
		Alerts: []models.Alert{
			{Type: models.AlertFunding, Urgency: models.UrgencyCritical, CreatedAt: daysAgo(2)},
			{Type: models.AlertPartnership, CreatedAt: daysAgo(2)},
		},
	}
	b, err := Score(account, nil, now)
	require.NoError(t, err)
	require.NotEmpty(t, b.Factors)
	for i := 1; i < len(b.Factors); i++ {
		assert.GreaterOrEqual(t, b.Factors[i-1].Points, b.Factors[i].Points)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	account := randomAccount(rand.New(rand.NewSource(7)))
	first, err := Score(&account, nonMatchingICP, now)
	require.NoError(t, err)
	second, err := Score(&account, nonMatchingICP, now)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestOverallMatchesWeightedFormula(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		account := randomAccount(rng)
		b, err := Score(&account, nonMatchingICP, now)
		require.NoError(t, err)

		weighted := WeightTiming*float64(b.Timing.Score) +
			WeightCompany*float64(b.Company.Score) +
			WeightRelationship*float64(b.Relationship.Score) +
			WeightEngagement*float64(b.Engagement.Score) +
			WeightFit*float64(b.Fit.Score) +
			WeightCompetitive*float64(b.Competitive.Score)
		assert.Equal(t, int(math.Round(weighted)), b.Overall)
		assert.GreaterOrEqual(t, b.Overall, 0)
		assert.LessOrEqual(t, b.Overall, 100)
		for _, cat := range []CategoryScore{b.Timing, b.Company, b.Relationship, b.Engagement, b.Fit, b.Competitive} {
			assert.GreaterOrEqual(t, cat.Score, 0)
			assert.LessOrEqual(t, cat.Score, 100)
		}
	}
}

func TestPolicyOverride(t *testing.T) {
	policy := DefaultPolicy()
	policy.Company.FundingCriticalPoints = 40
	engine := NewWithPolicy(policy)

	account := &models.Account{ID: "a", Alerts: []models.Alert{{Type: models.AlertFunding, Urgency: models.UrgencyCritical}}}
	b, err := engine.Score(account, nil, now)
	require.NoError(t, err)
	assert.Equal(t, 40, b.Company.Score)
}

var alertTypes = []string{
	models.AlertFunding, models.AlertHiring, models.AlertExecutiveChange, models.AlertExpansion,
	models.AlertContract, models.AlertPartnership, models.AlertCompetitorMention,
	models.AlertTechnologyAdoption, models.AlertNews,
}

var urgencies = []string{models.UrgencyCritical, models.UrgencyHigh, models.UrgencyMedium, models.UrgencyLow}

func randomAccount(rng *rand.Rand) models.Account {
	account := models.Account{ID: "acct", Industry: "Software", EmployeeCount: rng.Intn(2000)}
	if rng.Intn(2) == 0 {
		account.LastActivityAt = ptr(daysAgo(rng.Intn(120)))
	}
	for n := rng.Intn(8); n > 0; n-- {
		account.Alerts = append(account.Alerts, models.Alert{
			Type:      alertTypes[rng.Intn(len(alertTypes))],
			Urgency:   urgencies[rng.Intn(len(urgencies))],
			CreatedAt: daysAgo(rng.Intn(60)),
			Metadata:  &models.AlertMetadata{IsCompetitor: rng.Intn(3) == 0, Keywords: []string{"budget"}},
		})
	}
	for n := rng.Intn(5); n > 0; n-- {
		account.Contacts = append(account.Contacts, models.Contact{
			ID:                 "c",
			SeparationDegree:   ptr(1 + rng.Intn(6)),
			ConnectionStrength: ptr(rng.Float64()),
			Influence:          models.Influence{Budget: rng.Intn(101), Urgency: rng.Intn(101), Technical: rng.Intn(101)},
		})
	}
	return account
}
