// ABOUTME: Tests for batch urgency recalculation and priority bands
// ABOUTME: Checks collected per-account errors and concurrent result assembly
package urgency

import (
	"context"
	"fmt"
	"testing"

	"github.com/harperreed/sherpa/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchCollectsMissingIdentity(t *testing.T) {
	accounts := []models.Account{
		{ID: "a1", Alerts: []models.Alert{{Type: models.AlertFunding, Urgency: models.UrgencyCritical}}},
		{Name: "No Id"},
		{ID: "a3"},
	}

	res := BatchRecalculate(context.Background(), accounts, nil, now, BatchOptions{Concurrency: 2})

	assert.Len(t, res.Scores, 2)
	assert.Contains(t, res.Scores, "a1")
	assert.Contains(t, res.Scores, "a3")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 1, res.Errors[0].Index)
	assert.ErrorIs(t, res.Errors[0].Err, models.ErrMissingIdentity)
}

func TestBatchMatchesSingleScores(t *testing.T) {
	var accounts []models.Account
	for i := 0; i < 25; i++ {
		accounts = append(accounts, models.Account{
			ID:             fmt.Sprintf("acct-%02d", i),
			LastActivityAt: ptr(daysAgo(i * 4)),
		})
	}

	res := BatchRecalculate(context.Background(), accounts, nil, now, BatchOptions{})
	require.Len(t, res.Scores, len(accounts))
	assert.Empty(t, res.Errors)

	for i := range accounts {
		single, err := Score(&accounts[i], nil, now)
		require.NoError(t, err)
		assert.Equal(t, single, res.Scores[accounts[i].ID])
	}

	ranked := res.Ranked()
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Overall, ranked[i].Overall)
	}
}

func TestBatchCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := BatchRecalculate(ctx, []models.Account{{ID: "a"}, {ID: "b"}}, nil, now, BatchOptions{Concurrency: 1})
	assert.Empty(t, res.Scores)
	require.Len(t, res.Errors, 2)
	assert.ErrorIs(t, res.Errors[0].Err, context.Canceled)
	assert.Equal(t, "b", res.Errors[1].AccountID)
}

func TestPriorityLevel(t *testing.T) {
	assert.Equal(t, Priority{Level: "critical", Color: "red", Label: "HOT"}, PriorityLevel(92))
	assert.Equal(t, "medium", PriorityLevel(61).Level)
	assert.Equal(t, "DEVELOPING", PriorityLevel(61).Label)
	assert.Equal(t, "high", PriorityLevel(75).Level)
	assert.Equal(t, "low", PriorityLevel(40).Level)
	assert.Equal(t, "none", PriorityLevel(39).Level)
	assert.Equal(t, "COLD", PriorityLevel(0).Label)

	b := &Breakdown{Overall: 90}
	assert.Equal(t, "critical", b.Priority().Level)
}
