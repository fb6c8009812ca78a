package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentalhub/marketplace-backend/internal/models"
)

func TestCommissionRepository_TotalsByAgent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommissionRepository(db)

	totals, err := repo.TotalsByAgent(ctx(), "agent-1")
	require.NoError(t, err)
	assert.Equal(t, CommissionTotals{}, *totals)

	for _, c := range []*models.Commission{
		{AgentID: "agent-1", BookingID: "b1", Amount: 10, Status: models.CommissionStatusPaid},
		{AgentID: "agent-1", BookingID: "b2", Amount: 15.5, Status: models.CommissionStatusPaid},
		{AgentID: "agent-1", BookingID: "b3", Amount: 7, Status: models.CommissionStatusApproved},
		{AgentID: "agent-1", BookingID: "b4", Amount: 3, Status: models.CommissionStatusPending},
		{AgentID: "agent-1", BookingID: "b5", Amount: 99, Status: models.CommissionStatusCancelled},
		{AgentID: "agent-2", BookingID: "b6", Amount: 50, Status: models.CommissionStatusPaid},
	} {
		require.NoError(t, repo.Create(ctx(), c))
	}

	totals, err = repo.TotalsByAgent(ctx(), "agent-1")
	require.NoError(t, err)
	assert.InDelta(t, 25.5, totals.Paid, 0.001)
	assert.InDelta(t, 7, totals.Approved, 0.001)
	assert.InDelta(t, 3, totals.Pending, 0.001)
}

func TestCommissionRepository_ListAndUpdate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommissionRepository(db)

	older := &models.Commission{AgentID: "a", BookingID: "b1", Amount: 1, Status: models.CommissionStatusPending,
		CreatedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, repo.Create(ctx(), older))
	newer := &models.Commission{AgentID: "a", BookingID: "b2", Amount: 2, Status: models.CommissionStatusPending}
	require.NoError(t, repo.Create(ctx(), newer))

	list, err := repo.ListByAgent(ctx(), "a")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)

	now := time.Now()
	rows, err := repo.UpdateStatus(ctx(), older.ID, models.CommissionStatusPaid, &now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	got, err := repo.GetByID(ctx(), older.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CommissionStatusPaid, got.Status)
	assert.NotNil(t, got.PaidAt)

	_, err = repo.UpdateStatus(ctx(), older.ID, models.CommissionStatusCancelled, nil)
	require.NoError(t, err)
	got, err = repo.GetByID(ctx(), older.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PaidAt)

	list, err = repo.List(ctx(), "pending")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, newer.ID, list[0].ID)
}
