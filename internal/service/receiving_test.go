package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"temp_compliance/internal/compliance"
	"temp_compliance/internal/models"
)

func temp(v float64) *float64 { return &v }

func TestFinalizeLog_WithDeviation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	log, err := env.svc.FinalizeLog(ctx, FinalizeParams{
		VendorName: " Sysco ",
		ReceivedBy: "lee",
		Items: []ItemInput{
			{Description: "Milk", Category: "refrigerated_dairy", Temperature: temp(38)},
			{Description: "Chicken", Category: "Refrigerated_Poultry", Temperature: temp(45),
				Deviation: &models.CcpDeviation{ActionTaken: models.ActionRejectedDelivery, Notes: "sent back with driver"}},
			{Description: "Flour", Category: "dry_goods"},
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, log.ID)
	assert.Equal(t, "Sysco", log.VendorName)
	assert.True(t, log.ReceivedAt.Equal(t0))
	assert.Equal(t, models.ReceivingSummary{Total: 3, Passed: 2, Failed: 1}, log.Summary)
	assert.Equal(t, "refrigerated_poultry", log.Items[1].Category)
	require.Len(t, env.receiving.logs, 1)

	devs := env.events.ofType(models.EventReceivingDeviation)
	require.Len(t, devs, 1)
	assert.Equal(t, log.ID, devs[0].Subject)
	assert.Contains(t, devs[0].Description, "Chicken")

	fin := env.events.ofType(models.EventReceivingFinalized)
	require.Len(t, fin, 1)
	assert.Equal(t, "3 items from Sysco - 1 item(s) failed", fin[0].Description)
}

func TestFinalizeLog_Rejections(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.svc.FinalizeLog(ctx, FinalizeParams{VendorName: "Sysco", Items: []ItemInput{
		{Description: "Chicken", Category: "refrigerated_poultry", Temperature: temp(45)},
	}})
	assert.ErrorIs(t, err, compliance.ErrDeviationRequired)

	_, err = env.svc.FinalizeLog(ctx, FinalizeParams{VendorName: "Sysco", Items: []ItemInput{
		{Description: "Caviar", Category: "luxury", Temperature: temp(30)},
	}})
	assert.ErrorIs(t, err, compliance.ErrUnknownCategory)
	assert.Contains(t, err.Error(), "item 1 (Caviar)")

	_, err = env.svc.FinalizeLog(ctx, FinalizeParams{VendorName: "Sysco"})
	assert.ErrorIs(t, err, compliance.ErrEmptyReceivingBatch)

	_, err = env.svc.FinalizeLog(ctx, FinalizeParams{VendorName: " ", Items: []ItemInput{{Description: "Flour", Category: "dry_goods"}}})
	assert.True(t, IsInvalidInput(err))

	assert.Empty(t, env.receiving.logs)
	assert.Empty(t, env.events.events)
}

func TestEvaluateItem(t *testing.T) {
	env := newTestEnv()

	item, err := env.svc.EvaluateItem(ItemInput{Description: "Ice cream", Category: "frozen", Temperature: temp(-2)})
	require.NoError(t, err)
	assert.True(t, item.Pass)

	_, err = env.svc.EvaluateItem(ItemInput{Description: "Ice cream", Category: "frozen", Temperature: temp(-2),
		Deviation: &models.CcpDeviation{ActionTaken: models.ActionOther, Notes: "n/a"}})
	assert.ErrorIs(t, err, compliance.ErrDeviationNotAllowed)

	_, err = env.svc.EvaluateItem(ItemInput{Description: "Milk", Category: "refrigerated_dairy"})
	assert.ErrorIs(t, err, compliance.ErrTemperatureRequired)

	assert.Contains(t, env.svc.Categories(), "shell_eggs")
}

func TestListLogs(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.svc.FinalizeLog(ctx, FinalizeParams{VendorName: "Sysco", Items: []ItemInput{{Description: "Flour", Category: "dry_goods"}}})
	require.NoError(t, err)

	logs, err := env.svc.ListLogs(ctx, LogFilter{From: t0.Add(-time.Hour)})
	require.NoError(t, err)
	require.Len(t, logs, 1)

	got, err := env.svc.GetLog(ctx, logs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Sysco", got.VendorName)

	_, err = env.svc.ListLogs(ctx, LogFilter{From: t0, To: t0.Add(-time.Minute)})
	assert.True(t, IsInvalidInput(err))
}
