package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"temp_compliance/internal/models"
)

func eventTypes(events []models.ComplianceEvent) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Type)
	}
	return out
}

func TestEventLog_CooldownFeedIsScopedBySubject(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	mon := monitorOf(env)

	soup, err := env.svc.StartCooldown(ctx, StartParams{ItemName: "Soup", StartTemp: 160})
	require.NoError(t, err)
	rice, err := env.svc.StartCooldown(ctx, StartParams{ItemName: "Rice", StartTemp: 150})
	require.NoError(t, err)
	_, err = env.svc.LogCheck(ctx, soup.ID, 120, t0.Add(30*time.Minute))
	require.NoError(t, err)
	mon.sweep(ctx, t0.Add(95*time.Minute))

	feed, err := env.svc.EventLog.List(ctx, LogFilter{Subject: " " + soup.ID + " "})
	require.NoError(t, err)
	assert.Equal(t, []string{models.EventCooldownStarted, models.EventCooldownCheck, models.EventCoolingWarning}, eventTypes(feed))
	for _, e := range feed {
		assert.Equal(t, soup.ID, e.Subject)
	}

	warnings, err := env.svc.EventLog.List(ctx, LogFilter{Type: " cooling_warning "})
	require.NoError(t, err)
	require.Len(t, warnings, 2)
	assert.ElementsMatch(t, []string{soup.ID, rice.ID}, []string{warnings[0].Subject, warnings[1].Subject})

	both, err := env.svc.EventLog.List(ctx, LogFilter{Type: "cooling_warning", Subject: rice.ID})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, rice.ID, both[0].Subject)
}

func TestEventLog_ReceivingFeedMixesDeviationAndSummary(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	log, err := env.svc.FinalizeLog(ctx, FinalizeParams{
		VendorName: "Sysco",
		ReceivedBy: "lee",
		Items: []ItemInput{
			{Description: "Milk", Category: "refrigerated_dairy", Temperature: temp(38)},
			{Description: "Chicken", Category: "refrigerated_poultry", Temperature: temp(47),
				Deviation: &models.CcpDeviation{ActionTaken: models.ActionRejectedDelivery}},
		},
	})
	require.NoError(t, err)
	_, err = env.svc.StartCooldown(ctx, StartParams{ItemName: "Stock", StartTemp: 170})
	require.NoError(t, err)

	feed, err := env.svc.EventLog.List(ctx, LogFilter{Subject: log.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{models.EventReceivingDeviation, models.EventReceivingFinalized}, eventTypes(feed))
	assert.Contains(t, feed[0].Description, "Chicken")

	deviations, err := env.svc.EventLog.List(ctx, LogFilter{Type: "receiving_deviation"})
	require.NoError(t, err)
	require.Len(t, deviations, 1)
	assert.Equal(t, log.ID, deviations[0].Subject)

	none, err := env.svc.EventLog.List(ctx, LogFilter{Type: "cooldown_started", Subject: log.ID})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestEventLog_WindowAroundMonitorTransitions(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	mon := monitorOf(env)

	c, err := env.svc.StartCooldown(ctx, StartParams{ItemName: "Chili", StartTemp: 165})
	require.NoError(t, err)
	mon.sweep(ctx, t0.Add(95*time.Minute))
	mon.sweep(ctx, t0.Add(121*time.Minute))

	warnOnly, err := env.svc.EventLog.List(ctx, LogFilter{From: t0.Add(90 * time.Minute), To: t0.Add(100 * time.Minute)})
	require.NoError(t, err)
	assert.Equal(t, []string{models.EventCoolingWarning}, eventTypes(warnOnly))

	// The same window expressed in a kitchen's local zone.
	plus3 := time.FixedZone("UTC+3", 3*3600)
	local, err := env.svc.EventLog.List(ctx, LogFilter{
		From: t0.Add(90 * time.Minute).In(plus3),
		To:   t0.Add(100 * time.Minute).In(plus3),
	})
	require.NoError(t, err)
	assert.Equal(t, eventTypes(warnOnly), eventTypes(local))

	sinceTwoHours, err := env.svc.EventLog.List(ctx, LogFilter{From: t0.Add(2 * time.Hour), Subject: c.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{models.EventCoolingOverdue}, eventTypes(sinceTwoHours))

	untilStart, err := env.svc.EventLog.List(ctx, LogFilter{To: t0})
	require.NoError(t, err)
	assert.Equal(t, []string{models.EventCooldownStarted}, eventTypes(untilStart), "bounds are inclusive")
}

func TestEventLog_InvalidWindowRejected(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.EventLog.List(context.Background(), LogFilter{From: t0, To: t0.Add(-time.Second)})
	assert.ErrorIs(t, err, errInvalidTimeRange)
}
