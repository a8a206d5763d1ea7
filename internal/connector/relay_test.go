package connector_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cnap-oss/clawboard/internal/connector"
	"github.com/cnap-oss/clawboard/internal/controller"
	"github.com/cnap-oss/clawboard/internal/telemetry"
	"github.com/cnap-oss/clawboard/internal/testutil"
	"github.com/cnap-oss/clawboard/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newRelayFixture(t *testing.T, cfg connector.RelayConfig) (*connector.Relay, *controller.Controller, *mocks.MockSender, *telemetry.Metrics) {
	t.Helper()

	logger := zaptest.NewLogger(t)
	ctrl := controller.NewController(logger, testutil.NewTestRepository(t))
	sender := mocks.NewMockSender()
	metrics, err := telemetry.NewMetrics(telemetry.NewNoopProvider().Meter)
	require.NoError(t, err)

	relay, err := connector.NewRelay(logger, ctrl, sender, cfg,
		connector.WithRelayTelemetry(telemetry.NewNoopProvider().Tracer, metrics))
	require.NoError(t, err)
	return relay, ctrl, sender, metrics
}

func TestFormatNotification(t *testing.T) {
	assert.Equal(t, "@Aria review please", connector.FormatNotification("Aria", "review please"))

	long := connector.FormatNotification("Aria", strings.Repeat("가", 3000))
	assert.Len(t, []rune(long), 2000)
	assert.True(t, strings.HasSuffix(long, "…"))
}

func TestNewRelayRejectsBadSchedule(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctrl := controller.NewController(logger, testutil.NewTestRepository(t))

	_, err := connector.NewRelay(logger, ctrl, mocks.NewMockSender(), connector.RelayConfig{Schedule: "every tuesday"})
	require.Error(t, err)

	_, err = connector.NewRelay(logger, ctrl, nil, connector.RelayConfig{})
	require.Error(t, err)
}

func TestRelayFlushDeliversOldestFirst(t *testing.T) {
	relay, ctrl, sender, metrics := newRelayFixture(t, connector.RelayConfig{})
	ctx := context.Background()

	aria, err := ctrl.CreateAgent(ctx, controller.CreateAgentInput{Name: "Aria"})
	require.NoError(t, err)
	bex, err := ctrl.CreateAgent(ctx, controller.CreateAgentInput{Name: "Bex"})
	require.NoError(t, err)

	_, err = ctrl.CreateNotification(ctx, controller.CreateNotificationInput{MentionedAgentID: aria.ID, Content: "first"})
	require.NoError(t, err)
	_, err = ctrl.CreateNotification(ctx, controller.CreateNotificationInput{MentionedAgentID: bex.ID, Content: "second"})
	require.NoError(t, err)

	result, err := relay.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, connector.FlushResult{Delivered: 2}, result)
	assert.Equal(t, []string{"@Aria first", "@Bex second"}, sender.Messages())

	pending, err := ctrl.ListNotifications(ctx, controller.ListNotificationsInput{Undelivered: true})
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.EqualValues(t, 2, metrics.Snapshot().NotificationsRelayed)

	// 이미 전달된 알림은 다시 보내지 않는다
	result, err = relay.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, connector.FlushResult{}, result)
	assert.Equal(t, 2, sender.GetCallCount())
}

func TestRelayLeavesFailedSendsUndelivered(t *testing.T) {
	relay, ctrl, sender, metrics := newRelayFixture(t, connector.RelayConfig{})
	ctx := context.Background()

	aria, err := ctrl.CreateAgent(ctx, controller.CreateAgentInput{Name: "Aria"})
	require.NoError(t, err)
	failing, err := ctrl.CreateNotification(ctx, controller.CreateNotificationInput{MentionedAgentID: aria.ID, Content: "flaky"})
	require.NoError(t, err)
	_, err = ctrl.CreateNotification(ctx, controller.CreateNotificationInput{MentionedAgentID: aria.ID, Content: "fine"})
	require.NoError(t, err)

	sender.SetError("@Aria flaky", errors.New("discord unavailable"))

	result, err := relay.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, connector.FlushResult{Delivered: 1, Failed: 1}, result)
	assert.EqualValues(t, 1, metrics.Snapshot().RelayFailures)

	got, err := ctrl.GetNotification(ctx, controller.IDInput{ID: failing.ID})
	require.NoError(t, err)
	assert.False(t, got.Delivered)

	sender.ClearErrors()
	result, err = relay.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, connector.FlushResult{Delivered: 1}, result)
	assert.Equal(t, []string{"@Aria fine", "@Aria flaky"}, sender.Messages())
}

func TestRelayRespectsBatchSize(t *testing.T) {
	relay, ctrl, sender, _ := newRelayFixture(t, connector.RelayConfig{BatchSize: 2})
	ctx := context.Background()

	aria, err := ctrl.CreateAgent(ctx, controller.CreateAgentInput{Name: "Aria"})
	require.NoError(t, err)
	for _, content := range []string{"a", "b", "c"} {
		_, err := ctrl.CreateNotification(ctx, controller.CreateNotificationInput{MentionedAgentID: aria.ID, Content: content})
		require.NoError(t, err)
	}

	result, err := relay.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Delivered)
	assert.Equal(t, []string{"@Aria a", "@Aria b"}, sender.Messages())

	result, err = relay.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Delivered)
	assert.Len(t, sender.Messages(), 3)
}

func TestRelayStartFlushesImmediatelyAndStops(t *testing.T) {
	relay, ctrl, sender, _ := newRelayFixture(t, connector.RelayConfig{Schedule: "@every 1h"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	aria, err := ctrl.CreateAgent(ctx, controller.CreateAgentInput{Name: "Aria"})
	require.NoError(t, err)
	_, err = ctrl.CreateNotification(ctx, controller.CreateNotificationInput{MentionedAgentID: aria.ID, Content: "wake up"})
	require.NoError(t, err)

	require.NoError(t, relay.Start(ctx))
	require.Error(t, relay.Start(ctx))
	assert.Equal(t, []string{"@Aria wake up"}, sender.Messages())

	select {
	case <-relay.Stop().Done():
	case <-time.After(time.Second):
		t.Fatal("relay did not stop")
	}
}

func TestRelayDeliversPastPersistentFailures(t *testing.T) {
	relay, ctrl, sender, _ := newRelayFixture(t, connector.RelayConfig{BatchSize: 2})
	ctx := context.Background()

	aria, err := ctrl.CreateAgent(ctx, controller.CreateAgentInput{Name: "Aria"})
	require.NoError(t, err)
	for _, content := range []string{"rejected one", "rejected two", "fine"} {
		_, err := ctrl.CreateNotification(ctx, controller.CreateNotificationInput{MentionedAgentID: aria.ID, Content: content})
		require.NoError(t, err)
	}
	sender.SetError("@Aria rejected one", errors.New("400 bad request"))
	sender.SetError("@Aria rejected two", errors.New("400 bad request"))

	result, err := relay.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, connector.FlushResult{Delivered: 1, Failed: 2}, result)
	assert.Equal(t, []string{"@Aria fine"}, sender.Messages())

	// 실패한 알림은 다음 실행에서 다시 시도된다
	result, err = relay.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, connector.FlushResult{Failed: 2}, result)

	pending, err := ctrl.ListNotifications(ctx, controller.ListNotificationsInput{Undelivered: true})
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}
