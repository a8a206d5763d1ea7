package telemetry

import (
	"context"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// 작업 결과 분류
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Metrics는 OTel 계측기와 프로세스 내 카운터를 함께 보관합니다.
// nil Metrics에 대한 호출은 아무 일도 하지 않습니다.
type Metrics struct {
	OperationDuration metric.Float64Histogram
	Operations        metric.Int64Counter
	ValidationErrors  metric.Int64Counter
	Activities        metric.Int64Counter
	Notifications     metric.Int64Counter

	counters Counters
}

// NewMetrics는 meter로부터 모든 계측기를 생성합니다.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.OperationDuration, err = meter.Float64Histogram("clawboard.operation.duration",
		metric.WithDescription("Data layer operation duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.Operations, err = meter.Int64Counter("clawboard.operations",
		metric.WithDescription("Data layer operations by name and outcome"),
	)
	if err != nil {
		return nil, err
	}

	m.ValidationErrors, err = meter.Int64Counter("clawboard.validation_errors",
		metric.WithDescription("Operations rejected by input validation"),
	)
	if err != nil {
		return nil, err
	}

	m.Activities, err = meter.Int64Counter("clawboard.activities",
		metric.WithDescription("Activity entries recorded by type"),
	)
	if err != nil {
		return nil, err
	}

	m.Notifications, err = meter.Int64Counter("clawboard.notifications.relayed",
		metric.WithDescription("Notifications pushed by the relay by outcome"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordOperation은 작업 하나의 소요 시간과 결과를 기록합니다.
func (m *Metrics) RecordOperation(ctx context.Context, op string, elapsed time.Duration, outcome string) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(AttrOperation.String(op), AttrOutcome.String(outcome))
	if m.OperationDuration != nil {
		m.OperationDuration.Record(ctx, elapsed.Seconds(), attrs)
	}
	if m.Operations != nil {
		m.Operations.Add(ctx, 1, attrs)
	}
	if outcome == OutcomeInvalid && m.ValidationErrors != nil {
		m.ValidationErrors.Add(ctx, 1, metric.WithAttributes(AttrOperation.String(op)))
	}
	m.counters.recordOperation(outcome, elapsed)
}

// RecordActivity는 기록된 타임라인 항목을 셉니다.
func (m *Metrics) RecordActivity(ctx context.Context, activityType string) {
	if m == nil {
		return
	}
	if m.Activities != nil {
		m.Activities.Add(ctx, 1, metric.WithAttributes(AttrActivityType.String(activityType)))
	}
	atomic.AddInt64(&m.counters.ActivitiesRecorded, 1)
}

// RecordRelay는 릴레이가 알림 하나를 처리한 결과를 기록합니다.
func (m *Metrics) RecordRelay(ctx context.Context, delivered bool) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if !delivered {
		outcome = OutcomeError
	}
	if m.Notifications != nil {
		m.Notifications.Add(ctx, 1, metric.WithAttributes(AttrOutcome.String(outcome)))
	}
	if delivered {
		atomic.AddInt64(&m.counters.NotificationsRelayed, 1)
	} else {
		atomic.AddInt64(&m.counters.RelayFailures, 1)
	}
}

// Snapshot은 프로세스 내 카운터의 현재 값을 반환합니다.
func (m *Metrics) Snapshot() CountersSnapshot {
	if m == nil {
		return CountersSnapshot{}
	}
	return m.counters.Snapshot()
}

// Reset은 프로세스 내 카운터를 초기화합니다.
func (m *Metrics) Reset() {
	if m == nil {
		return
	}
	m.counters.Reset()
}

// Counters는 exporter 없이도 조회할 수 있는 원자적 카운터입니다.
type Counters struct {
	OperationsTotal      int64
	OperationsFailed     int64
	ValidationErrors     int64
	ActivitiesRecorded   int64
	NotificationsRelayed int64
	RelayFailures        int64

	TotalOperationTime int64 // 나노초
}

func (c *Counters) recordOperation(outcome string, elapsed time.Duration) {
	atomic.AddInt64(&c.OperationsTotal, 1)
	atomic.AddInt64(&c.TotalOperationTime, int64(elapsed))
	switch outcome {
	case OutcomeInvalid:
		atomic.AddInt64(&c.ValidationErrors, 1)
	case OutcomeError:
		atomic.AddInt64(&c.OperationsFailed, 1)
	}
}

// Snapshot은 현재 카운터 스냅샷을 반환합니다.
func (c *Counters) Snapshot() CountersSnapshot {
	return CountersSnapshot{
		OperationsTotal:      atomic.LoadInt64(&c.OperationsTotal),
		OperationsFailed:     atomic.LoadInt64(&c.OperationsFailed),
		ValidationErrors:     atomic.LoadInt64(&c.ValidationErrors),
		ActivitiesRecorded:   atomic.LoadInt64(&c.ActivitiesRecorded),
		NotificationsRelayed: atomic.LoadInt64(&c.NotificationsRelayed),
		RelayFailures:        atomic.LoadInt64(&c.RelayFailures),
		AvgOperationTimeMs:   c.avgOperationTime(),
	}
}

// Reset은 모든 카운터를 초기화합니다.
func (c *Counters) Reset() {
	atomic.StoreInt64(&c.OperationsTotal, 0)
	atomic.StoreInt64(&c.OperationsFailed, 0)
	atomic.StoreInt64(&c.ValidationErrors, 0)
	atomic.StoreInt64(&c.ActivitiesRecorded, 0)
	atomic.StoreInt64(&c.NotificationsRelayed, 0)
	atomic.StoreInt64(&c.RelayFailures, 0)
	atomic.StoreInt64(&c.TotalOperationTime, 0)
}

func (c *Counters) avgOperationTime() float64 {
	total := atomic.LoadInt64(&c.OperationsTotal)
	if total == 0 {
		return 0
	}
	return float64(atomic.LoadInt64(&c.TotalOperationTime)) / float64(total) / 1e6
}

// CountersSnapshot은 카운터 스냅샷입니다.
type CountersSnapshot struct {
	OperationsTotal      int64   `json:"operations_total"`
	OperationsFailed     int64   `json:"operations_failed"`
	ValidationErrors     int64   `json:"validation_errors"`
	ActivitiesRecorded   int64   `json:"activities_recorded"`
	NotificationsRelayed int64   `json:"notifications_relayed"`
	RelayFailures        int64   `json:"relay_failures"`
	AvgOperationTimeMs   float64 `json:"avg_operation_time_ms"`
}
