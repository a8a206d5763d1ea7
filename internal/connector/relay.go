package connector

import (
	"context"
	"fmt"
	"sync"

	"github.com/cnap-oss/clawboard/internal/controller"
	"github.com/cnap-oss/clawboard/internal/storage"
	"github.com/cnap-oss/clawboard/internal/telemetry"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Sender는 포맷된 알림 한 건을 외부 채널로 보냅니다.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// NotificationStore는 릴레이가 사용하는 알림 큐 연산입니다. *controller.Controller가 구현합니다.
type NotificationStore interface {
	ListNotifications(ctx context.Context, in controller.ListNotificationsInput) ([]storage.Notification, error)
	GetAgent(ctx context.Context, in controller.IDInput) (*storage.Agent, error)
	DeliverNotification(ctx context.Context, in controller.IDInput) (*storage.Notification, error)
}

var _ NotificationStore = (*controller.Controller)(nil)

// RelayConfig는 릴레이 실행 주기와 한 번에 처리할 알림 수입니다.
type RelayConfig struct {
	Schedule  string
	BatchSize int
}

// FlushResult는 한 번의 Flush 결과입니다.
type FlushResult struct {
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// RelayOption은 Relay 생성 옵션입니다.
type RelayOption func(*Relay)

// WithRelayTelemetry는 릴레이 span과 지표 기록을 켭니다.
func WithRelayTelemetry(tracer trace.Tracer, metrics *telemetry.Metrics) RelayOption {
	return func(r *Relay) {
		if tracer != nil {
			r.tracer = tracer
		}
		r.metrics = metrics
	}
}

// Relay는 미전달 알림을 주기적으로 꺼내 Sender로 보내고, 전송에 성공한 알림만 전달 완료로 표시합니다.
// 실패한 알림은 다음 실행에서 다시 시도됩니다.
type Relay struct {
	logger  *zap.Logger
	store   NotificationStore
	sender  Sender
	cfg     RelayConfig
	tracer  trace.Tracer
	metrics *telemetry.Metrics

	mu        sync.Mutex // Flush 직렬화
	scheduler *cron.Cron
}

// NewRelay는 새로운 Relay를 생성합니다. 실행 주기는 cron 표현식 또는 @every 형식입니다.
func NewRelay(logger *zap.Logger, store NotificationStore, sender Sender, cfg RelayConfig, opts ...RelayOption) (*Relay, error) {
	if store == nil {
		return nil, fmt.Errorf("relay: notification store is required")
	}
	if sender == nil {
		return nil, fmt.Errorf("relay: sender is required")
	}
	if cfg.Schedule == "" {
		cfg.Schedule = defaultSchedule
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return nil, fmt.Errorf("relay: invalid schedule %q: %w", cfg.Schedule, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Relay{
		logger: logger.Named("relay"),
		store:  store,
		sender: sender,
		cfg:    cfg,
		tracer: telemetry.NewNoopProvider().Tracer,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// FormatNotification은 알림을 "@<에이전트 이름> <내용>" 형태로 만들고 Discord 길이 제한에 맞춥니다.
func FormatNotification(agentName, content string) string {
	return truncate(mentionPrefix+agentName+" "+content, maxMessageLength)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + ellipsis
}

// Flush는 미전달 알림을 오래된 것부터 처리해 최대 BatchSize개를 전달합니다.
// 실패하거나 건너뛴 알림이 있으면 같은 실행에서 그 뒤의 페이지를 이어서 조회합니다.
func (r *Relay) Flush(ctx context.Context) (result FlushResult, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx, span := telemetry.StartSpan(ctx, r.tracer, "clawboard.relay.flush")
	defer func() { telemetry.EndSpan(span, err) }()

	names := make(map[string]string)
	cursor := ""
	processed := 0
	for result.Delivered < r.cfg.BatchSize {
		pending, err := r.store.ListNotifications(ctx, controller.ListNotificationsInput{
			Undelivered: true,
			OldestFirst: true,
			AfterID:     cursor,
			Limit:       r.cfg.BatchSize,
		})
		if err != nil {
			return result, fmt.Errorf("relay: list pending notifications: %w", err)
		}
		processed += len(pending)

		if err := r.flushPage(ctx, pending, names, &result); err != nil {
			return result, err
		}
		if len(pending) < r.cfg.BatchSize {
			break
		}
		cursor = pending[len(pending)-1].ID
	}

	if processed > 0 {
		r.logger.Info("Relay flush finished",
			zap.Int("delivered", result.Delivered),
			zap.Int("failed", result.Failed),
			zap.Int("skipped", result.Skipped),
		)
	}
	return result, nil
}

// flushPage는 한 페이지의 알림을 보냅니다. 전달 수가 BatchSize에 이르면 멈춥니다.
func (r *Relay) flushPage(ctx context.Context, pending []storage.Notification, names map[string]string, result *FlushResult) error {
	for _, n := range pending {
		if result.Delivered >= r.cfg.BatchSize {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		name, ok := names[n.MentionedAgentID]
		if !ok {
			agent, err := r.store.GetAgent(ctx, controller.IDInput{ID: n.MentionedAgentID})
			if err != nil {
				return fmt.Errorf("relay: load agent %s: %w", n.MentionedAgentID, err)
			}
			if agent != nil {
				name = agent.Name
			}
			names[n.MentionedAgentID] = name
		}
		if name == "" {
			r.logger.Warn("Skipping notification for unknown agent",
				zap.String("notification_id", n.ID),
				zap.String("agent_id", n.MentionedAgentID),
			)
			result.Skipped++
			continue
		}

		if err := r.send(ctx, n, name); err != nil {
			r.logger.Warn("Failed to relay notification",
				zap.String("notification_id", n.ID),
				zap.Error(err),
			)
			r.metrics.RecordRelay(ctx, false)
			result.Failed++
			continue
		}

		if _, err := r.store.DeliverNotification(ctx, controller.IDInput{ID: n.ID}); err != nil {
			return fmt.Errorf("relay: mark delivered %s: %w", n.ID, err)
		}
		r.metrics.RecordRelay(ctx, true)
		result.Delivered++
	}
	return nil
}

func (r *Relay) send(ctx context.Context, n storage.Notification, agentName string) (err error) {
	ctx, span := telemetry.StartClientSpan(ctx, r.tracer, "clawboard.relay.send",
		telemetry.AttrNotification.String(n.ID),
		telemetry.AttrAgentID.String(n.MentionedAgentID),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	return r.sender.Send(ctx, FormatNotification(agentName, n.Content))
}

// Start는 즉시 한 번 Flush한 뒤 설정된 주기로 Flush를 예약합니다.
// 예약된 실행은 ctx가 취소되면 더 이상 알림을 보내지 않습니다.
func (r *Relay) Start(ctx context.Context) error {
	if r.scheduler != nil {
		return fmt.Errorf("relay: already started")
	}
	if _, err := r.Flush(ctx); err != nil {
		r.logger.Error("Initial relay flush failed", zap.Error(err))
	}

	sugar := r.logger.Sugar()
	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{sugar})))
	if _, err := scheduler.AddFunc(r.cfg.Schedule, func() {
		if ctx.Err() != nil {
			return
		}
		if _, err := r.Flush(ctx); err != nil {
			r.logger.Error("Scheduled relay flush failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("relay: schedule flush: %w", err)
	}
	r.scheduler = scheduler
	scheduler.Start()

	r.logger.Info("Relay started", zap.String("schedule", r.cfg.Schedule))
	return nil
}

// Stop은 예약을 멈추고, 실행 중인 Flush가 끝나면 닫히는 컨텍스트를 반환합니다.
func (r *Relay) Stop() context.Context {
	if r.scheduler == nil {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	r.logger.Info("Stopping relay")
	return r.scheduler.Stop()
}

// cronLogger는 cron 내부 로그를 zap으로 보냅니다.
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}
