package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cnap-oss/clawboard/internal/storage"
	"github.com/cnap-oss/clawboard/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

// Controller는 보드의 일곱 가지 구성 요소(활동, 에이전트, 문서, 작업, 메시지, 감사, 알림)에 대한
// 검증과 부수 효과를 담당합니다. 모든 저장은 Repository를 통해 이루어집니다.
type Controller struct {
	logger  *zap.Logger
	repo    *storage.Repository
	tracer  trace.Tracer
	metrics *telemetry.Metrics
}

// Option은 Controller 생성 옵션입니다.
type Option func(*Controller)

// WithTracer는 작업 span을 기록할 tracer를 지정합니다.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Controller) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// WithMetrics는 작업 지표를 기록할 Metrics를 지정합니다.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// NewController는 새로운 Controller를 생성합니다.
func NewController(logger *zap.Logger, repo *storage.Repository, opts ...Option) *Controller {
	c := &Controller{
		logger: logger,
		repo:   repo,
		tracer: telemetry.NewNoopProvider().Tracer,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// Metrics는 프로세스 내 카운터의 스냅샷을 반환합니다.
func (c *Controller) Metrics() telemetry.CountersSnapshot {
	return c.metrics.Snapshot()
}

// begin은 작업 span을 시작하고, 작업 종료 시 호출할 함수를 반환합니다.
// 종료 함수는 에러 종류에 따라 결과를 분류해 span과 지표에 기록합니다.
func (c *Controller) begin(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(*error)) {
	start := time.Now()
	attrs = append(attrs, telemetry.AttrOperation.String(op))
	ctx, span := telemetry.StartSpan(ctx, c.tracer, "clawboard."+op, attrs...)

	return ctx, func(errp *error) {
		var err error
		if errp != nil {
			err = *errp
		}
		outcome := telemetry.OutcomeOK
		switch {
		case err == nil:
		case IsValidation(err):
			outcome = telemetry.OutcomeInvalid
		default:
			outcome = telemetry.OutcomeError
		}
		span.SetAttributes(telemetry.AttrOutcome.String(outcome))
		telemetry.EndSpan(span, err)
		c.metrics.RecordOperation(ctx, op, time.Since(start), outcome)
	}
}

// ensureRepo는 저장소가 구성되었는지 확인합니다.
func (c *Controller) ensureRepo() error {
	if c.repo == nil {
		return fmt.Errorf("controller: repository is not configured")
	}
	return nil
}

// storageError는 저장소 실패를 기록하고 작업 이름을 붙여 반환합니다.
func (c *Controller) storageError(op string, err error, fields ...zap.Field) error {
	c.logger.Error("Storage operation failed", append(fields, zap.String("op", op), zap.Error(err))...)
	return fmt.Errorf("%s: %w", op, err)
}

// isNotFound는 조회 대상이 없음을 나타내는 에러인지 확인합니다.
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// blank는 공백만 있는 문자열인지 확인합니다.
func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// normalizeText는 자유 입력 텍스트를 NFC로 정규화합니다.
// 조합형으로 입력된 한글 등이 같은 문자열로 저장되도록 합니다.
func normalizeText(s string) string {
	return norm.NFC.String(s)
}

// normalizeTextPtr는 nil을 유지하면서 텍스트를 정규화합니다.
func normalizeTextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := normalizeText(*s)
	return &v
}

// trimID는 식별자의 앞뒤 공백을 제거해 제자리에서 갱신하고 그 값을 반환합니다.
func trimID(id *string) string {
	*id = strings.TrimSpace(*id)
	return *id
}

// optionalRef는 빈 참조 식별자를 NULL로 취급합니다.
func optionalRef(id *string) *string {
	if id == nil || blank(*id) {
		return nil
	}
	v := strings.TrimSpace(*id)
	return &v
}

// nullable은 Optional 값을 컬럼 갱신 값으로 변환합니다. null은 NULL로 기록됩니다.
func nullable(o Optional[string], normalize bool) any {
	if o.Null {
		return nil
	}
	if normalize {
		return normalizeText(o.Value)
	}
	return o.Value
}

// oneOf는 value가 allowed 중 하나인지 확인합니다.
func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

// cleanIDs는 공백 식별자를 제거하고 중복을 없앱니다.
func cleanIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
