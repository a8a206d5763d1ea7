package controller

import (
	"context"
	"fmt"

	"github.com/cnap-oss/clawboard/internal/storage"
	"github.com/cnap-oss/clawboard/internal/telemetry"
	"go.uber.org/zap"
)

// ListAudits는 감사 기록을 최근 순으로 반환합니다. taskId가 있으면 해당 작업만 반환합니다.
func (c *Controller) ListAudits(ctx context.Context, in ListAuditsInput) (_ []storage.Audit, err error) {
	ctx, end := c.begin(ctx, "audits.list", telemetry.AttrTaskID.String(in.TaskID))
	defer end(&err)

	if err := c.ensureRepo(); err != nil {
		return nil, err
	}
	trimID(&in.TaskID)
	audits, err := c.repo.ListAudits(ctx, in.TaskID)
	if err != nil {
		return nil, c.storageError("list audits", err, zap.String("task_id", in.TaskID))
	}
	c.logger.Debug("Listed audits", zap.Int("count", len(audits)))
	return audits, nil
}

// CreateAudit는 감사 기록을 남기고 audit_completed 활동을 기록합니다.
func (c *Controller) CreateAudit(ctx context.Context, in CreateAuditInput) (_ *storage.Audit, err error) {
	ctx, end := c.begin(ctx, "audits.create", telemetry.AttrTaskID.String(in.TaskID))
	defer end(&err)

	if err := c.ensureRepo(); err != nil {
		return nil, err
	}
	if trimID(&in.TaskID) == "" {
		return nil, errRequired("taskId")
	}
	level := in.ThreatLevel
	if level == "" {
		level = storage.ThreatLevelSafe
	}
	if !oneOf(level, storage.ThreatLevels) {
		return nil, errInvalid("threatLevel", level)
	}

	audit := &storage.Audit{
		TaskID:      in.TaskID,
		ThreatLevel: level,
		Content:     normalizeTextPtr(in.Content),
	}
	var created *storage.Audit
	err = c.repo.Transaction(ctx, func(tx *storage.Repository) error {
		if err := tx.CreateAudit(ctx, audit); err != nil {
			return c.storageError("create audit", err, zap.String("task_id", in.TaskID))
		}
		if _, err := c.recordActivity(ctx, tx, storage.ActivityTypeAuditCompleted,
			fmt.Sprintf("Audit completed with threat level: %s", level), nil, &audit.TaskID); err != nil {
			return err
		}
		loaded, err := tx.GetAudit(ctx, audit.ID)
		if err != nil {
			return c.storageError("reload audit", err, zap.String("audit_id", audit.ID))
		}
		created = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("Audit recorded",
		zap.String("audit_id", created.ID),
		zap.String("task_id", created.TaskID),
		zap.String("threat_level", created.ThreatLevel),
	)
	return created, nil
}
