package controller

import (
	"context"
	"time"

	"github.com/cnap-oss/clawboard/internal/storage"
	"github.com/cnap-oss/clawboard/internal/telemetry"
	"go.uber.org/zap"
)

// RecordActivity는 타임라인에 항목 하나를 추가합니다.
// 다른 작업들은 자신의 트랜잭션 안에서 recordActivity를 사용합니다.
func (c *Controller) RecordActivity(ctx context.Context, activityType, message string, agentID, taskID *string) error {
	if err := c.ensureRepo(); err != nil {
		return err
	}
	_, err := c.recordActivity(ctx, c.repo, activityType, message, agentID, taskID)
	return err
}

func (c *Controller) recordActivity(ctx context.Context, repo *storage.Repository, activityType, message string, agentID, taskID *string) (*storage.Activity, error) {
	activity := &storage.Activity{
		Type:    activityType,
		Message: message,
		AgentID: optionalRef(agentID),
		TaskID:  optionalRef(taskID),
	}
	if err := repo.CreateActivity(ctx, activity); err != nil {
		return nil, c.storageError("record activity", err, zap.String("type", activityType))
	}
	c.metrics.RecordActivity(ctx, activityType)
	return activity, nil
}

// CreateActivity는 외부에서 전달된 활동을 직접 기록합니다.
func (c *Controller) CreateActivity(ctx context.Context, in CreateActivityInput) (_ *storage.Activity, err error) {
	ctx, end := c.begin(ctx, "activities.create", telemetry.AttrActivityType.String(in.Type))
	defer end(&err)

	if err := c.ensureRepo(); err != nil {
		return nil, err
	}
	if blank(in.Type) {
		return nil, errRequired("type")
	}
	if blank(in.Message) {
		return nil, errRequired("message")
	}
	if !oneOf(in.Type, storage.ActivityTypes) {
		return nil, errInvalid("type", in.Type)
	}

	activity, err := c.recordActivity(ctx, c.repo, in.Type, normalizeText(in.Message), in.AgentID, in.TaskID)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Activity recorded",
		zap.String("activity_id", activity.ID),
		zap.String("type", activity.Type),
	)
	return activity, nil
}

// ListActivities는 모든 활동을 최근 순으로 반환합니다.
func (c *Controller) ListActivities(ctx context.Context) (_ []storage.Activity, err error) {
	ctx, end := c.begin(ctx, "activities.list")
	defer end(&err)

	if err := c.ensureRepo(); err != nil {
		return nil, err
	}
	activities, err := c.repo.ListActivities(ctx)
	if err != nil {
		return nil, c.storageError("list activities", err)
	}
	c.logger.Debug("Listed activities", zap.Int("count", len(activities)))
	return activities, nil
}

// ListActivitiesSince는 since 이후에 기록된 활동을 오래된 순으로 반환합니다.
func (c *Controller) ListActivitiesSince(ctx context.Context, since time.Time) (_ []storage.Activity, err error) {
	ctx, end := c.begin(ctx, "activities.since")
	defer end(&err)

	if err := c.ensureRepo(); err != nil {
		return nil, err
	}
	activities, err := c.repo.ListActivitiesSince(ctx, since)
	if err != nil {
		return nil, c.storageError("list activities since", err)
	}
	return activities, nil
}
