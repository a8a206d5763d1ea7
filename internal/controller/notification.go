package controller

import (
	"context"

	"github.com/cnap-oss/clawboard/internal/storage"
	"github.com/cnap-oss/clawboard/internal/telemetry"
	"go.uber.org/zap"
)

// ListNotifications는 알림을 최근 순으로 반환합니다. OldestFirst면 오래된 순입니다.
func (c *Controller) ListNotifications(ctx context.Context, in ListNotificationsInput) (_ []storage.Notification, err error) {
	ctx, end := c.begin(ctx, "notifications.list", telemetry.AttrAgentID.String(in.AgentID))
	defer end(&err)

	if err := c.ensureRepo(); err != nil {
		return nil, err
	}
	if in.Limit < 0 {
		return nil, errInvalid("limit", "negative")
	}
	trimID(&in.AgentID)
	notifications, err := c.repo.ListNotifications(ctx, storage.NotificationFilter{
		AgentID:     in.AgentID,
		Undelivered: in.Undelivered,
		OldestFirst: in.OldestFirst,
		AfterID:     trimID(&in.AfterID),
		Limit:       in.Limit,
	})
	if err != nil {
		return nil, c.storageError("list notifications", err, zap.String("agent_id", in.AgentID))
	}
	c.logger.Debug("Listed notifications",
		zap.String("agent_id", in.AgentID),
		zap.Int("count", len(notifications)),
	)
	return notifications, nil
}

// GetNotification은 식별자로 알림을 조회합니다. 없으면 nil입니다.
func (c *Controller) GetNotification(ctx context.Context, in IDInput) (_ *storage.Notification, err error) {
	ctx, end := c.begin(ctx, "notifications.get", telemetry.AttrNotification.String(in.ID))
	defer end(&err)

	if err := c.ensureRepo(); err != nil {
		return nil, err
	}
	if trimID(&in.ID) == "" {
		return nil, errRequired("id")
	}
	n, err := c.repo.GetNotification(ctx, in.ID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, c.storageError("get notification", err, zap.String("notification_id", in.ID))
	}
	return n, nil
}

// CreateNotification은 에이전트 멘션 알림을 미전달 상태로 추가합니다.
func (c *Controller) CreateNotification(ctx context.Context, in CreateNotificationInput) (_ *storage.Notification, err error) {
	ctx, end := c.begin(ctx, "notifications.create", telemetry.AttrAgentID.String(in.MentionedAgentID))
	defer end(&err)

	if err := c.ensureRepo(); err != nil {
		return nil, err
	}
	if trimID(&in.MentionedAgentID) == "" {
		return nil, errRequired("mentionedAgentId")
	}
	if blank(in.Content) {
		return nil, errRequired("content")
	}

	n := &storage.Notification{
		MentionedAgentID: in.MentionedAgentID,
		Content:          normalizeText(in.Content),
		Delivered:        false,
	}
	if err := c.repo.CreateNotification(ctx, n); err != nil {
		return nil, c.storageError("create notification", err, zap.String("agent_id", in.MentionedAgentID))
	}

	created, err := c.repo.GetNotification(ctx, n.ID)
	if err != nil {
		return nil, c.storageError("reload notification", err, zap.String("notification_id", n.ID))
	}

	c.logger.Info("Notification queued",
		zap.String("notification_id", created.ID),
		zap.String("agent_id", created.MentionedAgentID),
	)
	return created, nil
}

// DeliverNotification은 알림을 전달 완료로 표시합니다. 이미 전달된 알림도 그대로 true로 남습니다.
// 알림이 없으면 nil을 반환합니다.
func (c *Controller) DeliverNotification(ctx context.Context, in IDInput) (_ *storage.Notification, err error) {
	ctx, end := c.begin(ctx, "notifications.deliver", telemetry.AttrNotification.String(in.ID))
	defer end(&err)

	if err := c.ensureRepo(); err != nil {
		return nil, err
	}
	if trimID(&in.ID) == "" {
		return nil, errRequired("id")
	}
	ok, err := c.repo.MarkNotificationDelivered(ctx, in.ID)
	if err != nil {
		return nil, c.storageError("deliver notification", err, zap.String("notification_id", in.ID))
	}
	if !ok {
		c.logger.Info("Notification not found for delivery", zap.String("notification_id", in.ID))
		return nil, nil
	}

	n, err := c.repo.GetNotification(ctx, in.ID)
	if err != nil {
		return nil, c.storageError("reload notification", err, zap.String("notification_id", in.ID))
	}
	c.logger.Info("Notification delivered", zap.String("notification_id", in.ID))
	return n, nil
}
