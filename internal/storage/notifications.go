package storage

import (
	"context"
	"fmt"
)

// NotificationFilter는 알림 목록 조회 조건입니다.
type NotificationFilter struct {
	AgentID     string
	Undelivered bool
	// OldestFirst는 정렬을 created_at 오름차순으로 바꿉니다.
	OldestFirst bool
	// AfterID는 정렬 순서상 해당 알림 다음부터 조회합니다. 페이지 커서로 사용됩니다.
	AfterID string
	Limit   int
}

// CreateNotification은 미전달 상태의 알림을 추가합니다.
func (r *Repository) CreateNotification(ctx context.Context, n *Notification) error {
	if n == nil {
		return fmt.Errorf("storage: nil notification payload")
	}
	if n.ID == "" {
		n.ID = newID()
	}
	return translateError(r.db.WithContext(ctx).Create(n).Error)
}

// GetNotification은 식별자로 알림을 조회합니다.
func (r *Repository) GetNotification(ctx context.Context, id string) (*Notification, error) {
	if id == "" {
		return nil, fmt.Errorf("storage: empty notification id")
	}
	var n Notification
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// ListNotifications는 필터를 적용해 알림을 반환합니다. 기본 정렬은 최근 순입니다.
func (r *Repository) ListNotifications(ctx context.Context, filter NotificationFilter) ([]Notification, error) {
	q := r.db.WithContext(ctx).Model(&Notification{})
	if filter.AgentID != "" {
		q = q.Where("mentioned_agent_id = ?", filter.AgentID)
	}
	if filter.Undelivered {
		q = q.Where("delivered = ?", false)
	}
	if filter.AfterID != "" {
		cursor := r.db.WithContext(ctx).Model(&Notification{}).Select("created_at").Where("id = ?", filter.AfterID)
		if filter.OldestFirst {
			q = q.Where("(created_at > (?) OR (created_at = (?) AND id > ?))", cursor, cursor, filter.AfterID)
		} else {
			q = q.Where("(created_at < (?) OR (created_at = (?) AND id < ?))", cursor, cursor, filter.AfterID)
		}
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	order := newestFirst
	if filter.OldestFirst {
		order = oldestFirst
	}
	notifications := []Notification{}
	if err := q.Order(order).Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationDelivered는 delivered를 무조건 true로 설정합니다. 행이 존재했는지 반환합니다.
func (r *Repository) MarkNotificationDelivered(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ?", id).
		Update("delivered", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
