package storage

import (
	"context"
	"fmt"
	"time"
)

// CreateActivity는 타임라인 항목을 추가합니다.
func (r *Repository) CreateActivity(ctx context.Context, activity *Activity) error {
	if activity == nil {
		return fmt.Errorf("storage: nil activity payload")
	}
	if activity.ID == "" {
		activity.ID = newID()
	}
	return r.db.WithContext(ctx).Create(activity).Error
}

// ListActivities는 타임라인을 최근 순으로 반환합니다.
func (r *Repository) ListActivities(ctx context.Context) ([]Activity, error) {
	activities := []Activity{}
	if err := r.db.WithContext(ctx).
		Order(newestFirst).
		Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// ListActivitiesSince는 since 이후에 기록된 항목을 오래된 순으로 반환합니다.
func (r *Repository) ListActivitiesSince(ctx context.Context, since time.Time) ([]Activity, error) {
	activities := []Activity{}
	if err := r.db.WithContext(ctx).
		Where("created_at > ?", since).
		Order(oldestFirst).
		Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// CountActivities는 유형별 항목 수를 반환합니다. activityType이 비어 있으면 전체 수입니다.
func (r *Repository) CountActivities(ctx context.Context, activityType string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&Activity{})
	if activityType != "" {
		q = q.Where("type = ?", activityType)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}
