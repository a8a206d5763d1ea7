package storage

import (
	"context"
	"fmt"
)

// CreateAudit는 감사 기록을 추가합니다.
func (r *Repository) CreateAudit(ctx context.Context, audit *Audit) error {
	if audit == nil {
		return fmt.Errorf("storage: nil audit payload")
	}
	if audit.ID == "" {
		audit.ID = newID()
	}
	return translateError(r.db.WithContext(ctx).Create(audit).Error)
}

// GetAudit는 식별자로 감사 기록을 조회합니다.
func (r *Repository) GetAudit(ctx context.Context, id string) (*Audit, error) {
	if id == "" {
		return nil, fmt.Errorf("storage: empty audit id")
	}
	var audit Audit
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&audit).Error; err != nil {
		return nil, err
	}
	return &audit, nil
}

// ListAudits는 감사 기록을 최근 순으로 반환합니다. taskID가 비어 있으면 전체를 반환합니다.
func (r *Repository) ListAudits(ctx context.Context, taskID string) ([]Audit, error) {
	q := r.db.WithContext(ctx).Model(&Audit{})
	if taskID != "" {
		q = q.Where("task_id = ?", taskID)
	}
	audits := []Audit{}
	if err := q.Order(newestFirst).Find(&audits).Error; err != nil {
		return nil, err
	}
	return audits, nil
}
