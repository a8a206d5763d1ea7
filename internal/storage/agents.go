package storage

import (
	"context"
	"fmt"
)

// CreateAgent는 새로운 에이전트 레코드를 저장합니다. ID가 비어 있으면 새로 발급합니다.
func (r *Repository) CreateAgent(ctx context.Context, agent *Agent) error {
	if agent == nil {
		return fmt.Errorf("storage: nil agent payload")
	}
	if agent.ID == "" {
		agent.ID = newID()
	}
	return translateError(r.db.WithContext(ctx).Create(agent).Error)
}

// GetAgent는 식별자로 에이전트를 조회합니다. 없으면 gorm.ErrRecordNotFound를 반환합니다.
func (r *Repository) GetAgent(ctx context.Context, id string) (*Agent, error) {
	if id == "" {
		return nil, fmt.Errorf("storage: empty agent id")
	}
	var agent Agent
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&agent).Error; err != nil {
		return nil, err
	}
	return &agent, nil
}

// ListAgents는 최근 생성 순으로 에이전트 목록을 반환합니다.
func (r *Repository) ListAgents(ctx context.Context) ([]Agent, error) {
	agents := []Agent{}
	if err := r.db.WithContext(ctx).
		Order(newestFirst).
		Find(&agents).Error; err != nil {
		return nil, err
	}
	return agents, nil
}

// UpdateAgentFields는 전달된 컬럼만 갱신합니다. updated_at은 항상 새로 기록됩니다.
// 행이 존재했는지 여부를 반환합니다.
func (r *Repository) UpdateAgentFields(ctx context.Context, id string, fields map[string]any) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("storage: empty agent id")
	}
	if len(fields) == 0 {
		return false, fmt.Errorf("storage: no agent fields to update")
	}
	fields["updated_at"] = r.now()
	res := r.db.WithContext(ctx).
		Model(&Agent{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return false, translateError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DeleteAgent는 에이전트를 삭제하고 실제로 삭제되었는지 반환합니다.
// 배정과 알림은 외래 키 CASCADE로 함께 정리됩니다.
func (r *Repository) DeleteAgent(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&Agent{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
