package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"
)

// CreateTask는 새로운 작업 레코드를 추가합니다.
func (r *Repository) CreateTask(ctx context.Context, task *Task) error {
	if task == nil {
		return fmt.Errorf("storage: nil task payload")
	}
	if task.ID == "" {
		task.ID = newID()
	}
	return translateError(r.db.WithContext(ctx).Create(task).Error)
}

// GetTask는 작업 식별자로 레코드를 조회합니다.
func (r *Repository) GetTask(ctx context.Context, id string) (*Task, error) {
	if id == "" {
		return nil, fmt.Errorf("storage: empty task id")
	}
	var task Task
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListTasks는 최근 생성 순으로 작업 목록을 반환합니다.
func (r *Repository) ListTasks(ctx context.Context) ([]Task, error) {
	tasks := []Task{}
	if err := r.db.WithContext(ctx).
		Order(newestFirst).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateTaskFields는 전달된 컬럼과 updated_at을 갱신합니다.
func (r *Repository) UpdateTaskFields(ctx context.Context, id string, fields map[string]any) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("storage: empty task id")
	}
	if len(fields) == 0 {
		return false, fmt.Errorf("storage: no task fields to update")
	}
	fields["updated_at"] = r.now()
	res := r.db.WithContext(ctx).
		Model(&Task{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// TouchTask는 스칼라 필드 변경 없이 updated_at만 갱신합니다.
func (r *Repository) TouchTask(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Task{}).
		Where("id = ?", id).
		Update("updated_at", r.now())
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteTask는 작업을 삭제하고 실제로 삭제되었는지 반환합니다.
func (r *Repository) DeleteTask(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&Task{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AddTaskAssignees는 (task, agent) 쌍을 배정 집합에 추가합니다. 이미 있는 쌍은 무시됩니다.
func (r *Repository) AddTaskAssignees(ctx context.Context, taskID string, agentIDs []string) error {
	if taskID == "" {
		return fmt.Errorf("storage: empty task id")
	}
	ids := uniqueStrings(agentIDs)
	if len(ids) == 0 {
		return nil
	}
	rows := make([]TaskAssignee, 0, len(ids))
	for _, agentID := range ids {
		rows = append(rows, TaskAssignee{TaskID: taskID, AgentID: agentID})
	}
	return translateError(r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "task_id"}, {Name: "agent_id"}},
			DoNothing: true,
		}).
		Create(&rows).Error)
}

// RemoveTaskAssignees는 배정 집합에서 쌍을 제거합니다. 없는 쌍은 무시됩니다.
func (r *Repository) RemoveTaskAssignees(ctx context.Context, taskID string, agentIDs []string) error {
	ids := uniqueStrings(agentIDs)
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("task_id = ? AND agent_id IN ?", taskID, ids).
		Delete(&TaskAssignee{}).Error
}

// CountTaskAssignees는 작업의 배정 행 수를 반환합니다.
func (r *Repository) CountTaskAssignees(ctx context.Context, taskID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&TaskAssignee{}).
		Where("task_id = ?", taskID).
		Count(&count).Error
	return count, err
}

type assigneeRow struct {
	TaskID string `gorm:"column:assigned_task_id"`
	Agent  Agent  `gorm:"embedded"`
}

// ListAssigneesByTasks는 주어진 작업들의 배정 에이전트를 한 번의 조인 쿼리로 조회해 작업별로 묶습니다.
func (r *Repository) ListAssigneesByTasks(ctx context.Context, taskIDs []string) (map[string][]Agent, error) {
	grouped := make(map[string][]Agent, len(taskIDs))
	ids := uniqueStrings(taskIDs)
	if len(ids) == 0 {
		return grouped, nil
	}

	var rows []assigneeRow
	if err := r.db.WithContext(ctx).
		Table("task_assignees").
		Select("task_assignees.task_id AS assigned_task_id, agents.*").
		Joins("INNER JOIN agents ON agents.id = task_assignees.agent_id").
		Where("task_assignees.task_id IN ?", ids).
		Order("agents.created_at ASC, agents.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		grouped[row.TaskID] = append(grouped[row.TaskID], row.Agent)
	}
	return grouped, nil
}
