package controller

import (
	"context"
	"fmt"

	"github.com/cnap-oss/clawboard/internal/storage"
	"github.com/cnap-oss/clawboard/internal/telemetry"
	"go.uber.org/zap"
)

// ListTasks는 모든 작업을 최근 순으로 반환합니다.
// 배정 정보는 한 번의 조인 쿼리로 가져와 메모리에서 묶습니다.
func (c *Controller) ListTasks(ctx context.Context) (_ []TaskWithAssignees, err error) {
	ctx, end := c.begin(ctx, "tasks.list")
	defer end(&err)

	if err := c.ensureRepo(); err != nil {
		return nil, err
	}
	tasks, err := c.repo.ListTasks(ctx)
	if err != nil {
		return nil, c.storageError("list tasks", err)
	}

	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	grouped, err := c.repo.ListAssigneesByTasks(ctx, ids)
	if err != nil {
		return nil, c.storageError("list task assignees", err)
	}

	result := make([]TaskWithAssignees, 0, len(tasks))
	for _, t := range tasks {
		assignees := grouped[t.ID]
		if assignees == nil {
			assignees = []storage.Agent{}
		}
		result = append(result, TaskWithAssignees{Task: t, Assignees: assignees})
	}
	c.logger.Debug("Listed tasks", zap.Int("count", len(result)))
	return result, nil
}

// GetTask는 작업 하나를 배정 정보와 함께 반환합니다. 없으면 nil입니다.
func (c *Controller) GetTask(ctx context.Context, in IDInput) (_ *TaskWithAssignees, err error) {
	ctx, end := c.begin(ctx, "tasks.get", telemetry.AttrTaskID.String(in.ID))
	defer end(&err)

	if err := c.ensureRepo(); err != nil {
		return nil, err
	}
	if trimID(&in.ID) == "" {
		return nil, errRequired("id")
	}
	return c.loadTask(ctx, c.repo, in.ID)
}

// loadTask는 repo(트랜잭션일 수 있음)에서 작업과 배정 목록을 읽습니다.
func (c *Controller) loadTask(ctx context.Context, repo *storage.Repository, id string) (*TaskWithAssignees, error) {
	task, err := repo.GetTask(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, c.storageError("get task", err, zap.String("task_id", id))
	}
	grouped, err := repo.ListAssigneesByTasks(ctx, []string{id})
	if err != nil {
		return nil, c.storageError("list task assignees", err, zap.String("task_id", id))
	}
	assignees := grouped[id]
	if assignees == nil {
		assignees = []storage.Agent{}
	}
	return &TaskWithAssignees{Task: *task, Assignees: assignees}, nil
}

// CreateTask는 작업을 만들고, 담당자를 배정하고, task_created 활동을 남깁니다.
// 세 단계는 하나의 트랜잭션으로 실행됩니다.
func (c *Controller) CreateTask(ctx context.Context, in CreateTaskInput) (_ *TaskWithAssignees, err error) {
	ctx, end := c.begin(ctx, "tasks.create")
	defer end(&err)

	if err := c.ensureRepo(); err != nil {
		return nil, err
	}
	if blank(in.Title) {
		return nil, errRequired("title")
	}
	status := in.Status
	if status == "" {
		status = storage.TaskStatusInbox
	}
	if !oneOf(status, storage.TaskStatuses) {
		return nil, errInvalid("status", status)
	}

	task := &storage.Task{
		Title:       normalizeText(in.Title),
		Description: normalizeTextPtr(in.Description),
		Status:      status,
	}
	assignees := cleanIDs(in.AssigneeIDs)

	var result *TaskWithAssignees
	err = c.repo.Transaction(ctx, func(tx *storage.Repository) error {
		if err := tx.CreateTask(ctx, task); err != nil {
			return c.storageError("create task", err)
		}
		if err := tx.AddTaskAssignees(ctx, task.ID, assignees); err != nil {
			return c.storageError("assign task", err, zap.String("task_id", task.ID))
		}
		if _, err := c.recordActivity(ctx, tx, storage.ActivityTypeTaskCreated,
			fmt.Sprintf("Task created: %s", task.Title), nil, &task.ID); err != nil {
			return err
		}
		loaded, err := c.loadTask(ctx, tx, task.ID)
		if err != nil {
			return err
		}
		result = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("Task created",
		zap.String("task_id", task.ID),
		zap.String("status", task.Status),
		zap.Int("assignees", len(result.Assignees)),
	)
	return result, nil
}

// UpdateTask는 실제로 바뀐 필드만 기록합니다.
// 상태가 바뀌면 status_changed, 다른 필드만 바뀌면 task_updated 활동을 하나 남기고,
// 바뀐 것이 없으면 아무것도 쓰지 않습니다. 작업이 없으면 nil을 반환합니다.
func (c *Controller) UpdateTask(ctx context.Context, in UpdateTaskInput) (_ *TaskWithAssignees, err error) {
	ctx, end := c.begin(ctx, "tasks.update", telemetry.AttrTaskID.String(in.ID))
	defer end(&err)

	if err := c.ensureRepo(); err != nil {
		return nil, err
	}
	if trimID(&in.ID) == "" {
		return nil, errRequired("id")
	}
	if in.Title.Set && (in.Title.Null || blank(in.Title.Value)) {
		return nil, errRequired("title")
	}
	if in.Status.Set {
		if in.Status.Null {
			return nil, errInvalid("status", "null")
		}
		if !oneOf(in.Status.Value, storage.TaskStatuses) {
			return nil, errInvalid("status", in.Status.Value)
		}
	}

	var (
		result        *TaskWithAssignees
		statusChanged bool
		changed       int
	)
	err = c.repo.Transaction(ctx, func(tx *storage.Repository) error {
		current, err := tx.GetTask(ctx, in.ID)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return c.storageError("get task", err, zap.String("task_id", in.ID))
		}

		fields := map[string]any{}
		if in.Title.Set {
			if title := normalizeText(in.Title.Value); title != current.Title {
				fields["title"] = title
			}
		}
		if in.Description.Set {
			next := in.Description.Ptr()
			if next != nil {
				next = normalizeTextPtr(next)
			}
			if !sameText(next, current.Description) {
				if next == nil {
					fields["description"] = nil
				} else {
					fields["description"] = *next
				}
			}
		}
		if in.Status.Set && in.Status.Value != current.Status {
			fields["status"] = in.Status.Value
			statusChanged = true
		}

		if len(fields) > 0 {
			changed = len(fields)
			if _, err := tx.UpdateTaskFields(ctx, in.ID, fields); err != nil {
				return c.storageError("update task", err, zap.String("task_id", in.ID))
			}
			activityType, message := storage.ActivityTypeTaskUpdated, "Task updated"
			if statusChanged {
				activityType, message = storage.ActivityTypeStatusChanged, fmt.Sprintf("Status changed to %s", in.Status.Value)
			}
			if _, err := c.recordActivity(ctx, tx, activityType, message, nil, &in.ID); err != nil {
				return err
			}
		}

		loaded, err := c.loadTask(ctx, tx, in.ID)
		if err != nil {
			return err
		}
		result = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		c.logger.Info("Task not found for update", zap.String("task_id", in.ID))
		return nil, nil
	}

	c.logger.Info("Task updated",
		zap.String("task_id", in.ID),
		zap.Int("changed_fields", changed),
		zap.Bool("status_changed", statusChanged),
	)
	return result, nil
}

// AssignTask는 에이전트들을 작업에 배정합니다. 이미 배정된 쌍은 무시됩니다.
func (c *Controller) AssignTask(ctx context.Context, in AssignTaskInput) (*TaskWithAssignees, error) {
	return c.changeAssignees(ctx, "tasks.assign", in, func(tx *storage.Repository, taskID string, ids []string) error {
		return tx.AddTaskAssignees(ctx, taskID, ids)
	})
}

// UnassignTask는 배정을 해제합니다. 없는 쌍은 무시됩니다.
func (c *Controller) UnassignTask(ctx context.Context, in AssignTaskInput) (*TaskWithAssignees, error) {
	return c.changeAssignees(ctx, "tasks.unassign", in, func(tx *storage.Repository, taskID string, ids []string) error {
		return tx.RemoveTaskAssignees(ctx, taskID, ids)
	})
}

// changeAssignees는 배정 변경 공통 흐름입니다. 작업의 updated_at을 갱신하고 활동은 남기지 않습니다.
func (c *Controller) changeAssignees(ctx context.Context, op string, in AssignTaskInput, apply func(tx *storage.Repository, taskID string, ids []string) error) (_ *TaskWithAssignees, err error) {
	ctx, end := c.begin(ctx, op, telemetry.AttrTaskID.String(in.ID))
	defer end(&err)

	if err := c.ensureRepo(); err != nil {
		return nil, err
	}
	if trimID(&in.ID) == "" {
		return nil, errRequired("id")
	}
	ids := cleanIDs(in.AgentIDs)
	if len(ids) == 0 {
		return nil, errRequired("agentIds")
	}

	var result *TaskWithAssignees
	err = c.repo.Transaction(ctx, func(tx *storage.Repository) error {
		ok, err := tx.TouchTask(ctx, in.ID)
		if err != nil {
			return c.storageError(op, err, zap.String("task_id", in.ID))
		}
		if !ok {
			return nil
		}
		if err := apply(tx, in.ID, ids); err != nil {
			return c.storageError(op, err, zap.String("task_id", in.ID))
		}
		loaded, err := c.loadTask(ctx, tx, in.ID)
		if err != nil {
			return err
		}
		result = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("Task assignees changed",
		zap.String("op", op),
		zap.String("task_id", in.ID),
		zap.Strings("agent_ids", ids),
		zap.Bool("found", result != nil),
	)
	return result, nil
}

// DeleteTask는 작업을 삭제합니다. 메시지, 감사 기록, 배정은 스키마에 따라 함께 삭제됩니다.
func (c *Controller) DeleteTask(ctx context.Context, in IDInput) (_ *DeleteResult, err error) {
	ctx, end := c.begin(ctx, "tasks.delete", telemetry.AttrTaskID.String(in.ID))
	defer end(&err)

	if err := c.ensureRepo(); err != nil {
		return nil, err
	}
	if trimID(&in.ID) == "" {
		return nil, errRequired("id")
	}
	deleted, err := c.repo.DeleteTask(ctx, in.ID)
	if err != nil {
		return nil, c.storageError("delete task", err, zap.String("task_id", in.ID))
	}

	c.logger.Info("Task deleted",
		zap.String("task_id", in.ID),
		zap.Bool("deleted", deleted),
	)
	return &DeleteResult{Deleted: deleted, ID: in.ID}, nil
}

func sameText(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
