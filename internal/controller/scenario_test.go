package controller_test

import (
	"context"
	"testing"

	"github.com/cnap-oss/clawboard/internal/controller"
	"github.com/cnap-oss/clawboard/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 에이전트 등록부터 감사까지 한 작업의 전체 흐름
func TestBoardLifecycle(t *testing.T) {
	ctrl, repo := newTestController(t)
	ctx := context.Background()

	aria, err := ctrl.CreateAgent(ctx, controller.CreateAgentInput{Name: "Aria"})
	require.NoError(t, err)
	assert.Equal(t, storage.AgentStatusIdle, aria.Status)

	task, err := ctrl.CreateTask(ctx, controller.CreateTaskInput{
		Title:       "Ship v1",
		AssigneeIDs: []string{aria.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, storage.TaskStatusInbox, task.Status)
	require.Len(t, task.Assignees, 1)
	assert.Equal(t, aria.ID, task.Assignees[0].ID)

	count, err := repo.CountActivities(ctx, storage.ActivityTypeTaskCreated)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	updated, err := ctrl.UpdateTask(ctx, controller.UpdateTaskInput{
		ID:     task.ID,
		Status: controller.Some(storage.TaskStatusInProgress),
	})
	require.NoError(t, err)
	assert.Equal(t, storage.TaskStatusInProgress, updated.Status)

	count, err = repo.CountActivities(ctx, storage.ActivityTypeStatusChanged)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	count, err = repo.CountActivities(ctx, storage.ActivityTypeTaskUpdated)
	require.NoError(t, err)
	assert.Zero(t, count)

	doc, err := ctrl.CreateDocument(ctx, controller.CreateDocumentInput{
		Title:  "Release checklist",
		Type:   strPtr(storage.DocumentTypeDeliverable),
		TaskID: &task.ID,
	})
	require.NoError(t, err)

	msg, err := ctrl.CreateMessage(ctx, controller.CreateMessageInput{
		TaskID:      task.ID,
		FromAgentID: &aria.ID,
		Content:     "LGTM",
	})
	require.NoError(t, err)

	msg, err = ctrl.AttachToMessage(ctx, controller.AttachToMessageInput{ID: msg.ID, DocumentIDs: []string{doc.ID}})
	require.NoError(t, err)
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, doc.ID, msg.Attachments[0].ID)

	_, err = ctrl.CreateAudit(ctx, controller.CreateAuditInput{TaskID: task.ID, ThreatLevel: storage.ThreatLevelWarning})
	require.NoError(t, err)

	activities, err := ctrl.ListActivities(ctx)
	require.NoError(t, err)

	// 문서 생성도 타임라인에 남는다
	assert.Equal(t, []string{
		storage.ActivityTypeAuditCompleted,
		storage.ActivityTypeMessageSent,
		storage.ActivityTypeDocumentCreated,
		storage.ActivityTypeStatusChanged,
		storage.ActivityTypeTaskCreated,
	}, activityTypes(t, ctrl))
	assert.Contains(t, activities[0].Message, "warning")

	for i := 1; i < len(activities); i++ {
		assert.False(t, activities[i].CreatedAt.After(activities[i-1].CreatedAt))
	}
}
