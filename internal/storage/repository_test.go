package storage_test

import (
	"context"
	"testing"

	"github.com/cnap-oss/clawboard/internal/storage"
	"github.com/cnap-oss/clawboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func TestNewRepositoryRequiresDB(t *testing.T) {
	_, err := storage.NewRepository(nil)
	require.Error(t, err)
}

func TestAgentCRUD(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	ctx := context.Background()

	agent := &storage.Agent{Name: "Aria", Status: storage.AgentStatusIdle, Role: strPtr("lead")}
	require.NoError(t, repo.CreateAgent(ctx, agent))
	require.NotEmpty(t, agent.ID)

	got, err := repo.GetAgent(ctx, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, "Aria", got.Name)
	assert.Equal(t, "lead", *got.Role)
	assert.Nil(t, got.Badge)

	ok, err := repo.UpdateAgentFields(ctx, agent.ID, map[string]any{"role": nil, "status": storage.AgentStatusActive})
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = repo.GetAgent(ctx, agent.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Role)
	assert.Equal(t, storage.AgentStatusActive, got.Status)
	assert.True(t, got.UpdatedAt.After(agent.UpdatedAt))

	ok, err = repo.UpdateAgentFields(ctx, "missing", map[string]any{"name": "x"})
	require.NoError(t, err)
	assert.False(t, ok)

	deleted, err := repo.DeleteAgent(ctx, agent.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteAgent(ctx, agent.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = repo.GetAgent(ctx, agent.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListOrderNewestFirst(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	ctx := context.Background()

	var ids []string
	for _, title := range []string{"one", "two", "three"} {
		task := &storage.Task{Title: title, Status: storage.TaskStatusInbox}
		require.NoError(t, repo.CreateTask(ctx, task))
		ids = append(ids, task.ID)
	}

	tasks, err := repo.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{tasks[0].ID, tasks[1].ID, tasks[2].ID})
}

func TestTaskAssigneesAreASet(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	ctx := context.Background()

	agent := &storage.Agent{Name: "Aria", Status: storage.AgentStatusIdle}
	require.NoError(t, repo.CreateAgent(ctx, agent))
	task := &storage.Task{Title: "Ship v1", Status: storage.TaskStatusInbox}
	require.NoError(t, repo.CreateTask(ctx, task))

	require.NoError(t, repo.AddTaskAssignees(ctx, task.ID, []string{agent.ID, agent.ID}))
	require.NoError(t, repo.AddTaskAssignees(ctx, task.ID, []string{agent.ID}))

	count, err := repo.CountTaskAssignees(ctx, task.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	grouped, err := repo.ListAssigneesByTasks(ctx, []string{task.ID})
	require.NoError(t, err)
	require.Len(t, grouped[task.ID], 1)
	assert.Equal(t, "Aria", grouped[task.ID][0].Name)

	require.NoError(t, repo.RemoveTaskAssignees(ctx, task.ID, []string{agent.ID, "unknown"}))
	count, err = repo.CountTaskAssignees(ctx, task.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAssigneeInsertRejectsUnknownAgent(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	ctx := context.Background()

	task := &storage.Task{Title: "Orphan", Status: storage.TaskStatusInbox}
	require.NoError(t, repo.CreateTask(ctx, task))

	err := repo.AddTaskAssignees(ctx, task.ID, []string{"no-such-agent"})
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrInvalidReference)
}

func TestDeleteCascadesToRelations(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	ctx := context.Background()

	agent := &storage.Agent{Name: "Aria", Status: storage.AgentStatusIdle}
	require.NoError(t, repo.CreateAgent(ctx, agent))
	task := &storage.Task{Title: "Ship v1", Status: storage.TaskStatusInbox}
	require.NoError(t, repo.CreateTask(ctx, task))
	require.NoError(t, repo.AddTaskAssignees(ctx, task.ID, []string{agent.ID}))

	doc := &storage.Document{Title: "Brief", TaskID: &task.ID, AgentID: &agent.ID}
	require.NoError(t, repo.CreateDocument(ctx, doc))
	msg := &storage.Message{TaskID: task.ID, FromAgentID: &agent.ID, Content: "LGTM"}
	require.NoError(t, repo.CreateMessage(ctx, msg))
	require.NoError(t, repo.AddMessageAttachments(ctx, msg.ID, []string{doc.ID}))

	deleted, err := repo.DeleteAgent(ctx, agent.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	count, err := repo.CountTaskAssignees(ctx, task.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	gotMsg, err := repo.GetMessage(ctx, msg.ID)
	require.NoError(t, err)
	assert.Nil(t, gotMsg.FromAgentID)

	gotDoc, err := repo.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Nil(t, gotDoc.AgentID)

	deleted, err = repo.DeleteTask(ctx, task.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	_, err = repo.GetMessage(ctx, msg.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	gotDoc, err = repo.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Nil(t, gotDoc.TaskID)
}

func TestMessageListingAndAttachments(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	ctx := context.Background()

	task := &storage.Task{Title: "Thread", Status: storage.TaskStatusInbox}
	require.NoError(t, repo.CreateTask(ctx, task))
	other := &storage.Task{Title: "Other", Status: storage.TaskStatusInbox}
	require.NoError(t, repo.CreateTask(ctx, other))

	first := &storage.Message{TaskID: task.ID, Content: "first"}
	second := &storage.Message{TaskID: task.ID, Content: "second"}
	third := &storage.Message{TaskID: other.ID, Content: "elsewhere"}
	for _, m := range []*storage.Message{first, second, third} {
		require.NoError(t, repo.CreateMessage(ctx, m))
	}

	byTask, err := repo.ListMessages(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, byTask, 2)
	assert.Equal(t, first.ID, byTask[0].ID)
	assert.Equal(t, second.ID, byTask[1].ID)

	all, err := repo.ListMessages(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, third.ID, all[0].ID)

	doc := &storage.Document{Title: "Report"}
	require.NoError(t, repo.CreateDocument(ctx, doc))
	require.NoError(t, repo.AddMessageAttachments(ctx, first.ID, []string{doc.ID, doc.ID}))
	require.NoError(t, repo.AddMessageAttachments(ctx, first.ID, []string{doc.ID}))

	grouped, err := repo.ListAttachmentsByMessages(ctx, []string{first.ID, second.ID})
	require.NoError(t, err)
	require.Len(t, grouped[first.ID], 1)
	assert.Equal(t, "Report", grouped[first.ID][0].Title)
	assert.Empty(t, grouped[second.ID])
}

func TestNotificationsFilterAndDeliver(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	ctx := context.Background()

	a := &storage.Agent{Name: "A", Status: storage.AgentStatusIdle}
	b := &storage.Agent{Name: "B", Status: storage.AgentStatusIdle}
	require.NoError(t, repo.CreateAgent(ctx, a))
	require.NoError(t, repo.CreateAgent(ctx, b))

	na := &storage.Notification{MentionedAgentID: a.ID, Content: "ping a"}
	nb := &storage.Notification{MentionedAgentID: b.ID, Content: "ping b"}
	require.NoError(t, repo.CreateNotification(ctx, na))
	require.NoError(t, repo.CreateNotification(ctx, nb))

	forA, err := repo.ListNotifications(ctx, storage.NotificationFilter{AgentID: a.ID})
	require.NoError(t, err)
	require.Len(t, forA, 1)
	assert.False(t, forA[0].Delivered)

	ok, err := repo.MarkNotificationDelivered(ctx, na.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.MarkNotificationDelivered(ctx, na.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	pending, err := repo.ListNotifications(ctx, storage.NotificationFilter{Undelivered: true})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, nb.ID, pending[0].ID)

	ok, err = repo.MarkNotificationDelivered(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTransactionRollsBack(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	ctx := context.Background()

	err := repo.Transaction(ctx, func(tx *storage.Repository) error {
		task := &storage.Task{Title: "Doomed", Status: storage.TaskStatusInbox}
		if err := tx.CreateTask(ctx, task); err != nil {
			return err
		}
		return tx.AddTaskAssignees(ctx, task.ID, []string{"no-such-agent"})
	})
	require.Error(t, err)

	tasks, err := repo.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestActivitiesSince(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	ctx := context.Background()

	first := &storage.Activity{Type: storage.ActivityTypeTaskCreated, Message: "first"}
	require.NoError(t, repo.CreateActivity(ctx, first))
	second := &storage.Activity{Type: storage.ActivityTypeTaskUpdated, Message: "second"}
	require.NoError(t, repo.CreateActivity(ctx, second))

	since, err := repo.ListActivitiesSince(ctx, first.CreatedAt)
	require.NoError(t, err)
	require.Len(t, since, 1)
	assert.Equal(t, second.ID, since[0].ID)

	count, err := repo.CountActivities(ctx, storage.ActivityTypeTaskCreated)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestNotificationsPageAfterCursor(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	ctx := context.Background()

	agent := &storage.Agent{Name: "Aria", Status: storage.AgentStatusIdle}
	require.NoError(t, repo.CreateAgent(ctx, agent))

	var ids []string
	for _, content := range []string{"one", "two", "three"} {
		n := &storage.Notification{MentionedAgentID: agent.ID, Content: content}
		require.NoError(t, repo.CreateNotification(ctx, n))
		ids = append(ids, n.ID)
	}

	page, err := repo.ListNotifications(ctx, storage.NotificationFilter{OldestFirst: true, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, []string{ids[0], ids[1]}, []string{page[0].ID, page[1].ID})

	page, err = repo.ListNotifications(ctx, storage.NotificationFilter{OldestFirst: true, Limit: 2, AfterID: page[1].ID})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[2], page[0].ID)

	page, err = repo.ListNotifications(ctx, storage.NotificationFilter{AfterID: ids[2]})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, []string{ids[1], ids[0]}, []string{page[0].ID, page[1].ID})
}
