package controller_test

import (
	"context"
	"testing"

	"github.com/cnap-oss/clawboard/internal/controller"
	"github.com/cnap-oss/clawboard/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControllerCreateAndGetAgent(t *testing.T) {
	ctrl, _ := newTestController(t)
	ctx := context.Background()

	agent, err := ctrl.CreateAgent(ctx, controller.CreateAgentInput{
		Name:  "Aria",
		Role:  strPtr("Lead"),
		Badge: strPtr("LEAD"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, agent.ID)
	assert.Equal(t, storage.AgentStatusIdle, agent.Status)
	assert.Nil(t, agent.Avatar)
	assert.Nil(t, agent.CurrentTaskID)

	got, err := ctrl.GetAgent(ctx, controller.IDInput{ID: agent.ID})
	require.NoError(t, err)
	assert.Equal(t, agent, got)

	missing, err := ctrl.GetAgent(ctx, controller.IDInput{ID: "missing"})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestControllerCreateAgentNormalizesName(t *testing.T) {
	ctrl, _ := newTestController(t)

	agent, err := ctrl.CreateAgent(context.Background(), controller.CreateAgentInput{Name: "\u1112\u1161\u11ab"})
	require.NoError(t, err)
	assert.Equal(t, "\ud55c", agent.Name)
}

func TestControllerListAgentsNewestFirst(t *testing.T) {
	ctrl, _ := newTestController(t)
	ctx := context.Background()

	first, err := ctrl.CreateAgent(ctx, controller.CreateAgentInput{Name: "first"})
	require.NoError(t, err)
	second, err := ctrl.CreateAgent(ctx, controller.CreateAgentInput{Name: "second"})
	require.NoError(t, err)

	agents, err := ctrl.ListAgents(ctx)
	require.NoError(t, err)
	require.Len(t, agents, 2)
	assert.Equal(t, second.ID, agents[0].ID)
	assert.Equal(t, first.ID, agents[1].ID)
}

func TestControllerUpdateAgentTriState(t *testing.T) {
	ctrl, _ := newTestController(t)
	ctx := context.Background()

	agent, err := ctrl.CreateAgent(ctx, controller.CreateAgentInput{
		Name:       "Aria",
		Role:       strPtr("Lead"),
		SessionKey: strPtr("sess-1"),
	})
	require.NoError(t, err)

	updated, err := ctrl.UpdateAgent(ctx, controller.UpdateAgentInput{
		ID:     agent.ID,
		Role:   controller.Null[string](),
		Status: controller.Some(storage.AgentStatusActive),
	})
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Nil(t, updated.Role)
	assert.Equal(t, storage.AgentStatusActive, updated.Status)
	assert.Equal(t, "Aria", updated.Name)
	require.NotNil(t, updated.SessionKey)
	assert.Equal(t, "sess-1", *updated.SessionKey)
	assert.True(t, updated.UpdatedAt.After(agent.UpdatedAt))
}

func TestControllerUpdateAgentRejectsUnknownStatus(t *testing.T) {
	ctrl, _ := newTestController(t)

	_, err := ctrl.UpdateAgent(context.Background(), controller.UpdateAgentInput{
		ID:     "a-1",
		Status: controller.Some("asleep"),
	})
	require.Error(t, err)
	assert.EqualError(t, err, "invalid status: asleep")
}

func TestControllerUpdateMissingAgentReturnsNil(t *testing.T) {
	ctrl, _ := newTestController(t)

	updated, err := ctrl.UpdateAgent(context.Background(), controller.UpdateAgentInput{
		ID:   "missing",
		Name: controller.Some("Ghost"),
	})
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestControllerDeleteAgent(t *testing.T) {
	ctrl, _ := newTestController(t)
	ctx := context.Background()

	agent, err := ctrl.CreateAgent(ctx, controller.CreateAgentInput{Name: "Aria"})
	require.NoError(t, err)

	res, err := ctrl.DeleteAgent(ctx, controller.IDInput{ID: agent.ID})
	require.NoError(t, err)
	assert.Equal(t, &controller.DeleteResult{Deleted: true, ID: agent.ID}, res)

	res, err = ctrl.DeleteAgent(ctx, controller.IDInput{ID: agent.ID})
	require.NoError(t, err)
	assert.False(t, res.Deleted)

	agents, err := ctrl.ListAgents(ctx)
	require.NoError(t, err)
	assert.Empty(t, agents)
}

func TestControllerTrimsIdentifiers(t *testing.T) {
	ctrl, _ := newTestController(t)
	ctx := context.Background()

	agent, err := ctrl.CreateAgent(ctx, controller.CreateAgentInput{Name: "Aria"})
	require.NoError(t, err)
	padded := "  " + agent.ID + " "

	got, err := ctrl.GetAgent(ctx, controller.IDInput{ID: padded})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, agent.ID, got.ID)

	task, err := ctrl.CreateTask(ctx, controller.CreateTaskInput{Title: "Ship v1"})
	require.NoError(t, err)

	assigned, err := ctrl.AssignTask(ctx, controller.AssignTaskInput{ID: " " + task.ID, AgentIDs: []string{padded}})
	require.NoError(t, err)
	require.NotNil(t, assigned)
	require.Len(t, assigned.Assignees, 1)

	updated, err := ctrl.UpdateTask(ctx, controller.UpdateTaskInput{ID: task.ID + "\t", Status: controller.Some(storage.TaskStatusReview)})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, storage.TaskStatusReview, updated.Status)

	msg, err := ctrl.CreateMessage(ctx, controller.CreateMessageInput{TaskID: " " + task.ID + " ", Content: "hi"})
	require.NoError(t, err)
	assert.Equal(t, task.ID, msg.TaskID)

	result, err := ctrl.DeleteAgent(ctx, controller.IDInput{ID: padded})
	require.NoError(t, err)
	assert.Equal(t, &controller.DeleteResult{Deleted: true, ID: agent.ID}, result)
}
