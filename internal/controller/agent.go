package controller

import (
	"context"

	"github.com/cnap-oss/clawboard/internal/storage"
	"github.com/cnap-oss/clawboard/internal/telemetry"
	"go.uber.org/zap"
)

// ListAgents는 모든 에이전트를 최근 순으로 반환합니다.
func (c *Controller) ListAgents(ctx context.Context) (_ []storage.Agent, err error) {
	ctx, end := c.begin(ctx, "agents.list")
	defer end(&err)

	if err := c.ensureRepo(); err != nil {
		return nil, err
	}
	agents, err := c.repo.ListAgents(ctx)
	if err != nil {
		return nil, c.storageError("list agents", err)
	}
	c.logger.Debug("Listed agents", zap.Int("count", len(agents)))
	return agents, nil
}

// GetAgent는 식별자로 에이전트를 조회합니다. 없으면 nil을 반환합니다.
func (c *Controller) GetAgent(ctx context.Context, in IDInput) (_ *storage.Agent, err error) {
	ctx, end := c.begin(ctx, "agents.get", telemetry.AttrAgentID.String(in.ID))
	defer end(&err)

	if err := c.ensureRepo(); err != nil {
		return nil, err
	}
	if trimID(&in.ID) == "" {
		return nil, errRequired("id")
	}
	agent, err := c.repo.GetAgent(ctx, in.ID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, c.storageError("get agent", err, zap.String("agent_id", in.ID))
	}
	return agent, nil
}

// CreateAgent는 새로운 에이전트를 등록합니다.
func (c *Controller) CreateAgent(ctx context.Context, in CreateAgentInput) (_ *storage.Agent, err error) {
	ctx, end := c.begin(ctx, "agents.create")
	defer end(&err)

	if err := c.ensureRepo(); err != nil {
		return nil, err
	}
	if blank(in.Name) {
		return nil, errRequired("name")
	}
	status := in.Status
	if status == "" {
		status = storage.AgentStatusIdle
	}
	if !oneOf(status, storage.AgentStatuses) {
		return nil, errInvalid("status", status)
	}

	agent := &storage.Agent{
		Name:          normalizeText(in.Name),
		Role:          normalizeTextPtr(in.Role),
		Badge:         normalizeTextPtr(in.Badge),
		Avatar:        in.Avatar,
		Status:        status,
		CurrentTaskID: optionalRef(in.CurrentTaskID),
		SessionKey:    in.SessionKey,
	}
	if err := c.repo.CreateAgent(ctx, agent); err != nil {
		return nil, c.storageError("create agent", err)
	}

	created, err := c.repo.GetAgent(ctx, agent.ID)
	if err != nil {
		return nil, c.storageError("reload agent", err, zap.String("agent_id", agent.ID))
	}

	c.logger.Info("Agent created",
		zap.String("agent_id", created.ID),
		zap.String("name", created.Name),
	)
	return created, nil
}

// UpdateAgent는 입력에 포함된 필드만 갱신합니다. null은 선택 필드를 비웁니다.
// 에이전트가 없으면 nil을 반환합니다.
func (c *Controller) UpdateAgent(ctx context.Context, in UpdateAgentInput) (_ *storage.Agent, err error) {
	ctx, end := c.begin(ctx, "agents.update", telemetry.AttrAgentID.String(in.ID))
	defer end(&err)

	if err := c.ensureRepo(); err != nil {
		return nil, err
	}
	if trimID(&in.ID) == "" {
		return nil, errRequired("id")
	}

	fields := map[string]any{}
	if in.Name.Set {
		if in.Name.Null || blank(in.Name.Value) {
			return nil, errRequired("name")
		}
		fields["name"] = normalizeText(in.Name.Value)
	}
	if in.Role.Set {
		fields["role"] = nullable(in.Role, true)
	}
	if in.Badge.Set {
		fields["badge"] = nullable(in.Badge, true)
	}
	if in.Avatar.Set {
		fields["avatar"] = nullable(in.Avatar, false)
	}
	if in.Status.Set {
		if in.Status.Null {
			return nil, errInvalid("status", "null")
		}
		if !oneOf(in.Status.Value, storage.AgentStatuses) {
			return nil, errInvalid("status", in.Status.Value)
		}
		fields["status"] = in.Status.Value
	}
	if in.CurrentTaskID.Set {
		if ref := optionalRef(in.CurrentTaskID.Ptr()); ref != nil {
			fields["current_task_id"] = *ref
		} else {
			fields["current_task_id"] = nil
		}
	}
	if in.SessionKey.Set {
		fields["session_key"] = nullable(in.SessionKey, false)
	}
	if len(fields) == 0 {
		return nil, errNoFieldsToUpdate
	}

	ok, err := c.repo.UpdateAgentFields(ctx, in.ID, fields)
	if err != nil {
		return nil, c.storageError("update agent", err, zap.String("agent_id", in.ID))
	}
	if !ok {
		c.logger.Info("Agent not found for update", zap.String("agent_id", in.ID))
		return nil, nil
	}

	updated, err := c.repo.GetAgent(ctx, in.ID)
	if err != nil {
		return nil, c.storageError("reload agent", err, zap.String("agent_id", in.ID))
	}

	c.logger.Info("Agent updated",
		zap.String("agent_id", in.ID),
		zap.Int("fields", len(fields)),
	)
	return updated, nil
}

// DeleteAgent는 에이전트를 삭제합니다. 배정과 알림은 스키마에 따라 함께 정리됩니다.
func (c *Controller) DeleteAgent(ctx context.Context, in IDInput) (_ *DeleteResult, err error) {
	ctx, end := c.begin(ctx, "agents.delete", telemetry.AttrAgentID.String(in.ID))
	defer end(&err)

	if err := c.ensureRepo(); err != nil {
		return nil, err
	}
	if trimID(&in.ID) == "" {
		return nil, errRequired("id")
	}
	deleted, err := c.repo.DeleteAgent(ctx, in.ID)
	if err != nil {
		return nil, c.storageError("delete agent", err, zap.String("agent_id", in.ID))
	}

	c.logger.Info("Agent deleted",
		zap.String("agent_id", in.ID),
		zap.Bool("deleted", deleted),
	)
	return &DeleteResult{Deleted: deleted, ID: in.ID}, nil
}
