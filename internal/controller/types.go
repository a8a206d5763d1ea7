package controller

import "github.com/cnap-oss/clawboard/internal/storage"

// 입력 타입의 JSON 키는 명령 인자 형식(camelCase)을 따르고,
// 출력 행은 storage 모델의 snake_case 키를 그대로 사용합니다.

// CreateAgentInput은 에이전트 생성 입력입니다.
type CreateAgentInput struct {
	Name          string  `json:"name"`
	Role          *string `json:"role,omitempty"`
	Badge         *string `json:"badge,omitempty"`
	Avatar        *string `json:"avatar,omitempty"`
	Status        string  `json:"status,omitempty"`
	CurrentTaskID *string `json:"currentTaskId,omitempty"`
	SessionKey    *string `json:"sessionKey,omitempty"`
}

// UpdateAgentInput은 에이전트 부분 수정 입력입니다.
type UpdateAgentInput struct {
	ID            string           `json:"id"`
	Name          Optional[string] `json:"name"`
	Role          Optional[string] `json:"role"`
	Badge         Optional[string] `json:"badge"`
	Avatar        Optional[string] `json:"avatar"`
	Status        Optional[string] `json:"status"`
	CurrentTaskID Optional[string] `json:"currentTaskId"`
	SessionKey    Optional[string] `json:"sessionKey"`
}

// IDInput은 식별자 하나만 받는 작업의 입력입니다.
type IDInput struct {
	ID string `json:"id"`
}

// DeleteResult는 삭제 작업의 결과입니다.
type DeleteResult struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// CreateTaskInput은 작업 생성 입력입니다.
type CreateTaskInput struct {
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Status      string   `json:"status,omitempty"`
	AssigneeIDs []string `json:"assigneeIds,omitempty"`
}

// UpdateTaskInput은 작업 부분 수정 입력입니다.
type UpdateTaskInput struct {
	ID          string           `json:"id"`
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	Status      Optional[string] `json:"status"`
}

// AssignTaskInput은 배정/배정 해제 입력입니다.
type AssignTaskInput struct {
	ID       string   `json:"id"`
	AgentIDs []string `json:"agentIds"`
}

// TaskWithAssignees는 작업 행과 배정된 에이전트 목록입니다.
type TaskWithAssignees struct {
	storage.Task
	Assignees []storage.Agent `json:"assignees"`
}

// ListMessagesInput은 메시지 목록 조회 입력입니다.
type ListMessagesInput struct {
	TaskID string `json:"taskId,omitempty"`
}

// CreateMessageInput은 메시지 생성 입력입니다.
type CreateMessageInput struct {
	TaskID        string   `json:"taskId"`
	FromAgentID   *string  `json:"fromAgentId,omitempty"`
	Content       string   `json:"content"`
	AttachmentIDs []string `json:"attachmentIds,omitempty"`
}

// AttachToMessageInput은 메시지에 문서를 첨부하는 입력입니다.
type AttachToMessageInput struct {
	ID          string   `json:"id"`
	DocumentIDs []string `json:"documentIds"`
}

// MessageWithAttachments는 메시지 행과 첨부 문서 목록입니다.
type MessageWithAttachments struct {
	storage.Message
	Attachments []storage.Document `json:"attachments"`
}

// CreateDocumentInput은 문서 생성 입력입니다.
type CreateDocumentInput struct {
	Title   string  `json:"title"`
	Content *string `json:"content,omitempty"`
	Type    *string `json:"type,omitempty"`
	TaskID  *string `json:"taskId,omitempty"`
	AgentID *string `json:"agentId,omitempty"`
}

// ListAuditsInput은 감사 기록 목록 조회 입력입니다.
type ListAuditsInput struct {
	TaskID string `json:"taskId,omitempty"`
}

// CreateAuditInput은 감사 기록 생성 입력입니다.
type CreateAuditInput struct {
	TaskID      string  `json:"taskId"`
	ThreatLevel string  `json:"threatLevel,omitempty"`
	Content     *string `json:"content,omitempty"`
}

// CreateActivityInput은 활동 기록 입력입니다.
type CreateActivityInput struct {
	Type    string  `json:"type"`
	Message string  `json:"message"`
	AgentID *string `json:"agentId,omitempty"`
	TaskID  *string `json:"taskId,omitempty"`
}

// ListNotificationsInput은 알림 목록 조회 입력입니다.
type ListNotificationsInput struct {
	AgentID     string `json:"agentId,omitempty"`
	Undelivered bool   `json:"undelivered,omitempty"`
	OldestFirst bool   `json:"oldestFirst,omitempty"`
	AfterID     string `json:"afterId,omitempty"`
	Limit       int    `json:"limit,omitempty"`
}

// CreateNotificationInput은 알림 생성 입력입니다.
type CreateNotificationInput struct {
	MentionedAgentID string `json:"mentionedAgentId"`
	Content          string `json:"content"`
}
