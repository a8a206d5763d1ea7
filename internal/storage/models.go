package storage

import "time"

// Agent는 agents 테이블 레코드를 나타냅니다.
type Agent struct {
	ID            string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Name          string    `gorm:"column:name;type:text;not null" json:"name"`
	Role          *string   `gorm:"column:role;type:text" json:"role"`
	Badge         *string   `gorm:"column:badge;type:text" json:"badge"`
	Avatar        *string   `gorm:"column:avatar;type:text" json:"avatar"`
	Status        string    `gorm:"column:status;type:varchar(16);not null;default:'idle'" json:"status"`
	CurrentTaskID *string   `gorm:"column:current_task_id;type:varchar(36)" json:"current_task_id"`
	SessionKey    *string   `gorm:"column:session_key;type:text" json:"session_key"`
	CreatedAt     time.Time `gorm:"column:created_at;not null;autoCreateTime;index:idx_agents_created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;not null;autoUpdateTime" json:"updated_at"`
}

// TableName은 gorm Tabler 인터페이스를 구현합니다.
func (Agent) TableName() string {
	return "agents"
}

// Task는 tasks 테이블 레코드를 나타냅니다.
type Task struct {
	ID          string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Title       string    `gorm:"column:title;type:text;not null" json:"title"`
	Description *string   `gorm:"column:description;type:text" json:"description"`
	Status      string    `gorm:"column:status;type:varchar(16);not null;default:'inbox'" json:"status"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;autoCreateTime;index:idx_tasks_created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null;autoUpdateTime" json:"updated_at"`
}

// TableName은 gorm Tabler 인터페이스를 구현합니다.
func (Task) TableName() string {
	return "tasks"
}

// TaskAssignee는 작업과 에이전트 사이의 배정 관계입니다. (task_id, agent_id) 쌍은 유일합니다.
type TaskAssignee struct {
	TaskID  string `gorm:"column:task_id;type:varchar(36);primaryKey"`
	AgentID string `gorm:"column:agent_id;type:varchar(36);primaryKey;index:idx_task_assignees_agent"`

	Task  *Task  `gorm:"foreignKey:TaskID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Agent *Agent `gorm:"foreignKey:AgentID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName은 gorm Tabler 인터페이스를 구현합니다.
func (TaskAssignee) TableName() string {
	return "task_assignees"
}

// Message는 작업에 남겨진 메시지입니다. 생성 후 수정되지 않습니다.
type Message struct {
	ID          string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	TaskID      string    `gorm:"column:task_id;type:varchar(36);not null;index:idx_messages_task" json:"task_id"`
	FromAgentID *string   `gorm:"column:from_agent_id;type:varchar(36);index:idx_messages_from_agent" json:"from_agent_id"`
	Content     string    `gorm:"column:content;type:text;not null" json:"content"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;autoCreateTime;index:idx_messages_created_at" json:"created_at"`

	Task      *Task  `gorm:"foreignKey:TaskID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	FromAgent *Agent `gorm:"foreignKey:FromAgentID;references:ID;constraint:OnDelete:SET NULL" json:"-"`
}

// TableName은 gorm Tabler 인터페이스를 구현합니다.
func (Message) TableName() string {
	return "messages"
}

// MessageAttachment는 메시지와 문서 사이의 첨부 관계입니다.
type MessageAttachment struct {
	MessageID  string `gorm:"column:message_id;type:varchar(36);primaryKey"`
	DocumentID string `gorm:"column:document_id;type:varchar(36);primaryKey;index:idx_message_attachments_document"`

	Message  *Message  `gorm:"foreignKey:MessageID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Document *Document `gorm:"foreignKey:DocumentID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName은 gorm Tabler 인터페이스를 구현합니다.
func (MessageAttachment) TableName() string {
	return "message_attachments"
}

// Document는 documents 테이블 레코드를 나타냅니다.
type Document struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Title     string    `gorm:"column:title;type:text;not null" json:"title"`
	Content   *string   `gorm:"column:content;type:text" json:"content"`
	Type      *string   `gorm:"column:type;type:varchar(16)" json:"type"`
	TaskID    *string   `gorm:"column:task_id;type:varchar(36);index:idx_documents_task" json:"task_id"`
	AgentID   *string   `gorm:"column:agent_id;type:varchar(36);index:idx_documents_agent" json:"agent_id"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime;index:idx_documents_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime" json:"updated_at"`

	Task  *Task  `gorm:"foreignKey:TaskID;references:ID;constraint:OnDelete:SET NULL" json:"-"`
	Agent *Agent `gorm:"foreignKey:AgentID;references:ID;constraint:OnDelete:SET NULL" json:"-"`
}

// TableName은 gorm Tabler 인터페이스를 구현합니다.
func (Document) TableName() string {
	return "documents"
}

// Audit는 작업 감사 기록입니다.
type Audit struct {
	ID          string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	TaskID      string    `gorm:"column:task_id;type:varchar(36);not null;index:idx_audits_task" json:"task_id"`
	ThreatLevel string    `gorm:"column:threat_level;type:varchar(16);not null;default:'safe'" json:"threat_level"`
	Content     *string   `gorm:"column:content;type:text" json:"content"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;autoCreateTime;index:idx_audits_created_at" json:"created_at"`

	Task *Task `gorm:"foreignKey:TaskID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName은 gorm Tabler 인터페이스를 구현합니다.
func (Audit) TableName() string {
	return "audits"
}

// Activity는 타임라인 항목입니다. 참조 대상이 삭제되어도 남아 있어야 하므로 외래 키를 두지 않습니다.
type Activity struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Type      string    `gorm:"column:type;type:varchar(32);not null" json:"type"`
	AgentID   *string   `gorm:"column:agent_id;type:varchar(36);index:idx_activities_agent" json:"agent_id"`
	TaskID    *string   `gorm:"column:task_id;type:varchar(36);index:idx_activities_task" json:"task_id"`
	Message   string    `gorm:"column:message;type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime;index:idx_activities_created_at" json:"created_at"`
}

// TableName은 gorm Tabler 인터페이스를 구현합니다.
func (Activity) TableName() string {
	return "activities"
}

// Notification은 에이전트 멘션 알림입니다.
type Notification struct {
	ID               string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	MentionedAgentID string    `gorm:"column:mentioned_agent_id;type:varchar(36);not null;index:idx_notifications_agent" json:"mentioned_agent_id"`
	Content          string    `gorm:"column:content;type:text;not null" json:"content"`
	Delivered        bool      `gorm:"column:delivered;not null;default:false;index:idx_notifications_delivered" json:"delivered"`
	CreatedAt        time.Time `gorm:"column:created_at;not null;autoCreateTime;index:idx_notifications_created_at" json:"created_at"`

	MentionedAgent *Agent `gorm:"foreignKey:MentionedAgentID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName은 gorm Tabler 인터페이스를 구현합니다.
func (Notification) TableName() string {
	return "notifications"
}

// AllModels는 AutoMigrate 대상 모델 목록입니다.
func AllModels() []any {
	return []any{
		&Agent{},
		&Task{},
		&TaskAssignee{},
		&Document{},
		&Message{},
		&MessageAttachment{},
		&Audit{},
		&Activity{},
		&Notification{},
	}
}
