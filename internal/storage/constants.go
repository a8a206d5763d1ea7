package storage

const (
	AgentStatusIdle    = "idle"
	AgentStatusActive  = "active"
	AgentStatusBlocked = "blocked"

	TaskStatusInbox      = "inbox"
	TaskStatusAssigned   = "assigned"
	TaskStatusInProgress = "in_progress"
	TaskStatusReview     = "review"
	TaskStatusDone       = "done"

	DocumentTypeDeliverable = "deliverable"
	DocumentTypeResearch    = "research"
	DocumentTypeProtocol    = "protocol"

	ThreatLevelSafe     = "safe"
	ThreatLevelWarning  = "warning"
	ThreatLevelCritical = "critical"

	ActivityTypeTaskCreated     = "task_created"
	ActivityTypeTaskUpdated     = "task_updated"
	ActivityTypeStatusChanged   = "status_changed"
	ActivityTypeMessageSent     = "message_sent"
	ActivityTypeDocumentCreated = "document_created"
	ActivityTypeAuditCompleted  = "audit_completed"
)

// 열거형 값 목록. 입력 검증과 CLI 스키마에서 공유합니다.
var (
	AgentStatuses = []string{AgentStatusIdle, AgentStatusActive, AgentStatusBlocked}

	TaskStatuses = []string{
		TaskStatusInbox,
		TaskStatusAssigned,
		TaskStatusInProgress,
		TaskStatusReview,
		TaskStatusDone,
	}

	DocumentTypes = []string{DocumentTypeDeliverable, DocumentTypeResearch, DocumentTypeProtocol}

	ThreatLevels = []string{ThreatLevelSafe, ThreatLevelWarning, ThreatLevelCritical}

	ActivityTypes = []string{
		ActivityTypeTaskCreated,
		ActivityTypeTaskUpdated,
		ActivityTypeStatusChanged,
		ActivityTypeMessageSent,
		ActivityTypeDocumentCreated,
		ActivityTypeAuditCompleted,
	}
)
