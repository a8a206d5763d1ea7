package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"
)

// CreateMessage는 새로운 메시지를 추가합니다.
func (r *Repository) CreateMessage(ctx context.Context, msg *Message) error {
	if msg == nil {
		return fmt.Errorf("storage: nil message payload")
	}
	if msg.ID == "" {
		msg.ID = newID()
	}
	return translateError(r.db.WithContext(ctx).Create(msg).Error)
}

// GetMessage는 식별자로 메시지를 조회합니다.
func (r *Repository) GetMessage(ctx context.Context, id string) (*Message, error) {
	if id == "" {
		return nil, fmt.Errorf("storage: empty message id")
	}
	var msg Message
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListMessages는 taskID가 주어지면 해당 작업의 메시지를 오래된 순으로,
// 아니면 전체 메시지를 최근 순으로 반환합니다.
func (r *Repository) ListMessages(ctx context.Context, taskID string) ([]Message, error) {
	q := r.db.WithContext(ctx).Model(&Message{})
	if taskID != "" {
		q = q.Where("task_id = ?", taskID).Order(oldestFirst)
	} else {
		q = q.Order(newestFirst)
	}
	messages := []Message{}
	if err := q.Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// AddMessageAttachments는 (message, document) 쌍을 첨부 집합에 추가합니다. 이미 있는 쌍은 무시됩니다.
func (r *Repository) AddMessageAttachments(ctx context.Context, messageID string, documentIDs []string) error {
	if messageID == "" {
		return fmt.Errorf("storage: empty message id")
	}
	ids := uniqueStrings(documentIDs)
	if len(ids) == 0 {
		return nil
	}
	rows := make([]MessageAttachment, 0, len(ids))
	for _, docID := range ids {
		rows = append(rows, MessageAttachment{MessageID: messageID, DocumentID: docID})
	}
	return translateError(r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "message_id"}, {Name: "document_id"}},
			DoNothing: true,
		}).
		Create(&rows).Error)
}

type attachmentRow struct {
	MessageID string   `gorm:"column:attached_message_id"`
	Document  Document `gorm:"embedded"`
}

// ListAttachmentsByMessages는 주어진 메시지들의 첨부 문서를 IN 쿼리 한 번으로 조회해 메시지별로 묶습니다.
func (r *Repository) ListAttachmentsByMessages(ctx context.Context, messageIDs []string) (map[string][]Document, error) {
	grouped := make(map[string][]Document, len(messageIDs))
	ids := uniqueStrings(messageIDs)
	if len(ids) == 0 {
		return grouped, nil
	}

	var rows []attachmentRow
	if err := r.db.WithContext(ctx).
		Table("message_attachments").
		Select("message_attachments.message_id AS attached_message_id, documents.*").
		Joins("INNER JOIN documents ON documents.id = message_attachments.document_id").
		Where("message_attachments.message_id IN ?", ids).
		Order("documents.created_at ASC, documents.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		grouped[row.MessageID] = append(grouped[row.MessageID], row.Document)
	}
	return grouped, nil
}
