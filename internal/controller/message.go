package controller

import (
	"context"

	"github.com/cnap-oss/clawboard/internal/storage"
	"github.com/cnap-oss/clawboard/internal/telemetry"
	"go.uber.org/zap"
)

// ListMessages는 메시지를 첨부 문서와 함께 반환합니다.
// taskId가 있으면 해당 작업의 메시지를 오래된 순으로, 없으면 전체를 최근 순으로 반환합니다.
func (c *Controller) ListMessages(ctx context.Context, in ListMessagesInput) (_ []MessageWithAttachments, err error) {
	ctx, end := c.begin(ctx, "messages.list", telemetry.AttrTaskID.String(in.TaskID))
	defer end(&err)

	if err := c.ensureRepo(); err != nil {
		return nil, err
	}
	trimID(&in.TaskID)
	messages, err := c.repo.ListMessages(ctx, in.TaskID)
	if err != nil {
		return nil, c.storageError("list messages", err, zap.String("task_id", in.TaskID))
	}
	result, err := c.withAttachments(ctx, c.repo, messages)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Listed messages",
		zap.String("task_id", in.TaskID),
		zap.Int("count", len(result)),
	)
	return result, nil
}

// GetMessage는 메시지 하나를 첨부 문서와 함께 반환합니다. 없으면 nil입니다.
func (c *Controller) GetMessage(ctx context.Context, in IDInput) (_ *MessageWithAttachments, err error) {
	ctx, end := c.begin(ctx, "messages.get", telemetry.AttrMessageID.String(in.ID))
	defer end(&err)

	if err := c.ensureRepo(); err != nil {
		return nil, err
	}
	if trimID(&in.ID) == "" {
		return nil, errRequired("id")
	}
	return c.loadMessage(ctx, c.repo, in.ID)
}

// withAttachments는 메시지 목록의 첨부 문서를 한 번의 IN 쿼리로 채웁니다.
func (c *Controller) withAttachments(ctx context.Context, repo *storage.Repository, messages []storage.Message) ([]MessageWithAttachments, error) {
	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.ID)
	}
	grouped, err := repo.ListAttachmentsByMessages(ctx, ids)
	if err != nil {
		return nil, c.storageError("list attachments", err)
	}

	result := make([]MessageWithAttachments, 0, len(messages))
	for _, m := range messages {
		docs := grouped[m.ID]
		if docs == nil {
			docs = []storage.Document{}
		}
		result = append(result, MessageWithAttachments{Message: m, Attachments: docs})
	}
	return result, nil
}

func (c *Controller) loadMessage(ctx context.Context, repo *storage.Repository, id string) (*MessageWithAttachments, error) {
	msg, err := repo.GetMessage(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, c.storageError("get message", err, zap.String("message_id", id))
	}
	loaded, err := c.withAttachments(ctx, repo, []storage.Message{*msg})
	if err != nil {
		return nil, err
	}
	return &loaded[0], nil
}

// CreateMessage는 메시지를 기록하고 첨부 문서를 연결한 뒤 message_sent 활동을 남깁니다.
func (c *Controller) CreateMessage(ctx context.Context, in CreateMessageInput) (_ *MessageWithAttachments, err error) {
	ctx, end := c.begin(ctx, "messages.create",
		telemetry.AttrTaskID.String(in.TaskID),
		telemetry.AttrAgentID.String(strValue(in.FromAgentID)),
	)
	defer end(&err)

	if err := c.ensureRepo(); err != nil {
		return nil, err
	}
	if trimID(&in.TaskID) == "" {
		return nil, errRequired("taskId")
	}
	if blank(in.Content) {
		return nil, errRequired("content")
	}

	msg := &storage.Message{
		TaskID:      in.TaskID,
		FromAgentID: optionalRef(in.FromAgentID),
		Content:     normalizeText(in.Content),
	}
	attachments := cleanIDs(in.AttachmentIDs)

	var result *MessageWithAttachments
	err = c.repo.Transaction(ctx, func(tx *storage.Repository) error {
		if err := tx.CreateMessage(ctx, msg); err != nil {
			return c.storageError("create message", err, zap.String("task_id", in.TaskID))
		}
		if err := tx.AddMessageAttachments(ctx, msg.ID, attachments); err != nil {
			return c.storageError("attach documents", err, zap.String("message_id", msg.ID))
		}
		if _, err := c.recordActivity(ctx, tx, storage.ActivityTypeMessageSent, "Message sent", msg.FromAgentID, &msg.TaskID); err != nil {
			return err
		}
		loaded, err := c.loadMessage(ctx, tx, msg.ID)
		if err != nil {
			return err
		}
		result = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("Message sent",
		zap.String("message_id", msg.ID),
		zap.String("task_id", msg.TaskID),
		zap.Int("attachments", len(result.Attachments)),
	)
	return result, nil
}

// AttachToMessage는 이미 존재하는 메시지에 문서를 첨부합니다.
// 메시지의 시각은 바뀌지 않고 활동도 남기지 않습니다. 메시지가 없으면 nil을 반환합니다.
func (c *Controller) AttachToMessage(ctx context.Context, in AttachToMessageInput) (_ *MessageWithAttachments, err error) {
	ctx, end := c.begin(ctx, "messages.attach", telemetry.AttrMessageID.String(in.ID))
	defer end(&err)

	if err := c.ensureRepo(); err != nil {
		return nil, err
	}
	if trimID(&in.ID) == "" {
		return nil, errRequired("id")
	}
	ids := cleanIDs(in.DocumentIDs)
	if len(ids) == 0 {
		return nil, errRequired("documentIds")
	}

	var result *MessageWithAttachments
	err = c.repo.Transaction(ctx, func(tx *storage.Repository) error {
		if _, err := tx.GetMessage(ctx, in.ID); err != nil {
			if isNotFound(err) {
				return nil
			}
			return c.storageError("get message", err, zap.String("message_id", in.ID))
		}
		if err := tx.AddMessageAttachments(ctx, in.ID, ids); err != nil {
			return c.storageError("attach documents", err, zap.String("message_id", in.ID))
		}
		loaded, err := c.loadMessage(ctx, tx, in.ID)
		if err != nil {
			return err
		}
		result = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("Documents attached",
		zap.String("message_id", in.ID),
		zap.Strings("document_ids", ids),
		zap.Bool("found", result != nil),
	)
	return result, nil
}
