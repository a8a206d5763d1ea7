package controller

import (
	"context"
	"fmt"

	"github.com/cnap-oss/clawboard/internal/storage"
	"github.com/cnap-oss/clawboard/internal/telemetry"
	"go.uber.org/zap"
)

// ListDocuments는 모든 문서를 최근 순으로 반환합니다.
func (c *Controller) ListDocuments(ctx context.Context) (_ []storage.Document, err error) {
	ctx, end := c.begin(ctx, "documents.list")
	defer end(&err)

	if err := c.ensureRepo(); err != nil {
		return nil, err
	}
	docs, err := c.repo.ListDocuments(ctx)
	if err != nil {
		return nil, c.storageError("list documents", err)
	}
	c.logger.Debug("Listed documents", zap.Int("count", len(docs)))
	return docs, nil
}

// GetDocument는 식별자로 문서를 조회합니다. 없으면 nil입니다.
func (c *Controller) GetDocument(ctx context.Context, in IDInput) (_ *storage.Document, err error) {
	ctx, end := c.begin(ctx, "documents.get", telemetry.AttrDocumentID.String(in.ID))
	defer end(&err)

	if err := c.ensureRepo(); err != nil {
		return nil, err
	}
	if trimID(&in.ID) == "" {
		return nil, errRequired("id")
	}
	doc, err := c.repo.GetDocument(ctx, in.ID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, c.storageError("get document", err, zap.String("document_id", in.ID))
	}
	return doc, nil
}

// CreateDocument는 문서를 저장하고 document_created 활동을 남깁니다.
func (c *Controller) CreateDocument(ctx context.Context, in CreateDocumentInput) (_ *storage.Document, err error) {
	ctx, end := c.begin(ctx, "documents.create",
		telemetry.AttrTaskID.String(strValue(in.TaskID)),
		telemetry.AttrAgentID.String(strValue(in.AgentID)),
	)
	defer end(&err)

	if err := c.ensureRepo(); err != nil {
		return nil, err
	}
	if blank(in.Title) {
		return nil, errRequired("title")
	}
	if in.Type != nil && !oneOf(*in.Type, storage.DocumentTypes) {
		return nil, errInvalid("type", *in.Type)
	}

	doc := &storage.Document{
		Title:   normalizeText(in.Title),
		Content: normalizeTextPtr(in.Content),
		Type:    in.Type,
		TaskID:  optionalRef(in.TaskID),
		AgentID: optionalRef(in.AgentID),
	}

	var created *storage.Document
	err = c.repo.Transaction(ctx, func(tx *storage.Repository) error {
		if err := tx.CreateDocument(ctx, doc); err != nil {
			return c.storageError("create document", err)
		}
		if _, err := c.recordActivity(ctx, tx, storage.ActivityTypeDocumentCreated,
			fmt.Sprintf("Document created: %s", doc.Title), doc.AgentID, doc.TaskID); err != nil {
			return err
		}
		reloaded, err := tx.GetDocument(ctx, doc.ID)
		if err != nil {
			return c.storageError("reload document", err, zap.String("document_id", doc.ID))
		}
		created = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("Document created",
		zap.String("document_id", created.ID),
		zap.String("title", created.Title),
	)
	return created, nil
}

// DeleteDocument는 문서를 삭제합니다. 메시지 첨부는 스키마에 따라 함께 정리됩니다.
func (c *Controller) DeleteDocument(ctx context.Context, in IDInput) (_ *DeleteResult, err error) {
	ctx, end := c.begin(ctx, "documents.delete", telemetry.AttrDocumentID.String(in.ID))
	defer end(&err)

	if err := c.ensureRepo(); err != nil {
		return nil, err
	}
	if trimID(&in.ID) == "" {
		return nil, errRequired("id")
	}
	deleted, err := c.repo.DeleteDocument(ctx, in.ID)
	if err != nil {
		return nil, c.storageError("delete document", err, zap.String("document_id", in.ID))
	}

	c.logger.Info("Document deleted",
		zap.String("document_id", in.ID),
		zap.Bool("deleted", deleted),
	)
	return &DeleteResult{Deleted: deleted, ID: in.ID}, nil
}
