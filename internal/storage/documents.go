package storage

import (
	"context"
	"fmt"
)

// CreateDocument는 새로운 문서를 저장합니다.
func (r *Repository) CreateDocument(ctx context.Context, doc *Document) error {
	if doc == nil {
		return fmt.Errorf("storage: nil document payload")
	}
	if doc.ID == "" {
		doc.ID = newID()
	}
	return translateError(r.db.WithContext(ctx).Create(doc).Error)
}

// GetDocument는 식별자로 문서를 조회합니다.
func (r *Repository) GetDocument(ctx context.Context, id string) (*Document, error) {
	if id == "" {
		return nil, fmt.Errorf("storage: empty document id")
	}
	var doc Document
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListDocuments는 최근 생성 순으로 문서 목록을 반환합니다.
func (r *Repository) ListDocuments(ctx context.Context) ([]Document, error) {
	docs := []Document{}
	if err := r.db.WithContext(ctx).
		Order(newestFirst).
		Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// DeleteDocument는 문서를 삭제하고 실제로 삭제되었는지 반환합니다.
func (r *Repository) DeleteDocument(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&Document{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
