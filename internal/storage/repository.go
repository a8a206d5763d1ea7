package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository는 clawboard 도메인 객체를 위한 영속성 헬퍼를 제공합니다.
type Repository struct {
	db *gorm.DB
}

// NewRepository는 전달된 gorm DB를 이용해 Repository를 생성합니다.
func NewRepository(db *gorm.DB) (*Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("storage: repository requires a non-nil db handle")
	}
	return &Repository{db: db}, nil
}

// DB는 내부 gorm DB 참조를 반환합니다.
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// Transaction은 fn을 하나의 트랜잭션 안에서 실행합니다.
// fn에 전달되는 Repository는 트랜잭션에 묶여 있으며, fn이 에러를 반환하면 롤백됩니다.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// now는 DB에 설치된 단조 시계로 현재 시각을 반환합니다.
func (r *Repository) now() time.Time {
	return r.db.NowFunc()
}

// newID는 외부에서 추측할 수 없는 식별자를 생성합니다.
func newID() string {
	return uuid.NewString()
}

// uniqueStrings는 순서를 유지하면서 빈 값과 중복을 제거합니다.
func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// 정렬 절. id로 동률을 결정적으로 깹니다.
const (
	newestFirst = "created_at DESC, id DESC"
	oldestFirst = "created_at ASC, id ASC"
)
