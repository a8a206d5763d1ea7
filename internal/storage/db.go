package storage

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cnap-oss/clawboard/internal/common"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	// pure Go SQLite 드라이버 ("sqlite")
	_ "modernc.org/sqlite"
)

// Open은 설정에 맞는 dialector로 데이터베이스 연결을 엽니다.
// PostgreSQL DSN이 아니면 SQLite 파일로 간주하고 상위 디렉토리를 생성합니다.
func Open(cfg Config) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("storage: empty DSN")
	}

	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	clock := NewClock()
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(log.New(os.Stderr, "\r\n", log.LstdFlags), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  cfg.LogLevel,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc:                clock.Now,
		SkipDefaultTransaction: cfg.SkipDefaultTxn,
		PrepareStmt:            cfg.PrepareStmt,
		DisableAutomaticPing:   cfg.DisableAutomaticPing,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("storage: access sql.DB: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return db, nil
}

func dialectorFor(cfg Config) (gorm.Dialector, error) {
	if common.IsServerDSN(cfg.DSN) {
		return postgres.Open(cfg.DSN), nil
	}

	if path := common.SQLiteFilePath(cfg.DSN); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("storage: create database directory: %w", err)
		}
	}

	driver := cfg.Driver
	if driver == "" {
		driver = common.SQLiteDriverCGO
	}
	return sqlite.New(sqlite.Config{
		DriverName: driver,
		DSN:        sqliteDSN(cfg.DSN, driver, cfg.BusyTimeout),
	}), nil
}

// sqliteDSN은 모든 풀 연결에 외래 키 검사, WAL, busy timeout이 적용되도록 드라이버별 파라미터를 붙입니다.
func sqliteDSN(dsn, driver string, busyTimeout time.Duration) string {
	busy := busyTimeout.Milliseconds()
	if busy <= 0 {
		busy = 5000
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}

	var params string
	switch driver {
	case common.SQLiteDriverPureGo:
		params = fmt.Sprintf("_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_time_format=sqlite", busy)
	default:
		params = fmt.Sprintf("_foreign_keys=on&_journal_mode=WAL&_busy_timeout=%d", busy)
	}
	return dsn + sep + params
}

// AutoMigrate는 모든 모델의 스키마를 생성하거나 갱신합니다.
func AutoMigrate(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("storage: nil db handle")
	}
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("storage: auto migrate: %w", err)
	}
	return nil
}

// Close는 하위 sql.DB 연결을 닫습니다.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Clock은 마이크로초 단위로 단조 증가하는 UTC 시각을 제공합니다.
// 같은 프로세스 안에서 생성 순서가 created_at 순서와 일치하도록 gorm NowFunc로 설치됩니다.
type Clock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

// NewClock은 시스템 시간을 사용하는 Clock을 생성합니다.
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// Now는 직전 반환값보다 항상 늦은 시각을 반환합니다.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC().Truncate(time.Microsecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}

// ErrInvalidReference는 존재하지 않는 행을 참조하는 쓰기를 나타냅니다.
var ErrInvalidReference = errors.New("storage: referenced row does not exist")

// translateError는 외래 키 위반을 ErrInvalidReference로 감쌉니다.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) || strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
		return fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}
	return err
}
