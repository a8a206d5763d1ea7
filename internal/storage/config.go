package storage

import (
	"time"

	"github.com/cnap-oss/clawboard/internal/common"
	gormlogger "gorm.io/gorm/logger"
)

// Config는 GORM 데이터베이스 설정 값을 보관합니다.
// common.DatabaseConfig를 래핑합니다.
type Config struct {
	DSN                  string
	Driver               string
	LogLevel             gormlogger.LogLevel
	BusyTimeout          time.Duration
	MaxIdleConns         int
	MaxOpenConns         int
	ConnMaxLifetime      time.Duration
	SkipDefaultTxn       bool
	PrepareStmt          bool
	DisableAutomaticPing bool
}

// ConfigFrom은 애플리케이션 설정에서 storage Config를 구성합니다.
func ConfigFrom(cfg common.DatabaseConfig) Config {
	return Config{
		DSN:                  cfg.DSN,
		Driver:               cfg.Driver,
		LogLevel:             cfg.GormLogLevel(),
		BusyTimeout:          cfg.BusyTimeout,
		MaxIdleConns:         cfg.MaxIdleConns,
		MaxOpenConns:         cfg.MaxOpenConns,
		ConnMaxLifetime:      cfg.ConnMaxLifetime,
		SkipDefaultTxn:       cfg.SkipDefaultTxn,
		PrepareStmt:          cfg.PrepareStmt,
		DisableAutomaticPing: cfg.DisableAutomaticPing,
	}
}
