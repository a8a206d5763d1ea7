package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
	gormlogger "gorm.io/gorm/logger"
)

// EnvPrefix는 환경 변수 오버라이드에 사용되는 접두사입니다.
const EnvPrefix = "CLAWBOARD"

// Config는 애플리케이션의 모든 설정을 관리합니다.
type Config struct {
	App       AppConfig       `yaml:"app"`
	Database  DatabaseConfig  `yaml:"database"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Discord   DiscordConfig   `yaml:"discord"`
	Relay     RelayConfig     `yaml:"relay"`
	Directory DirectoryConfig `yaml:"directory"`
}

// AppConfig는 애플리케이션 기본 설정입니다.
type AppConfig struct {
	// ENV는 실행 환경입니다 (development, production)
	ENV string `yaml:"env" envconfig:"ENV"`
	// LogLevel은 애플리케이션 로그 레벨입니다 (debug, info, warn, error)
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"`
}

// DatabaseConfig는 데이터베이스 설정입니다.
type DatabaseConfig struct {
	// DSN은 데이터베이스 연결 문자열입니다. 비어 있으면 데이터 디렉토리의 clawboard.db를 사용합니다
	DSN string `yaml:"dsn" envconfig:"DB_DSN"`
	// Driver는 SQLite 드라이버 이름입니다 (sqlite3: cgo, sqlite: pure Go)
	Driver string `yaml:"driver" envconfig:"DB_DRIVER"`
	// LogLevel은 GORM 로그 레벨입니다 (silent, error, warn, info)
	LogLevel string `yaml:"log_level" envconfig:"DB_LOG_LEVEL"`
	// BusyTimeout은 SQLite 잠금 대기 시간입니다
	BusyTimeout time.Duration `yaml:"busy_timeout" envconfig:"DB_BUSY_TIMEOUT"`
	// MaxIdleConns는 연결 풀의 idle 연결 개수입니다
	MaxIdleConns int `yaml:"max_idle_conns" envconfig:"DB_MAX_IDLE"`
	// MaxOpenConns는 연결 풀의 최대 연결 개수입니다
	MaxOpenConns int `yaml:"max_open_conns" envconfig:"DB_MAX_OPEN"`
	// ConnMaxLifetime은 연결의 최대 수명입니다
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" envconfig:"DB_CONN_LIFETIME"`
	// SkipDefaultTxn은 기본 트랜잭션을 스킵할지 여부입니다
	SkipDefaultTxn bool `yaml:"skip_default_txn" envconfig:"DB_SKIP_DEFAULT_TXN"`
	// PrepareStmt는 prepared statement 캐시를 사용할지 여부입니다
	PrepareStmt bool `yaml:"prepare_stmt" envconfig:"DB_PREPARE_STMT"`
	// DisableAutomaticPing은 자동 ping을 비활성화할지 여부입니다
	DisableAutomaticPing bool `yaml:"disable_automatic_ping" envconfig:"DB_DISABLE_AUTO_PING"`
}

// GormLogLevel은 문자열 로그 레벨을 GORM 로그 레벨로 변환합니다.
func (d DatabaseConfig) GormLogLevel() gormlogger.LogLevel {
	return parseLogLevel(d.LogLevel)
}

// TelemetryConfig는 OpenTelemetry 설정입니다.
type TelemetryConfig struct {
	Enabled     bool    `yaml:"enabled" envconfig:"OTEL_ENABLED"`
	Exporter    string  `yaml:"exporter" envconfig:"OTEL_EXPORTER"`
	Endpoint    string  `yaml:"endpoint" envconfig:"OTEL_ENDPOINT"`
	ServiceName string  `yaml:"service_name" envconfig:"OTEL_SERVICE_NAME"`
	SampleRate  float64 `yaml:"sample_rate" envconfig:"OTEL_SAMPLE_RATE"`
}

// DiscordConfig는 알림 릴레이가 사용하는 Discord 봇 설정입니다.
type DiscordConfig struct {
	// Token은 Discord 봇 토큰입니다
	Token string `yaml:"token" envconfig:"DISCORD_TOKEN"`
	// ChannelID는 알림을 게시할 채널입니다
	ChannelID string `yaml:"channel_id" envconfig:"DISCORD_CHANNEL_ID"`
}

// RelayConfig는 알림 릴레이 스케줄 설정입니다.
type RelayConfig struct {
	// Schedule은 cron 표현식입니다 (예: "@every 30s", "*/5 * * * *")
	Schedule string `yaml:"schedule" envconfig:"RELAY_SCHEDULE"`
	// BatchSize는 한 번에 전송할 최대 알림 수입니다
	BatchSize int `yaml:"batch_size" envconfig:"RELAY_BATCH_SIZE"`
}

// DirectoryConfig는 디렉토리 경로 설정입니다.
type DirectoryConfig struct {
	// DataDir은 기본 데이터 디렉토리입니다 (환경 변수 CLAWBOARD_DIR로만 설정 가능, 기본값: $HOME/.clawboard)
	DataDir string `yaml:"-" envconfig:"DIR"`
}

// DefaultConfig는 기본값이 채워진 Config를 반환합니다.
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			ENV:      "production",
			LogLevel: "warn",
		},
		Database: DatabaseConfig{
			Driver:          SQLiteDriverCGO,
			LogLevel:        "silent",
			BusyTimeout:     5 * time.Second,
			MaxIdleConns:    2,
			MaxOpenConns:    4,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Telemetry: TelemetryConfig{
			Exporter:    "none",
			ServiceName: "clawboard",
			SampleRate:  1.0,
		},
		Relay: RelayConfig{
			Schedule:  "@every 30s",
			BatchSize: 50,
		},
		Directory: DirectoryConfig{
			DataDir: defaultDataDir(),
		},
	}
}

// SQLite 드라이버 이름
const (
	SQLiteDriverCGO    = "sqlite3"
	SQLiteDriverPureGo = "sqlite"
)

// LoadConfig는 .env, YAML 파일, 환경 변수 순서로 설정을 로드합니다.
// path가 비어 있으면 ${CLAWBOARD_DIR}/config.yaml을 시도하고, 파일이 없으면 기본값을 사용합니다.
func LoadConfig(path string) (*Config, error) {
	// .env는 선택 사항
	_ = godotenv.Load()

	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(cfg.Directory.DataDir, "config.yaml")
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("설정 파일 파싱 실패: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("설정 파일 읽기 실패: %w", err)
	}

	if err := mergeWithEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.Database.DSN == "" {
		cfg.Database.DSN = filepath.Join(cfg.Directory.DataDir, DatabaseFileName)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeWithEnv는 CLAWBOARD_ 접두사 환경 변수로 설정을 오버라이드합니다.
func mergeWithEnv(cfg *Config) error {
	sections := []any{
		&cfg.App,
		&cfg.Database,
		&cfg.Telemetry,
		&cfg.Discord,
		&cfg.Relay,
		&cfg.Directory,
	}
	for _, section := range sections {
		if err := envconfig.Process(EnvPrefix, section); err != nil {
			return fmt.Errorf("환경 변수 파싱 실패: %w", err)
		}
	}
	return nil
}

// Validate는 열거형 설정 값들을 검증합니다.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case SQLiteDriverCGO, SQLiteDriverPureGo:
	default:
		return fmt.Errorf("unsupported database driver: %q (supported: %s, %s)",
			c.Database.Driver, SQLiteDriverCGO, SQLiteDriverPureGo)
	}
	switch c.Telemetry.Exporter {
	case "", "none", "stdout", "otlp-http":
	default:
		return fmt.Errorf("unsupported telemetry exporter: %q", c.Telemetry.Exporter)
	}
	return nil
}

// ValidateRelay는 알림 릴레이 실행에 필요한 설정을 검증합니다.
func (c *Config) ValidateRelay() error {
	if c.Discord.Token == "" {
		return fmt.Errorf("%s_DISCORD_TOKEN is required", EnvPrefix)
	}
	if c.Discord.ChannelID == "" {
		return fmt.Errorf("%s_DISCORD_CHANNEL_ID is required", EnvPrefix)
	}
	if c.Relay.Schedule == "" {
		return fmt.Errorf("relay schedule is required")
	}
	return nil
}

func parseLogLevel(value string) gormlogger.LogLevel {
	switch value {
	case "silent", "SILENT":
		return gormlogger.Silent
	case "error", "ERROR":
		return gormlogger.Error
	case "warn", "WARN":
		return gormlogger.Warn
	case "info", "INFO":
		return gormlogger.Info
	default:
		return gormlogger.Silent
	}
}
