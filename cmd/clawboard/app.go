package main

import (
	"context"
	"time"

	"github.com/cnap-oss/clawboard/internal/common"
	"github.com/cnap-oss/clawboard/internal/controller"
	"github.com/cnap-oss/clawboard/internal/storage"
	"github.com/cnap-oss/clawboard/internal/telemetry"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 5 * time.Second

// app은 명령 하나가 실행되는 동안 사용하는 설정, 로거, 저장소, 컨트롤러를 보관합니다.
// 각 자원은 처음 필요할 때 초기화되고 close에서 역순으로 정리됩니다.
type app struct {
	configPath string

	cfg      *common.Config
	logger   *zap.Logger
	provider *telemetry.Provider
	metrics  *telemetry.Metrics
	db       *gorm.DB
	ctrl     *controller.Controller
}

// loadConfig는 설정과 로거를 초기화합니다.
func (a *app) loadConfig() error {
	if a.cfg != nil {
		return nil
	}

	cfg, err := common.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	logger, err := common.NewLoggerWithConfig("clawboard", cfg)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// controller는 저장소를 열고 스키마를 적용한 뒤 컨트롤러를 반환합니다.
func (a *app) controller(ctx context.Context) (*controller.Controller, error) {
	if a.ctrl != nil {
		return a.ctrl, nil
	}
	if err := a.loadConfig(); err != nil {
		return nil, err
	}

	provider, err := telemetry.Init(ctx, telemetry.ConfigFrom(a.cfg.Telemetry))
	if err != nil {
		return nil, err
	}
	a.provider = provider

	metrics, err := telemetry.NewMetrics(provider.Meter)
	if err != nil {
		return nil, err
	}
	a.metrics = metrics

	repo, err := a.initStorage()
	if err != nil {
		return nil, err
	}

	a.ctrl = controller.NewController(a.logger.Named("controller"), repo,
		controller.WithTracer(provider.Tracer),
		controller.WithMetrics(metrics),
	)
	return a.ctrl, nil
}

func (a *app) initStorage() (*storage.Repository, error) {
	db, err := storage.Open(storage.ConfigFrom(a.cfg.Database))
	if err != nil {
		return nil, err
	}

	if err := storage.AutoMigrate(db); err != nil {
		_ = storage.Close(db)
		return nil, err
	}

	repo, err := storage.NewRepository(db)
	if err != nil {
		_ = storage.Close(db)
		return nil, err
	}

	a.db = db
	a.logger.Debug("Storage ready", zap.String("database", databaseLocation(a.cfg)))
	return repo, nil
}

// close는 초기화된 자원만 정리합니다.
func (a *app) close() {
	if a.db != nil {
		if err := storage.Close(a.db); err != nil {
			a.logger.Warn("Failed to close storage", zap.Error(err))
		}
		a.db = nil
	}
	if a.provider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := a.provider.Shutdown(ctx); err != nil {
			a.logger.Warn("Failed to shutdown telemetry", zap.Error(err))
		}
		cancel()
		a.provider = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	a.ctrl = nil
}

// databaseLocation은 SQLite 파일 경로를 반환합니다. 서버 DB의 DSN은 자격 증명을 담을 수 있어 출력하지 않습니다.
func databaseLocation(cfg *common.Config) string {
	if path := common.GetDatabasePath(cfg); path != "" {
		return path
	}
	if common.IsServerDSN(cfg.Database.DSN) {
		return "PostgreSQL server"
	}
	return "in-memory"
}
