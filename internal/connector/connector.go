package connector

import (
	"context"
	"fmt"

	"github.com/cnap-oss/clawboard/internal/common"
	"go.uber.org/zap"
)

// Connector는 Discord 전송 세션과 알림 릴레이를 함께 관리하는 구조체입니다.
type Connector struct {
	logger *zap.Logger
	relay  *Relay
	sender *DiscordSender
}

// NewConnector는 설정으로부터 Discord 전송기와 릴레이를 구성합니다.
func NewConnector(logger *zap.Logger, store NotificationStore, cfg *common.Config, opts ...RelayOption) (*Connector, error) {
	if err := cfg.ValidateRelay(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("connector")

	sender, err := NewDiscordSender(cfg.Discord.Token, cfg.Discord.ChannelID)
	if err != nil {
		return nil, err
	}
	relay, err := NewRelay(logger, store, sender, RelayConfig{
		Schedule:  cfg.Relay.Schedule,
		BatchSize: cfg.Relay.BatchSize,
	}, opts...)
	if err != nil {
		return nil, err
	}

	return &Connector{logger: logger, relay: relay, sender: sender}, nil
}

// Start는 릴레이를 시작하고 ctx가 취소될 때까지 대기합니다.
func (s *Connector) Start(ctx context.Context) error {
	s.logger.Info("Starting connector (notification relay)")

	if err := s.relay.Start(ctx); err != nil {
		return fmt.Errorf("failed to start relay: %w", err)
	}

	<-ctx.Done()
	s.logger.Info("Connector shutting down")

	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return s.Stop(stopCtx)
}

// Stop은 예약된 릴레이를 멈추고 진행 중인 전송이 끝나기를 기다립니다.
func (s *Connector) Stop(ctx context.Context) error {
	s.logger.Info("Stopping connector")

	select {
	case <-s.relay.Stop().Done():
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout exceeded")
	}

	if err := s.sender.Close(); err != nil {
		s.logger.Error("Error closing discord session", zap.Error(err))
		return err
	}
	s.logger.Info("Connector stopped")
	return nil
}

// Flush는 릴레이를 한 번 실행합니다.
func (s *Connector) Flush(ctx context.Context) (FlushResult, error) {
	return s.relay.Flush(ctx)
}
