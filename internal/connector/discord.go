package connector

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// DiscordSender는 알림을 Discord 채널에 메시지로 게시합니다.
// REST 호출만 사용하므로 게이트웨이 연결(Open)은 필요하지 않습니다.
type DiscordSender struct {
	session   *discordgo.Session
	channelID string
}

var _ Sender = (*DiscordSender)(nil)

// NewDiscordSender는 봇 토큰으로 Discord 세션을 만듭니다.
func NewDiscordSender(token, channelID string) (*DiscordSender, error) {
	if token == "" {
		return nil, fmt.Errorf("discord token is required")
	}
	if channelID == "" {
		return nil, fmt.Errorf("discord channel id is required")
	}
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	return &DiscordSender{session: dg, channelID: channelID}, nil
}

// Send는 채널에 메시지 하나를 게시합니다.
func (s *DiscordSender) Send(ctx context.Context, text string) error {
	if _, err := s.session.ChannelMessageSend(s.channelID, text, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord: send to channel %s: %w", s.channelID, err)
	}
	return nil
}

// Close는 세션 자원을 정리합니다.
func (s *DiscordSender) Close() error {
	return s.session.Close()
}
