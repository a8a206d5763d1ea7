package connector

import "time"

// 릴레이와 Discord 전송에 사용되는 상수들을 정의합니다.
const (
	// maxMessageLength는 Discord 메시지 본문의 최대 길이(문자 수)입니다.
	maxMessageLength = 2000
	mentionPrefix    = "@"
	ellipsis         = "…"

	defaultSchedule  = "@every 30s"
	defaultBatchSize = 50
	stopTimeout      = 10 * time.Second
)
