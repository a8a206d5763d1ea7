package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/cnap-oss/clawboard/internal/connector"
)

// MockSender는 테스트용 connector.Sender 구현입니다.
type MockSender struct {
	mu sync.Mutex

	// Errors는 메시지 본문별로 반환할 에러를 정의합니다.
	Errors map[string]error

	// Sent는 성공한 Send 호출의 본문 기록입니다.
	Sent []string

	// Attempts는 실패를 포함한 모든 Send 호출 수입니다.
	Attempts int
}

// NewMockSender는 새로운 MockSender를 생성합니다.
func NewMockSender() *MockSender {
	return &MockSender{
		Errors: make(map[string]error),
		Sent:   make([]string, 0),
	}
}

// ensure MockSender implements Sender
var _ connector.Sender = (*MockSender)(nil)

// Send implements connector.Sender.
func (m *MockSender) Send(ctx context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Attempts++
	if err := ctx.Err(); err != nil {
		return err
	}
	if err, ok := m.Errors[text]; ok {
		return err
	}
	m.Sent = append(m.Sent, text)
	return nil
}

// SetError는 특정 본문에 대한 에러를 설정합니다.
func (m *MockSender) SetError(text string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[text] = err
}

// SetErrorMessage는 특정 본문에 대한 에러 메시지를 설정합니다.
func (m *MockSender) SetErrorMessage(text, message string) {
	m.SetError(text, fmt.Errorf("%s", message))
}

// ClearErrors는 설정된 에러를 모두 지웁니다.
func (m *MockSender) ClearErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors = make(map[string]error)
}

// Messages는 지금까지 전송된 본문의 복사본을 반환합니다.
func (m *MockSender) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Sent...)
}

// GetCallCount는 Send 호출 횟수를 반환합니다.
func (m *MockSender) GetCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Attempts
}

// Reset은 모든 호출 기록을 초기화합니다.
func (m *MockSender) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = make([]string, 0)
	m.Attempts = 0
}
