package controller

import (
	"errors"
	"fmt"
)

// ValidationError는 입력이 작업의 전제 조건을 만족하지 못했음을 나타냅니다.
// Error()는 사용자에게 그대로 보여줄 메시지를 반환합니다.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation은 err 체인에 ValidationError가 있는지 확인합니다.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// errRequired는 "<field> is required" 형태의 ValidationError를 만듭니다.
func errRequired(field string) error {
	return &ValidationError{Field: field, Message: field + " is required"}
}

// errInvalid는 허용되지 않은 열거 값에 대한 ValidationError를 만듭니다.
func errInvalid(field, value string) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf("invalid %s: %s", field, value)}
}

var errNoFieldsToUpdate = &ValidationError{Message: "no fields to update"}
