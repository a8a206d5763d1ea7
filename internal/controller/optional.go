package controller

import "encoding/json"

// Optional은 patch 필드의 세 가지 상태를 구분합니다: 생략됨, null, 값.
// JSON에서 키가 없으면 Set이 false로 남습니다.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some은 값이 지정된 Optional을 반환합니다.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null은 명시적으로 null인 Optional을 반환합니다.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// UnmarshalJSON implements json.Unmarshaler. encoding/json calls it for an
// explicit null as well, which is what separates null from an absent key.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		var zero T
		o.Null = true
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON implements json.Marshaler.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Ptr는 null이면 nil을, 아니면 값의 포인터를 반환합니다.
func (o Optional[T]) Ptr() *T {
	if o.Null {
		return nil
	}
	v := o.Value
	return &v
}
