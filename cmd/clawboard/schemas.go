package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// 인자 스키마는 타입만 검사합니다. 필수 값과 열거형 검증은 컨트롤러가 담당하므로
// 오류 메시지가 CLI와 라이브러리 호출에서 동일하게 유지됩니다.
const (
	typeString         = `{"type":"string"}`
	typeNullableString = `{"type":["string","null"]}`
	typeBoolean        = `{"type":"boolean"}`
	typeLimit          = `{"type":"integer"}`
	typeIDList         = `{"type":"array","items":{"type":"string"}}`
)

// props는 속성 이름과 타입 스키마의 쌍입니다.
type props map[string]string

// objectSchema는 주어진 속성을 가진 JSON 객체 스키마 문서를 만듭니다.
// 알 수 없는 속성은 허용합니다.
func objectSchema(properties props) string {
	fields := make(map[string]json.RawMessage, len(properties))
	for name, schema := range properties {
		fields[name] = json.RawMessage(schema)
	}
	doc, err := json.Marshal(map[string]any{
		"type":       "object",
		"properties": fields,
	})
	if err != nil {
		panic(err)
	}
	return string(doc)
}

var (
	schemaAny = objectSchema(props{})
	schemaID  = objectSchema(props{"id": typeString})
)

// compileSchema는 스키마 문서를 컴파일합니다.
func compileSchema(name, doc string) (*jsonschema.Schema, error) {
	parsed, err := jsonschema.UnmarshalJSON(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parse schema for %s: %w", name, err)
	}

	url := name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, parsed); err != nil {
		return nil, fmt.Errorf("add schema for %s: %w", name, err)
	}
	schema, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema for %s: %w", name, err)
	}
	return schema, nil
}

// validateArgument는 JSON 인자를 파싱하고 스키마로 검사합니다.
func validateArgument(schema *jsonschema.Schema, raw string) error {
	parsed, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		return errInvalidJSON
	}
	if err := schema.Validate(parsed); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("invalid argument: %s", describeValidation(verr))
		}
		return fmt.Errorf("invalid argument: %w", err)
	}
	return nil
}

// describeValidation은 가장 깊은 원인 하나를 "<위치>: <메시지>" 형태로 요약합니다.
func describeValidation(verr *jsonschema.ValidationError) string {
	leaf := verr
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	location := "/" + strings.Join(leaf.InstanceLocation, "/")
	return fmt.Sprintf("%s: %s", location, leaf.ErrorKind.LocalizedString(message.NewPrinter(language.English)))
}
