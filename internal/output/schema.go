package output

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/heartmarshall/gkgfeed/internal/domain"
)

const schemaDraft = "http://json-schema.org/draft-07/schema#"

// Schema returns the JSON Schema (draft-07) of an encoded domain.Record,
// derived from its json tags.
func Schema() map[string]any {
	s := typeSchema(reflect.TypeFor[domain.Record]())
	s["$schema"] = schemaDraft
	s["title"] = "GDELT GKG v2.1 record"
	return s
}

// WriteSchema writes the indented record schema to w.
func WriteSchema(w io.Writer) error {
	data, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func typeSchema(t reflect.Type) map[string]any {
	switch t.Kind() {
	case reflect.Pointer:
		s := typeSchema(t.Elem())
		s["type"] = []any{s["type"], "null"}
		return s
	case reflect.Slice:
		return map[string]any{"type": "array", "items": typeSchema(t.Elem())}
	case reflect.String:
		return map[string]any{"type": "string"}
	case reflect.Int, reflect.Int32, reflect.Int64:
		return map[string]any{"type": "integer"}
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}
	case reflect.Bool:
		return map[string]any{"type": "boolean"}
	case reflect.Struct:
		props := make(map[string]any, t.NumField())
		required := make([]string, 0, t.NumField())
		for i := range t.NumField() {
			f := t.Field(i)
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				continue
			}
			props[name] = typeSchema(f.Type)
			required = append(required, name)
		}
		return map[string]any{
			"type":                 "object",
			"properties":           props,
			"required":             required,
			"additionalProperties": false,
		}
	default:
		return map[string]any{}
	}
}
