package gkgrecord

import (
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/gkgfeed/internal/domain"
)

// cleanText makes s storable in TEXT and JSONB columns: invalid UTF-8
// becomes U+FFFD and NUL bytes are dropped.
func cleanText(s string) string {
	if utf8.ValidString(s) && strings.IndexByte(s, 0) < 0 {
		return s
	}
	return strings.ReplaceAll(strings.ToValidUTF8(s, "\uFFFD"), "\x00", "")
}

// cleanRecord returns rec with cleanText applied to every string it holds.
// Slices and pointers are copied before a change, so the caller's record is
// never modified. Clean records are returned as is.
func cleanRecord(rec domain.Record) domain.Record {
	v, changed := cleanValue(reflect.ValueOf(rec))
	if !changed {
		return rec
	}
	return v.Interface().(domain.Record)
}

func cleanValue(v reflect.Value) (reflect.Value, bool) {
	switch v.Kind() {
	case reflect.String:
		s := cleanText(v.String())
		if s == v.String() {
			return v, false
		}
		return reflect.ValueOf(s).Convert(v.Type()), true

	case reflect.Pointer:
		if v.IsNil() {
			return v, false
		}
		elem, changed := cleanValue(v.Elem())
		if !changed {
			return v, false
		}
		p := reflect.New(v.Type().Elem())
		p.Elem().Set(elem)
		return p, true

	case reflect.Slice:
		var out reflect.Value
		for i := range v.Len() {
			elem, changed := cleanValue(v.Index(i))
			if !changed {
				continue
			}
			if !out.IsValid() {
				out = reflect.MakeSlice(v.Type(), v.Len(), v.Len())
				reflect.Copy(out, v)
			}
			out.Index(i).Set(elem)
		}
		if !out.IsValid() {
			return v, false
		}
		return out, true

	case reflect.Struct:
		var out reflect.Value
		for i := range v.NumField() {
			if !v.Type().Field(i).IsExported() {
				continue
			}
			field, changed := cleanValue(v.Field(i))
			if !changed {
				continue
			}
			if !out.IsValid() {
				out = reflect.New(v.Type()).Elem()
				out.Set(v)
			}
			out.Field(i).Set(field)
		}
		if !out.IsValid() {
			return v, false
		}
		return out, true
	}
	return v, false
}
