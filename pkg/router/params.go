package router

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ParamParser copies string parameters into typed struct fields.
type ParamParser struct{}

// NewParamParser creates a new parameter parser.
func NewParamParser() *ParamParser {
	return &ParamParser{}
}

// Parse populates target, a pointer to a struct with `param` tags.
//
//	var p struct {
//	    ID int64 `param:"id"`
//	}
//	err := match.Params.Bind(&p)
func (p *ParamParser) Parse(params map[string]string, target any) error {
	if target == nil {
		return nil
	}

	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer {
		return fmt.Errorf("target must be a pointer, got %s", v.Kind())
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("target must be a pointer to struct, got pointer to %s", v.Kind())
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := field.Tag.Get("param")
		if name == "" {
			continue
		}
		value, ok := params[name]
		if !ok {
			continue
		}
		fv := v.Field(i)
		if !fv.CanSet() {
			continue
		}
		if err := setField(fv, value); err != nil {
			return fmt.Errorf("parsing param %q: %w", name, err)
		}
	}
	return nil
}

func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer: %s", value)
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid unsigned integer: %s", value)
		}
		field.SetUint(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %s", value)
		}
		field.SetBool(b)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice element type: %s", field.Type().Elem().Kind())
		}
		// catch-all values: "a/b/c" -> ["a", "b", "c"]
		var parts []string
		if value != "" {
			parts = strings.Split(value, "/")
		}
		field.Set(reflect.ValueOf(parts))
	default:
		return fmt.Errorf("unsupported type: %s", field.Kind())
	}
	return nil
}

// ValidateParam validates a parameter value against its declared type.
// The empty type and "string" accept any value.
func ValidateParam(value, paramType string) error {
	switch paramType {
	case "int", "int64", "int32", "int16", "int8":
		bits := 64
		if n := strings.TrimPrefix(paramType, "int"); n != "" {
			bits, _ = strconv.Atoi(n)
		}
		if _, err := strconv.ParseInt(value, 10, bits); err != nil {
			return fmt.Errorf("invalid integer: %s", value)
		}
	case "uint", "uint64", "uint32", "uint16", "uint8":
		bits := 64
		if n := strings.TrimPrefix(paramType, "uint"); n != "" {
			bits, _ = strconv.Atoi(n)
		}
		if _, err := strconv.ParseUint(value, 10, bits); err != nil {
			return fmt.Errorf("invalid unsigned integer: %s", value)
		}
	case "uuid":
		if err := uuid.Validate(value); err != nil {
			return fmt.Errorf("invalid UUID: %s", value)
		}
	}
	return nil
}
