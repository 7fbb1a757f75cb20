package config

import "fmt"

// FieldError 提供字段路径与错误原因，便于 CLI 向用户反馈。
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func newFieldError(field, reason string) error {
	return FieldError{Field: field, Reason: reason}
}

// sourceField 拼接 Source[xxx].Field 形式的字段路径。
func sourceField(name, field string) string {
	if name == "" {
		return fmt.Sprintf("Source[].%s", field)
	}
	return fmt.Sprintf("Source[%s].%s", name, field)
}
