package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrDuplicateKey = errors.New("email already exists")
	ErrUnauthorized = errors.New("unauthorized")
)

// FieldError 单个字段的校验失败
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError 汇总所有不合法字段，不在第一个错误处停下
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Has 是否包含某字段的错误
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func (e *ValidationError) add(field, rule, msg string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Rule: rule, Message: msg})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
