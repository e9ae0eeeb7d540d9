package pkg

import (
	"errors"
	"fmt"
)

// Kind 业务错误分类
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindInvalidOperation
	KindForbidden
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidOperation:
		return "invalid_operation"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Error 带分类的业务错误，Msg 直接返回给调用方
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func NotFound(msg string) error         { return &Error{Kind: KindNotFound, Msg: msg} }
func Conflict(msg string) error         { return &Error{Kind: KindConflict, Msg: msg} }
func InvalidOperation(msg string) error { return &Error{Kind: KindInvalidOperation, Msg: msg} }
func Forbidden(msg string) error        { return &Error{Kind: KindForbidden, Msg: msg} }
func Unauthorized(msg string) error     { return &Error{Kind: KindUnauthorized, Msg: msg} }

func Errorf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf 非业务错误返回 KindInternal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind 判断错误分类
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
