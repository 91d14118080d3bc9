package errs

import (
	"errors"
	"fmt"
)

// Kind 存储层错误的粗分类，上层据此决定转成哪种 errx 错误。
type Kind string

const (
	KindUnknown    Kind = "unknown"
	KindInfra      Kind = "infra"
	KindDependency Kind = "dependency"
	KindCorrupt    Kind = "corrupt"
)

type Error struct {
	Op    string         // 发生位置：repo.empire.Update / repo.battle.Record
	Kind  Kind           // 粗分类
	Meta  map[string]any // 关键参数（empire_id, version...）
	Cause error          // 根因（必须保留）
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Wrap 统一包装入口，cause 为 nil 时返回 nil。
func Wrap(op string, kind Kind, cause error, meta map[string]any) error {
	if cause == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Cause: cause, Meta: meta}
}

// KindOf 取链上第一个 *Error 的分类。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
