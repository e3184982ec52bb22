// 指示: miu200521358
// Package merr はPMX読込とマージで使う種別付きエラーを提供する。
package merr

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// ErrorKind はエラー種別を表す。
type ErrorKind string

const (
	KindMalformedInput     ErrorKind = "MalformedInput"
	KindTruncatedInput     ErrorKind = "TruncatedInput"
	KindUnsupportedVersion ErrorKind = "UnsupportedVersion"
	KindDuplicateName      ErrorKind = "DuplicateName"
	KindEmptyName          ErrorKind = "EmptyName"
	KindDanglingReference  ErrorKind = "DanglingReference"
)

// 種別判定用の番兵エラー。errors.Is で比較する。
var (
	ErrMalformedInput     = &kindError{kind: KindMalformedInput}
	ErrTruncatedInput     = &kindError{kind: KindTruncatedInput}
	ErrUnsupportedVersion = &kindError{kind: KindUnsupportedVersion}
	ErrDuplicateName      = &kindError{kind: KindDuplicateName}
	ErrEmptyName          = &kindError{kind: KindEmptyName}
	ErrDanglingReference  = &kindError{kind: KindDanglingReference}
)

type kindError struct {
	kind ErrorKind
}

func (e *kindError) Error() string {
	return string(e.kind)
}

// PmxError は種別付きエラーを表す。
type PmxError struct {
	Kind       ErrorKind
	Message    string
	Category   string
	ModelLabel string
	Index      int
	Cause      error
}

// Error はエラーメッセージを返す。
func (e *PmxError) Error() string {
	if e == nil {
		return ""
	}
	message := fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	if e.ModelLabel != "" || e.Category != "" {
		message = fmt.Sprintf("%s (model=%s category=%s index=%d)", message, e.ModelLabel, e.Category, e.Index)
	}
	if e.Cause != nil {
		message = fmt.Sprintf("%s: %v", message, e.Cause)
	}
	return message
}

// Unwrap は原因エラーを返す。
func (e *PmxError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is は種別の番兵エラーと比較する。
// UnsupportedVersion は不正入力の一種として MalformedInput にも一致する。
func (e *PmxError) Is(target error) bool {
	kind, ok := target.(*kindError)
	if !ok || e == nil {
		return false
	}
	if kind.kind == e.Kind {
		return true
	}
	return e.Kind == KindUnsupportedVersion && kind.kind == KindMalformedInput
}

// KindOf はエラー種別を返す。種別付きでない場合は空文字。
func KindOf(err error) ErrorKind {
	var pmxErr *PmxError
	if errors.As(err, &pmxErr) {
		return pmxErr.Kind
	}
	return ""
}

// IsInternal はマージエンジン内部の不整合を表すエラーか判定する。
func IsInternal(err error) bool {
	return errors.Is(err, ErrDanglingReference)
}

// NewMalformedInput は構造不正エラーを生成する。
func NewMalformedInput(message string, cause error, params ...any) error {
	return &PmxError{Kind: KindMalformedInput, Message: fmt.Sprintf(message, params...), Index: -1, Cause: cause}
}

// NewTruncatedInput はデータ不足エラーを生成する。
func NewTruncatedInput(message string, cause error, params ...any) error {
	return &PmxError{Kind: KindTruncatedInput, Message: fmt.Sprintf(message, params...), Index: -1, Cause: cause}
}

// NewUnsupportedVersion は未対応バージョンエラーを生成する。
func NewUnsupportedVersion(version float32) error {
	return &PmxError{Kind: KindUnsupportedVersion, Message: fmt.Sprintf("未対応のPMXバージョンです: %.1f", version), Index: -1}
}

// NewDuplicateName は名前重複エラーを生成する。
func NewDuplicateName(modelLabel string, category string, index int, name string, firstIndex int) error {
	return &PmxError{
		Kind:       KindDuplicateName,
		Message:    fmt.Sprintf("名前が重複しています: %s (最初の位置=%d)", name, firstIndex),
		Category:   category,
		ModelLabel: modelLabel,
		Index:      index,
	}
}

// NewEmptyName は空名エラーを生成する。
func NewEmptyName(modelLabel string, category string, index int) error {
	return &PmxError{
		Kind:       KindEmptyName,
		Message:    "名前が空です",
		Category:   category,
		ModelLabel: modelLabel,
		Index:      index,
	}
}

// NewReferenceOutOfRange は入力モデルの参照範囲外エラーを生成する。
func NewReferenceOutOfRange(modelLabel string, category string, index int, field string, value int, length int) error {
	return &PmxError{
		Kind:       KindMalformedInput,
		Message:    fmt.Sprintf("参照が範囲外です: %s=%d (件数=%d)", field, value, length),
		Category:   category,
		ModelLabel: modelLabel,
		Index:      index,
	}
}

// NewDanglingReference は再割当後に解決できない参照エラーを生成する。
// 内部不整合のためスタックを保持する。
func NewDanglingReference(category string, source string, value int) error {
	return pkgerrors.WithStack(&PmxError{
		Kind:       KindDanglingReference,
		Message:    fmt.Sprintf("再割当表に存在しない参照です: %d", value),
		Category:   category,
		ModelLabel: source,
		Index:      value,
	})
}
