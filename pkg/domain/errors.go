package domain

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrorKind はユーザーに返すエラーの分類です。
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindConfiguration
	KindUsage
	KindFile
	KindRemote
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindUsage:
		return "usage"
	case KindFile:
		return "file"
	case KindRemote:
		return "remote"
	}
	return "unknown"
}

// Error は分類付きのエラーです。メッセージはそのままユーザーに表示されます。
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String() + " error"
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf は err の連鎖から最初に見つかった分類を返します。
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

func ConfigurationError(format string, args ...any) error {
	return &Error{Kind: KindConfiguration, Msg: fmt.Sprintf(format, args...)}
}

func UsageError(format string, args ...any) error {
	return &Error{Kind: KindUsage, Msg: fmt.Sprintf(format, args...)}
}

// FileError は path を含むファイル操作エラーを作ります。
// 存在しないファイルは "file not found: <path>" になります。
func FileError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return &Error{Kind: KindFile, Msg: "file not found: " + path, Err: err}
	}
	cause := err
	var pe *fs.PathError
	if errors.As(err, &pe) {
		cause = pe.Err
	}
	msg := "file error: " + path
	if cause != nil {
		msg += ": " + cause.Error()
	}
	return &Error{Kind: KindFile, Msg: msg, Err: err}
}

// WriteError は出力ファイルの書き込み失敗を表します。
func WriteError(path string, err error) error {
	cause := err
	var pe *fs.PathError
	if errors.As(err, &pe) {
		cause = pe.Err
	}
	return &Error{Kind: KindFile, Msg: fmt.Sprintf("failed to write image to %s: %v", path, cause), Err: err}
}

// RemoteError は上流のエラーメッセージを加工せずに包みます。
func RemoteError(msg string, err error) error {
	if err != nil {
		msg += ": " + err.Error()
	}
	return &Error{Kind: KindRemote, Msg: msg, Err: err}
}
