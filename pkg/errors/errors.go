// Package errors defines the error taxonomy shared by the sync pipeline.
//
// Every failure that crosses a package boundary is an *Error carrying one of
// three kinds: local I/O, remote store, or configuration. Callers classify
// errors with errors.Is against ErrIO, ErrRemote and ErrConfig.
package errors

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// Kind classifies an Error.
type Kind int

const (
	KindIO Kind = iota + 1
	KindRemote
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindRemote:
		return "remote"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Sentinels matched by (*Error).Is.
var (
	ErrIO     = errors.New("io error")
	ErrRemote = errors.New("remote error")
	ErrConfig = errors.New("config error")
)

// Error is a classified failure with the context of the operation that failed.
type Error struct {
	Kind Kind

	// Op is the operation that failed (e.g. "hash", "list", "put").
	Op string

	// Path is the local file path, if any.
	Path string

	// Bucket and Key locate the remote object, if any.
	Bucket string
	Key    string

	Err error
}

func (e *Error) Error() string {
	switch {
	case e.Path != "":
		return fmt.Sprintf("%s %s %s: %v", e.Kind, e.Op, e.Path, e.Err)
	case e.Bucket != "" && e.Key != "":
		return fmt.Sprintf("%s %s s3://%s/%s: %v", e.Kind, e.Op, e.Bucket, e.Key, e.Err)
	case e.Bucket != "":
		return fmt.Sprintf("%s %s s3://%s: %v", e.Kind, e.Op, e.Bucket, e.Err)
	default:
		return fmt.Sprintf("%s %s: %v", e.Kind, e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrIO:
		return e.Kind == KindIO
	case ErrRemote:
		return e.Kind == KindRemote
	case ErrConfig:
		return e.Kind == KindConfig
	}
	return false
}

// NewIOError wraps a local file failure.
func NewIOError(op, path string, err error) *Error {
	return &Error{Kind: KindIO, Op: op, Path: path, Err: err}
}

// NewRemoteError wraps a remote store failure. When err is an AWS API error
// its code is kept in the message so logs show e.g. "AccessDenied".
func NewRemoteError(op, bucket, key string, err error) *Error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() != "" {
		err = fmt.Errorf("%s: %w", apiErr.ErrorCode(), err)
	}
	return &Error{Kind: KindRemote, Op: op, Bucket: bucket, Key: key, Err: err}
}

// NewConfigError reports an invalid or missing setting.
func NewConfigError(setting string, err error) *Error {
	return &Error{Kind: KindConfig, Op: setting, Err: err}
}

// IsIOError reports whether err is a local I/O failure.
func IsIOError(err error) bool {
	return errors.Is(err, ErrIO)
}

// IsRemoteError reports whether err is a remote store failure.
func IsRemoteError(err error) bool {
	return errors.Is(err, ErrRemote)
}

// IsConfigError reports whether err is a configuration failure.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfig)
}

// APIErrorCode returns the AWS error code wrapped in err, or "".
func APIErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
