package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrMalformedURI = errors.New("malformed uri")
	ErrTransfer     = errors.New("transfer failed")
)

// NotFoundError reports a missing tag, record or blob.
type NotFoundError struct {
	Kind string // "tag", "record", "blob"
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// MalformedURIError is returned by ParseLocator.
type MalformedURIError struct {
	URI    string
	Reason string
}

func (e *MalformedURIError) Error() string {
	return fmt.Sprintf("malformed locator %q: %s", e.URI, e.Reason)
}

func (e *MalformedURIError) Is(target error) bool { return target == ErrMalformedURI }

// TransferError wraps an I/O failure talking to blob storage.
type TransferError struct {
	Op     string // "download" or "upload"
	Bucket string
	Key    string
	Err    error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

func (e *TransferError) Is(target error) bool { return target == ErrTransfer }

func NotFound(kind, key string) error { return &NotFoundError{Kind: kind, Key: key} }
