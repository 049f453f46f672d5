package customErrors

import (
	"errors"
	"fmt"
)

const (
	ErrNotFound           = "NOT FOUND"
	ErrInvalidInput       = "INVALID INPUT"
	ErrConflict           = "CONFLICT"
	ErrInternal           = "INTERNAL"
	ErrStorageUnavailable = "STORAGE UNAVAILABLE"
	ErrSchemaUpgrade      = "SCHEMA UPGRADE FAILED"
	ErrInvalidBackup      = "INVALID BACKUP FORMAT"
	ErrImportWrite        = "IMPORT WRITE FAILED"
	ErrUpstream           = "UPSTREAM"
	ErrRateLimited        = "RATE LIMITED"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e ErrorResponse) Error() string {
	return fmt.Sprintf("code: %s, message: %s", e.Code, e.Message)
}

// CodeOf returns the error code carried by err or anything it wraps,
// falling back to ErrInternal.
func CodeOf(err error) string {
	var resp ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code
	}
	return ErrInternal
}
