package errors

import (
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeDataUnavailable ErrorType = "DATA_UNAVAILABLE"
	ErrTypeSchemaMismatch  ErrorType = "SCHEMA_MISMATCH"
	ErrTypeEmptySelection  ErrorType = "EMPTY_SELECTION"
	ErrTypeColumnNotFound  ErrorType = "COLUMN_NOT_FOUND"
	ErrTypeInvalidCaption  ErrorType = "INVALID_CAPTION"
	ErrTypeEmptyTable      ErrorType = "EMPTY_TABLE"
	ErrTypeInvalidSeries   ErrorType = "INVALID_SERIES"
	ErrTypeUnknownPalette  ErrorType = "UNKNOWN_PALETTE"
	ErrTypeRender          ErrorType = "RENDER"
	ErrTypeExport          ErrorType = "EXPORT"
	ErrTypeConfig          ErrorType = "CONFIG"
)

// Sentinels for errors.Is. Any *AppError of the same type matches.
var (
	ErrDataUnavailable = &AppError{Type: ErrTypeDataUnavailable, Message: "dataset unavailable"}
	ErrSchemaMismatch  = &AppError{Type: ErrTypeSchemaMismatch, Message: "schema mismatch"}
	ErrEmptySelection  = &AppError{Type: ErrTypeEmptySelection, Message: "no column matches the selection"}
	ErrColumnNotFound  = &AppError{Type: ErrTypeColumnNotFound, Message: "column not found"}
	ErrInvalidCaption  = &AppError{Type: ErrTypeInvalidCaption, Message: "caption must be exactly three strings"}
	ErrEmptyTable      = &AppError{Type: ErrTypeEmptyTable, Message: "table has no columns to plot"}
	ErrInvalidSeries   = &AppError{Type: ErrTypeInvalidSeries, Message: "invalid series"}
	ErrUnknownPalette  = &AppError{Type: ErrTypeUnknownPalette, Message: "unknown color scheme"}
	ErrRender          = &AppError{Type: ErrTypeRender, Message: "render failed"}
	ErrExport          = &AppError{Type: ErrTypeExport, Message: "export failed"}
	ErrConfig          = &AppError{Type: ErrTypeConfig, Message: "invalid configuration"}
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError of the same type.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Helper functions for common error types

// NewDataUnavailableError reports a dataset that cannot be read or parsed.
func NewDataUnavailableError(message string, cause error) *AppError {
	return NewAppError(ErrTypeDataUnavailable, message, cause)
}

// NewSchemaMismatchError reports a table whose layout breaks a reshape contract.
func NewSchemaMismatchError(message string) *AppError {
	return NewAppError(ErrTypeSchemaMismatch, message, nil)
}

// NewEmptySelectionError reports a suffix pattern that matched no column.
func NewEmptySelectionError(pattern string) *AppError {
	return NewAppError(ErrTypeEmptySelection, fmt.Sprintf("no column ends with %q", pattern), nil).
		WithContext("pattern", pattern)
}

// NewColumnNotFoundError reports a missing named column.
func NewColumnNotFoundError(column string) *AppError {
	return NewAppError(ErrTypeColumnNotFound, fmt.Sprintf("column %q not found", column), nil).
		WithContext("column", column)
}

// NewInvalidCaptionError reports a caption that is not three strings.
func NewInvalidCaptionError(message string) *AppError {
	return NewAppError(ErrTypeInvalidCaption, message, nil)
}

// NewEmptyTableError reports a chart request without columns.
func NewEmptyTableError() *AppError {
	return NewAppError(ErrTypeEmptyTable, "table has no columns to plot", nil)
}

// NewInvalidSeriesError reports mismatched or empty x/y data.
func NewInvalidSeriesError(message string) *AppError {
	return NewAppError(ErrTypeInvalidSeries, message, nil)
}

// NewUnknownPaletteError reports a color scheme name that is not registered.
func NewUnknownPaletteError(name string) *AppError {
	return NewAppError(ErrTypeUnknownPalette, fmt.Sprintf("unknown color scheme %q", name), nil).
		WithContext("palette", name)
}

// NewRenderError wraps a failure of the plotting backend.
func NewRenderError(message string, cause error) *AppError {
	return NewAppError(ErrTypeRender, message, cause)
}

// NewExportError wraps a failure while writing an export artifact.
func NewExportError(message string, cause error) *AppError {
	return NewAppError(ErrTypeExport, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
