package commands

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-sitecms/internal/bilingual"
	schemavalidation "github.com/goliatone/go-sitecms/internal/validation"
)

const (
	commandValidationCode   = "COMMAND_VALIDATION_FAILED"
	commandPermissionDenied = "COMMAND_PERMISSION_DENIED"
	commandContextCanceled  = "COMMAND_CONTEXT_CANCELED"
	commandContextTimeout   = "COMMAND_CONTEXT_TIMEOUT"
	commandContextErrorCode = "COMMAND_CONTEXT_ERROR"
	commandExecuteFailed    = "COMMAND_EXECUTION_FAILED"
)

func wrapValidationError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command validation failed").
		WithTextCode(commandValidationCode)
}

func wrapPermissionError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command not permitted").
		WithTextCode(commandPermissionDenied)
}

func wrapContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution cancelled").
			WithTextCode(commandContextCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution deadline exceeded").
			WithTextCode(commandContextTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command context error").
			WithTextCode(commandContextErrorCode)
	}
}

// wrapExecuteError tags service failures. Service validation errors keep
// the validation category so callers can report them field by field.
func wrapExecuteError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	if isValidationFailure(err) {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "command input rejected").
			WithTextCode(commandValidationCode)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
		WithTextCode(commandExecuteFailed)
}

// fieldMessages is implemented by contact form errors.
type fieldMessages interface {
	error
	Map() map[string]string
}

func isValidationFailure(err error) bool {
	var ozzoErrs validation.Errors
	if errors.As(err, &ozzoErrs) {
		return true
	}
	var fm fieldMessages
	if errors.As(err, &fm) {
		return true
	}
	return errors.Is(err, bilingual.ErrInvalidValue) ||
		errors.Is(err, bilingual.ErrUnknownField) ||
		errors.Is(err, schemavalidation.ErrSchemaValidation)
}
