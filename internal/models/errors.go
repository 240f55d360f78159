package models

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError indicates the subject entity of a request does not exist
type NotFoundError struct {
	Entity string
	ID     int64
	Err    error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entity string, id int64, err error) *NotFoundError {
	return &NotFoundError{
		Entity: entity,
		ID:     id,
		Err:    err,
	}
}

// InsufficientInputError indicates the caller supplied too few items
type InsufficientInputError struct {
	Operation string
	Required  int
	Got       int
}

func (e *InsufficientInputError) Error() string {
	return fmt.Sprintf("%s requires at least %d items, got %d", e.Operation, e.Required, e.Got)
}

// NewInsufficientInputError creates a new InsufficientInputError
func NewInsufficientInputError(operation string, required, got int) *InsufficientInputError {
	return &InsufficientInputError{
		Operation: operation,
		Required:  required,
		Got:       got,
	}
}

// ValidationError represents malformed caller input
type ValidationError struct {
	Field  string
	Value  string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("invalid %s '%s': %s", e.Field, e.Value, e.Detail)
	}
	return fmt.Sprintf("invalid %s '%s'", e.Field, e.Value)
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, value, detail string) *ValidationError {
	return &ValidationError{
		Field:  field,
		Value:  value,
		Detail: detail,
	}
}

// UnknownPurposeError is returned when no template is registered for a purpose
type UnknownPurposeError struct {
	Purpose Purpose
}

func (e *UnknownPurposeError) Error() string {
	return fmt.Sprintf("unknown prompt purpose: %s", e.Purpose)
}

// NewUnknownPurposeError creates a new UnknownPurposeError
func NewUnknownPurposeError(purpose Purpose) *UnknownPurposeError {
	return &UnknownPurposeError{Purpose: purpose}
}

// TemplateBindingError is returned when supplied slots do not match a template
type TemplateBindingError struct {
	Purpose    Purpose
	Missing    []string
	Unexpected []string
	Err        error
}

func (e *TemplateBindingError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing slots: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Unexpected) > 0 {
		parts = append(parts, "undeclared slots: "+strings.Join(e.Unexpected, ", "))
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return fmt.Sprintf("template binding error for %s: %s", e.Purpose, strings.Join(parts, "; "))
}

func (e *TemplateBindingError) Unwrap() error {
	return e.Err
}

// NewTemplateBindingError creates a new TemplateBindingError
func NewTemplateBindingError(purpose Purpose, missing, unexpected []string, err error) *TemplateBindingError {
	return &TemplateBindingError{
		Purpose:    purpose,
		Missing:    missing,
		Unexpected: unexpected,
		Err:        err,
	}
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsInsufficientInput reports whether err is an InsufficientInputError
func IsInsufficientInput(err error) bool {
	var target *InsufficientInputError
	return errors.As(err, &target)
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
