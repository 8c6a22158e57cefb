/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrConfiguration is returned when the codec configuration is invalid
	ErrConfiguration = errors.New("invalid configuration")

	// ErrUnsupportedType is returned when no converter can handle a type
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrUnknownDiscriminator is returned when a discriminator has no concrete type mapping
	ErrUnknownDiscriminator = errors.New("unknown discriminator")

	// ErrNoConvention is returned when a polymorphic slot has no owning convention
	ErrNoConvention = errors.New("no discriminator convention")

	// ErrInvalidInput is returned when the token stream does not match the target type
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when a stored entity is not found
	ErrNotFound = errors.New("entity not found")

	// ErrNoIndexMap is returned when no index map is registered for a concrete type
	ErrNoIndexMap = errors.New("no index map found for type")
)

// ConfigurationError represents a rejected registration or option
type ConfigurationError struct {
	Op      string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// UnsupportedTypeError represents a type no factory or shape branch can handle
type UnsupportedTypeError struct {
	Type   string
	Reason string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("type %s is not supported: %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("type %s is not supported", e.Type)
}

func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

// UnknownDiscriminatorError represents a discriminator value read from input
// that does not map to a concrete type assignable to the expected one
type UnknownDiscriminatorError struct {
	Value    string
	Expected string
}

func (e *UnknownDiscriminatorError) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("unknown discriminator %q for type %s", e.Value, e.Expected)
	}
	return fmt.Sprintf("unknown discriminator %q", e.Value)
}

func (e *UnknownDiscriminatorError) Is(target error) bool {
	return target == ErrUnknownDiscriminator
}

// NoConventionError represents an interface slot that cannot be decoded
// because no convention owns its type
type NoConventionError struct {
	Type string
}

func (e *NoConventionError) Error() string {
	return fmt.Sprintf("no discriminator convention registered for %s", e.Type)
}

func (e *NoConventionError) Is(target error) bool {
	return target == ErrNoConvention
}

// DecodeError represents input that cannot be decoded into the target type
type DecodeError struct {
	Type    string
	Message string
}

func (e *DecodeError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("cannot decode %s: %s", e.Type, e.Message)
	}
	return fmt.Sprintf("cannot decode: %s", e.Message)
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NotFoundError represents a key with no stored entity
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NoIndexMapError represents a concrete type stored without key templates
type NoIndexMapError struct {
	Type string
}

func (e *NoIndexMapError) Error() string {
	return fmt.Sprintf("no index map registered for %s", e.Type)
}

func (e *NoIndexMapError) Is(target error) bool {
	return target == ErrNoIndexMap
}

// Helper functions for creating errors

// NewConfigurationError creates a new ConfigurationError
func NewConfigurationError(op, message string) error {
	return &ConfigurationError{Op: op, Message: message}
}

// NewUnsupportedTypeError creates a new UnsupportedTypeError
func NewUnsupportedTypeError(typeName, reason string) error {
	return &UnsupportedTypeError{Type: typeName, Reason: reason}
}

// NewUnknownDiscriminatorError creates a new UnknownDiscriminatorError
func NewUnknownDiscriminatorError(value, expected string) error {
	return &UnknownDiscriminatorError{Value: value, Expected: expected}
}

// NewNoConventionError creates a new NoConventionError
func NewNoConventionError(typeName string) error {
	return &NoConventionError{Type: typeName}
}

// NewDecodeError creates a new DecodeError
func NewDecodeError(typeName, format string, args ...any) error {
	return &DecodeError{Type: typeName, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entityType, key string) error {
	return &NotFoundError{Type: entityType, Key: key}
}

// NewNoIndexMapError creates a new NoIndexMapError
func NewNoIndexMapError(typeName string) error {
	return &NoIndexMapError{Type: typeName}
}

// IsConfiguration checks if an error is a configuration error
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsUnsupportedType checks if an error is an unsupported type error
func IsUnsupportedType(err error) bool {
	return errors.Is(err, ErrUnsupportedType)
}

// IsUnknownDiscriminator checks if an error is an unknown discriminator error
func IsUnknownDiscriminator(err error) bool {
	return errors.Is(err, ErrUnknownDiscriminator)
}

// IsNoConvention checks if an error is a missing convention error
func IsNoConvention(err error) bool {
	return errors.Is(err, ErrNoConvention)
}

// IsDecodeError checks if an error is a decode error
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsNoIndexMap checks if an error is a missing index map error
func IsNoIndexMap(err error) bool {
	return errors.Is(err, ErrNoIndexMap)
}
