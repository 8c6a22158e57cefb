/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestConfigurationError(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		message  string
		expected string
	}{
		{
			name:     "with op",
			op:       "RegisterConvention",
			message:  "convention must not be nil",
			expected: "RegisterConvention: convention must not be nil",
		},
		{
			name:     "without op",
			message:  "policy is unknown",
			expected: "configuration error: policy is unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConfigurationError(tt.op, tt.message)

			if err.Error() != tt.expected {
				t.Errorf("Expected error message %q, got %q", tt.expected, err.Error())
			}
			if !IsConfiguration(err) {
				t.Error("IsConfiguration should return true for ConfigurationError")
			}
		})
	}
}

func TestUnknownDiscriminatorError(t *testing.T) {
	err := NewUnknownDiscriminatorError("Unicorn", "shapes.Shape")

	expected := `unknown discriminator "Unicorn" for type shapes.Shape`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !errors.Is(err, ErrUnknownDiscriminator) {
		t.Error("UnknownDiscriminatorError should match ErrUnknownDiscriminator")
	}

	var ude *UnknownDiscriminatorError
	if !errors.As(err, &ude) {
		t.Fatal("errors.As should extract UnknownDiscriminatorError")
	}
	if ude.Value != "Unicorn" || ude.Expected != "shapes.Shape" {
		t.Errorf("unexpected fields: %+v", ude)
	}

	bare := NewUnknownDiscriminatorError("X", "")
	if bare.Error() != `unknown discriminator "X"` {
		t.Errorf("unexpected message %q", bare.Error())
	}
}

func TestUnsupportedTypeError(t *testing.T) {
	err := NewUnsupportedTypeError("chan int", "no converter factory")

	expected := "type chan int is not supported: no converter factory"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
	if !IsUnsupportedType(err) {
		t.Error("IsUnsupportedType should return true for UnsupportedTypeError")
	}
}

func TestNoConventionAndDecodeErrors(t *testing.T) {
	noConv := NewNoConventionError("io.Reader")
	if !IsNoConvention(noConv) {
		t.Error("IsNoConvention should return true for NoConventionError")
	}

	dec := NewDecodeError("[3]int", "expected %d elements, got %d", 3, 2)
	if dec.Error() != "cannot decode [3]int: expected 3 elements, got 2" {
		t.Errorf("unexpected message %q", dec.Error())
	}
	if !IsDecodeError(dec) {
		t.Error("IsDecodeError should return true for DecodeError")
	}
}

func TestErrorWrapping(t *testing.T) {
	baseErr := NewUnknownDiscriminatorError("Ghost", "any")
	wrappedErr := fmt.Errorf("failed to decode item 3: %w", baseErr)

	if !errors.Is(wrappedErr, ErrUnknownDiscriminator) {
		t.Error("Wrapped error should match ErrUnknownDiscriminator")
	}
	if !IsUnknownDiscriminator(wrappedErr) {
		t.Error("IsUnknownDiscriminator should work with wrapped errors")
	}

	if IsConfiguration(wrappedErr) {
		t.Error("Wrapped error should not match ErrConfiguration")
	}
	if IsUnsupportedType(wrappedErr) {
		t.Error("Wrapped error should not match ErrUnsupportedType")
	}
}

func TestStorageErrors(t *testing.T) {
	nf := NewNotFoundError("Circle", "c-1")
	if nf.Error() != `Circle with key "c-1" not found` {
		t.Errorf("unexpected message %q", nf.Error())
	}
	if !IsNotFound(fmt.Errorf("GetOne: %w", nf)) {
		t.Error("IsNotFound should work with wrapped errors")
	}

	nim := NewNoIndexMapError("shapes.Square")
	if !IsNoIndexMap(nim) {
		t.Error("IsNoIndexMap should return true for NoIndexMapError")
	}
	if IsNotFound(nim) {
		t.Error("NoIndexMapError should not match ErrNotFound")
	}

	var target *NotFoundError
	if !errors.As(fmt.Errorf("wrapped: %w", nf), &target) || target.Key != "c-1" {
		t.Errorf("errors.As should extract NotFoundError, got %+v", target)
	}
}
