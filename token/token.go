/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package token

import (
	"fmt"
	"io"

	"github.com/suparena/polycodec/errors"
)

// Kind classifies a token.
type Kind int

const (
	Invalid Kind = iota
	BeginObject
	EndObject
	BeginArray
	EndArray
	Property
	String
	Number
	Bool
	Null
)

func (k Kind) String() string {
	switch k {
	case BeginObject:
		return "BeginObject"
	case EndObject:
		return "EndObject"
	case BeginArray:
		return "BeginArray"
	case EndArray:
		return "EndArray"
	case Property:
		return "Property"
	case String:
		return "String"
	case Number:
		return "Number"
	case Bool:
		return "Bool"
	case Null:
		return "Null"
	default:
		return "Invalid"
	}
}

// Token is one element of a structured stream. Value carries the property
// name, the string, or the number literal.
type Token struct {
	Kind  Kind
	Value string
	Bool  bool
}

func (t Token) String() string {
	switch t.Kind {
	case Property, String, Number:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Value)
	case Bool:
		return fmt.Sprintf("Bool(%t)", t.Bool)
	default:
		return t.Kind.String()
	}
}

// Reader is a forward-only token cursor. Next and Peek return io.EOF at the
// end of input.
type Reader interface {
	Next() (Token, error)
	Peek() (Kind, error)
}

// Writer is an append-only token sink.
type Writer interface {
	BeginObject() error
	EndObject() error
	BeginArray() error
	EndArray() error
	Property(name string) error
	String(s string) error
	Number(literal string) error
	Bool(b bool) error
	Null() error
	Flush() error
}

// Expect reads the next token and fails unless it has kind k.
func Expect(r Reader, k Kind) (Token, error) {
	tok, err := r.Next()
	if err != nil {
		if err == io.EOF {
			return tok, errors.NewDecodeError("", "unexpected end of input, expected %s", k)
		}
		return tok, err
	}
	if tok.Kind != k {
		return tok, errors.NewDecodeError("", "expected %s, got %s", k, tok)
	}
	return tok, nil
}

// Skip consumes one complete value.
func Skip(r Reader) error {
	_, err := capture(r, nil)
	return err
}

// Capture consumes one complete value and returns its tokens.
func Capture(r Reader) ([]Token, error) {
	return capture(r, make([]Token, 0, 8))
}

func capture(r Reader, out []Token) ([]Token, error) {
	depth := 0
	for {
		tok, err := r.Next()
		if err != nil {
			if err == io.EOF {
				return out, errors.NewDecodeError("", "unexpected end of input")
			}
			return out, err
		}
		if out != nil {
			out = append(out, tok)
		}
		switch tok.Kind {
		case BeginObject, BeginArray:
			depth++
		case EndObject, EndArray:
			depth--
		case Property:
			continue
		}
		if depth <= 0 {
			return out, nil
		}
	}
}

// WriteToken emits tok to w.
func WriteToken(w Writer, tok Token) error {
	switch tok.Kind {
	case BeginObject:
		return w.BeginObject()
	case EndObject:
		return w.EndObject()
	case BeginArray:
		return w.BeginArray()
	case EndArray:
		return w.EndArray()
	case Property:
		return w.Property(tok.Value)
	case String:
		return w.String(tok.Value)
	case Number:
		return w.Number(tok.Value)
	case Bool:
		return w.Bool(tok.Bool)
	case Null:
		return w.Null()
	default:
		return fmt.Errorf("token: cannot write %s", tok)
	}
}

// Copy moves one complete value from r to w.
func Copy(w Writer, r Reader) error {
	toks, err := Capture(r)
	if err != nil {
		return err
	}
	for _, tok := range toks {
		if err := WriteToken(w, tok); err != nil {
			return err
		}
	}
	return nil
}
