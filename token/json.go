/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package token

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/suparena/polycodec/errors"
)

type jsonFrame struct {
	object  bool
	wantKey bool
}

// JSONReader turns encoding/json's streaming tokens into Tokens, telling
// property names apart from string values.
type JSONReader struct {
	dec    *json.Decoder
	frames []jsonFrame
	peeked *Token
	err    error
}

// NewJSONReader reads one or more JSON values from r.
func NewJSONReader(r io.Reader) *JSONReader {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &JSONReader{dec: dec}
}

func (j *JSONReader) Peek() (Kind, error) {
	if j.peeked == nil {
		tok, err := j.read()
		if err != nil {
			return Invalid, err
		}
		j.peeked = &tok
	}
	return j.peeked.Kind, nil
}

func (j *JSONReader) Next() (Token, error) {
	if j.peeked != nil {
		tok := *j.peeked
		j.peeked = nil
		return tok, nil
	}
	return j.read()
}

func (j *JSONReader) read() (Token, error) {
	if j.err != nil {
		return Token{}, j.err
	}
	raw, err := j.dec.Token()
	if err != nil {
		if err != io.EOF {
			err = errors.NewDecodeError("", "malformed JSON: %v", err)
		}
		j.err = err
		return Token{}, err
	}

	if n := len(j.frames); n > 0 && j.frames[n-1].object && j.frames[n-1].wantKey {
		if name, ok := raw.(string); ok {
			j.frames[n-1].wantKey = false
			return Token{Kind: Property, Value: name}, nil
		}
	}

	switch v := raw.(type) {
	case json.Delim:
		switch v {
		case '{':
			j.frames = append(j.frames, jsonFrame{object: true, wantKey: true})
			return Token{Kind: BeginObject}, nil
		case '[':
			j.frames = append(j.frames, jsonFrame{})
			return Token{Kind: BeginArray}, nil
		case '}':
			j.pop()
			return Token{Kind: EndObject}, nil
		default:
			j.pop()
			return Token{Kind: EndArray}, nil
		}
	case string:
		j.valueDone()
		return Token{Kind: String, Value: v}, nil
	case json.Number:
		j.valueDone()
		return Token{Kind: Number, Value: v.String()}, nil
	case bool:
		j.valueDone()
		return Token{Kind: Bool, Bool: v}, nil
	case nil:
		j.valueDone()
		return Token{Kind: Null}, nil
	default:
		return Token{}, fmt.Errorf("token: unexpected JSON token %T", raw)
	}
}

func (j *JSONReader) pop() {
	if n := len(j.frames); n > 0 {
		j.frames = j.frames[:n-1]
	}
	j.valueDone()
}

func (j *JSONReader) valueDone() {
	if n := len(j.frames); n > 0 && j.frames[n-1].object {
		j.frames[n-1].wantKey = true
	}
}

// JSONWriter writes compact JSON.
type JSONWriter struct {
	w             *bufio.Writer
	first         []bool
	afterProperty bool
}

// NewJSONWriter writes to w. Call Flush when done.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: bufio.NewWriter(w)}
}

// separate writes a comma when the previous sibling needs one.
func (j *JSONWriter) separate() error {
	if j.afterProperty {
		j.afterProperty = false
		return nil
	}
	n := len(j.first)
	if n == 0 {
		return nil
	}
	if j.first[n-1] {
		j.first[n-1] = false
		return nil
	}
	return j.w.WriteByte(',')
}

func (j *JSONWriter) open(c byte) error {
	if err := j.separate(); err != nil {
		return err
	}
	j.first = append(j.first, true)
	return j.w.WriteByte(c)
}

func (j *JSONWriter) close(c byte) error {
	if n := len(j.first); n > 0 {
		j.first = j.first[:n-1]
	}
	return j.w.WriteByte(c)
}

func (j *JSONWriter) raw(s string) error {
	if err := j.separate(); err != nil {
		return err
	}
	_, err := j.w.WriteString(s)
	return err
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func (j *JSONWriter) BeginObject() error { return j.open('{') }
func (j *JSONWriter) EndObject() error   { return j.close('}') }
func (j *JSONWriter) BeginArray() error  { return j.open('[') }
func (j *JSONWriter) EndArray() error    { return j.close(']') }

func (j *JSONWriter) Property(name string) error {
	if err := j.raw(quote(name)); err != nil {
		return err
	}
	if err := j.w.WriteByte(':'); err != nil {
		return err
	}
	j.afterProperty = true
	return nil
}

func (j *JSONWriter) String(s string) error { return j.raw(quote(s)) }

func (j *JSONWriter) Number(literal string) error {
	if literal == "" || !(literal[0] == '-' || (literal[0] >= '0' && literal[0] <= '9')) || !json.Valid([]byte(literal)) {
		return fmt.Errorf("token: invalid number literal %q", literal)
	}
	return j.raw(literal)
}

func (j *JSONWriter) Bool(b bool) error {
	if b {
		return j.raw("true")
	}
	return j.raw("false")
}

func (j *JSONWriter) Null() error  { return j.raw("null") }
func (j *JSONWriter) Flush() error { return j.w.Flush() }
