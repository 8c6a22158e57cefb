/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package token

import (
	"bytes"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/suparena/polycodec/errors"
)

func readAll(t *testing.T, r Reader) []Token {
	t.Helper()
	var out []Token
	for {
		tok, err := r.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		out = append(out, tok)
	}
}

func TestJSONReader(t *testing.T) {
	input := `{"$type":"Circle","tags":["a",1.5,true,null],"inner":{"k":"v"}}`
	got := readAll(t, NewJSONReader(strings.NewReader(input)))
	expected := []Token{
		{Kind: BeginObject},
		{Kind: Property, Value: "$type"},
		{Kind: String, Value: "Circle"},
		{Kind: Property, Value: "tags"},
		{Kind: BeginArray},
		{Kind: String, Value: "a"},
		{Kind: Number, Value: "1.5"},
		{Kind: Bool, Bool: true},
		{Kind: Null},
		{Kind: EndArray},
		{Kind: Property, Value: "inner"},
		{Kind: BeginObject},
		{Kind: Property, Value: "k"},
		{Kind: String, Value: "v"},
		{Kind: EndObject},
		{Kind: EndObject},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("Unexpected tokens:\n got %v\nwant %v", got, expected)
	}

	t.Run("Peek", func(t *testing.T) {
		r := NewJSONReader(strings.NewReader(`["x"]`))
		k, err := r.Peek()
		if err != nil || k != BeginArray {
			t.Fatalf("Expected BeginArray, got %v (%v)", k, err)
		}
		tok, _ := r.Next()
		if tok.Kind != BeginArray {
			t.Fatalf("Next after Peek should return the peeked token, got %v", tok)
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		r := NewJSONReader(strings.NewReader(`{"a":}`))
		var err error
		for err == nil {
			_, err = r.Next()
		}
		if !errors.IsDecodeError(err) {
			t.Fatalf("Expected DecodeError, got %v", err)
		}
	})
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(&buf)
	toks := []Token{
		{Kind: BeginObject},
		{Kind: Property, Value: "$type"},
		{Kind: String, Value: "Sq\"uare"},
		{Kind: Property, Value: "sides"},
		{Kind: BeginArray},
		{Kind: Number, Value: "1"},
		{Kind: Number, Value: "2"},
		{Kind: BeginObject},
		{Kind: EndObject},
		{Kind: EndArray},
		{Kind: Property, Value: "ok"},
		{Kind: Bool, Bool: false},
		{Kind: Property, Value: "none"},
		{Kind: Null},
		{Kind: EndObject},
	}
	for _, tok := range toks {
		if err := WriteToken(w, tok); err != nil {
			t.Fatalf("WriteToken(%v) failed: %v", tok, err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	expected := `{"$type":"Sq\"uare","sides":[1,2,{}],"ok":false,"none":null}`
	if buf.String() != expected {
		t.Fatalf("Expected %s, got %s", expected, buf.String())
	}

	if err := NewJSONWriter(&buf).Number("NaN"); err == nil {
		t.Fatal("Expected error for NaN literal")
	}
}

func TestCaptureAndReplay(t *testing.T) {
	r := NewJSONReader(strings.NewReader(`{"a":[1,{"b":2}]} "next"`))
	captured, err := Capture(r)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if len(captured) != 10 {
		t.Fatalf("Expected 10 tokens, got %d: %v", len(captured), captured)
	}

	tok, err := r.Next()
	if err != nil || tok.Kind != String || tok.Value != "next" {
		t.Fatalf("Capture should stop after one value, got %v (%v)", tok, err)
	}

	replay := Concat(NewSliceReader(captured[:1]), NewSliceReader(captured[1:]))
	if k, _ := replay.Peek(); k != BeginObject {
		t.Fatalf("Expected BeginObject, got %v", k)
	}
	if got := readAll(t, replay); !reflect.DeepEqual(got, captured) {
		t.Fatalf("Replay mismatch:\n got %v\nwant %v", got, captured)
	}

	t.Run("SkipScalar", func(t *testing.T) {
		r := NewSliceReader([]Token{{Kind: Number, Value: "3"}, {Kind: Null}})
		if err := Skip(r); err != nil {
			t.Fatalf("Skip failed: %v", err)
		}
		if k, _ := r.Peek(); k != Null {
			t.Fatalf("Expected Null after skip, got %v", k)
		}
	})

	t.Run("Truncated", func(t *testing.T) {
		r := NewSliceReader([]Token{{Kind: BeginArray}, {Kind: Number, Value: "1"}})
		if _, err := Capture(r); !errors.IsDecodeError(err) {
			t.Fatalf("Expected DecodeError, got %v", err)
		}
	})

	t.Run("Expect", func(t *testing.T) {
		r := NewSliceReader([]Token{{Kind: String, Value: "x"}})
		if _, err := Expect(r, BeginObject); !errors.IsDecodeError(err) {
			t.Fatalf("Expected DecodeError, got %v", err)
		}
	})
}

func TestRecorder(t *testing.T) {
	var rec Recorder
	r := NewJSONReader(strings.NewReader(`{"x":[true]}`))
	if err := Copy(&rec, r); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	expected := []Token{
		{Kind: BeginObject},
		{Kind: Property, Value: "x"},
		{Kind: BeginArray},
		{Kind: Bool, Bool: true},
		{Kind: EndArray},
		{Kind: EndObject},
	}
	if !reflect.DeepEqual(rec.Tokens, expected) {
		t.Fatalf("Unexpected tokens %v", rec.Tokens)
	}
}
