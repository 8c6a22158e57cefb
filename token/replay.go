/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package token

import "io"

type sliceReader struct {
	toks []Token
	pos  int
}

// NewSliceReader replays recorded tokens.
func NewSliceReader(toks []Token) Reader {
	return &sliceReader{toks: toks}
}

func (s *sliceReader) Next() (Token, error) {
	if s.pos >= len(s.toks) {
		return Token{}, io.EOF
	}
	tok := s.toks[s.pos]
	s.pos++
	return tok, nil
}

func (s *sliceReader) Peek() (Kind, error) {
	if s.pos >= len(s.toks) {
		return Invalid, io.EOF
	}
	return s.toks[s.pos].Kind, nil
}

type concatReader struct {
	readers []Reader
}

// Concat reads each reader to exhaustion in turn.
func Concat(readers ...Reader) Reader {
	return &concatReader{readers: readers}
}

func (c *concatReader) Next() (Token, error) {
	for len(c.readers) > 0 {
		tok, err := c.readers[0].Next()
		if err == io.EOF {
			c.readers = c.readers[1:]
			continue
		}
		return tok, err
	}
	return Token{}, io.EOF
}

func (c *concatReader) Peek() (Kind, error) {
	for len(c.readers) > 0 {
		k, err := c.readers[0].Peek()
		if err == io.EOF {
			c.readers = c.readers[1:]
			continue
		}
		return k, err
	}
	return Invalid, io.EOF
}

// Recorder is a Writer that keeps the tokens written to it.
type Recorder struct {
	Tokens []Token
}

func (r *Recorder) emit(tok Token) error {
	r.Tokens = append(r.Tokens, tok)
	return nil
}

func (r *Recorder) BeginObject() error          { return r.emit(Token{Kind: BeginObject}) }
func (r *Recorder) EndObject() error            { return r.emit(Token{Kind: EndObject}) }
func (r *Recorder) BeginArray() error           { return r.emit(Token{Kind: BeginArray}) }
func (r *Recorder) EndArray() error             { return r.emit(Token{Kind: EndArray}) }
func (r *Recorder) Property(name string) error  { return r.emit(Token{Kind: Property, Value: name}) }
func (r *Recorder) String(s string) error       { return r.emit(Token{Kind: String, Value: s}) }
func (r *Recorder) Number(literal string) error { return r.emit(Token{Kind: Number, Value: literal}) }
func (r *Recorder) Bool(b bool) error           { return r.emit(Token{Kind: Bool, Bool: b}) }
func (r *Recorder) Null() error                 { return r.emit(Token{Kind: Null}) }
func (r *Recorder) Flush() error                { return nil }
