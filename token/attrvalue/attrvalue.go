/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package attrvalue

import (
	"encoding/base64"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/suparena/polycodec/token"
)

// NewReader flattens av into a token stream. Map keys are visited in sorted
// order so the stream is deterministic.
func NewReader(av types.AttributeValue) (token.Reader, error) {
	var toks []token.Token
	if err := flatten(av, &toks); err != nil {
		return nil, err
	}
	return token.NewSliceReader(toks), nil
}

// NewItemReader flattens a DynamoDB item as an object.
func NewItemReader(item map[string]types.AttributeValue) (token.Reader, error) {
	return NewReader(&types.AttributeValueMemberM{Value: item})
}

func flatten(av types.AttributeValue, out *[]token.Token) error {
	emit := func(tok token.Token) { *out = append(*out, tok) }

	switch v := av.(type) {
	case nil:
		emit(token.Token{Kind: token.Null})
	case *types.AttributeValueMemberNULL:
		emit(token.Token{Kind: token.Null})
	case *types.AttributeValueMemberS:
		emit(token.Token{Kind: token.String, Value: v.Value})
	case *types.AttributeValueMemberN:
		emit(token.Token{Kind: token.Number, Value: v.Value})
	case *types.AttributeValueMemberBOOL:
		emit(token.Token{Kind: token.Bool, Bool: v.Value})
	case *types.AttributeValueMemberB:
		emit(token.Token{Kind: token.String, Value: base64.StdEncoding.EncodeToString(v.Value)})
	case *types.AttributeValueMemberM:
		emit(token.Token{Kind: token.BeginObject})
		keys := make([]string, 0, len(v.Value))
		for k := range v.Value {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			emit(token.Token{Kind: token.Property, Value: k})
			if err := flatten(v.Value[k], out); err != nil {
				return err
			}
		}
		emit(token.Token{Kind: token.EndObject})
	case *types.AttributeValueMemberL:
		emit(token.Token{Kind: token.BeginArray})
		for _, item := range v.Value {
			if err := flatten(item, out); err != nil {
				return err
			}
		}
		emit(token.Token{Kind: token.EndArray})
	case *types.AttributeValueMemberSS:
		emit(token.Token{Kind: token.BeginArray})
		for _, s := range v.Value {
			emit(token.Token{Kind: token.String, Value: s})
		}
		emit(token.Token{Kind: token.EndArray})
	case *types.AttributeValueMemberNS:
		emit(token.Token{Kind: token.BeginArray})
		for _, n := range v.Value {
			emit(token.Token{Kind: token.Number, Value: n})
		}
		emit(token.Token{Kind: token.EndArray})
	case *types.AttributeValueMemberBS:
		emit(token.Token{Kind: token.BeginArray})
		for _, b := range v.Value {
			emit(token.Token{Kind: token.String, Value: base64.StdEncoding.EncodeToString(b)})
		}
		emit(token.Token{Kind: token.EndArray})
	default:
		return fmt.Errorf("attrvalue: unsupported attribute value %T", av)
	}
	return nil
}

type frame struct {
	m      map[string]types.AttributeValue
	l      []types.AttributeValue
	key    string
	isM    bool
	hasKey bool
}

// Writer builds an attribute value tree from tokens.
type Writer struct {
	stack []*frame
	root  types.AttributeValue
	done  bool
}

// NewWriter creates an empty writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Value returns the completed tree.
func (w *Writer) Value() (types.AttributeValue, error) {
	if !w.done {
		return nil, fmt.Errorf("attrvalue: value is incomplete")
	}
	return w.root, nil
}

// Item returns the completed tree as a DynamoDB item.
func (w *Writer) Item() (map[string]types.AttributeValue, error) {
	av, err := w.Value()
	if err != nil {
		return nil, err
	}
	m, ok := av.(*types.AttributeValueMemberM)
	if !ok {
		return nil, fmt.Errorf("attrvalue: top-level value is %T, not a map", av)
	}
	return m.Value, nil
}

func (w *Writer) put(av types.AttributeValue) error {
	if len(w.stack) == 0 {
		if w.done {
			return fmt.Errorf("attrvalue: only one top-level value may be written")
		}
		w.root = av
		w.done = true
		return nil
	}
	top := w.stack[len(w.stack)-1]
	if top.isM {
		if !top.hasKey {
			return fmt.Errorf("attrvalue: map value written without a property name")
		}
		top.m[top.key] = av
		top.hasKey = false
		return nil
	}
	top.l = append(top.l, av)
	return nil
}

func (w *Writer) BeginObject() error {
	w.stack = append(w.stack, &frame{m: make(map[string]types.AttributeValue), isM: true})
	return nil
}

func (w *Writer) EndObject() error {
	top, err := w.pop(true)
	if err != nil {
		return err
	}
	return w.put(&types.AttributeValueMemberM{Value: top.m})
}

func (w *Writer) BeginArray() error {
	w.stack = append(w.stack, &frame{l: []types.AttributeValue{}})
	return nil
}

func (w *Writer) EndArray() error {
	top, err := w.pop(false)
	if err != nil {
		return err
	}
	return w.put(&types.AttributeValueMemberL{Value: top.l})
}

func (w *Writer) pop(isM bool) (*frame, error) {
	n := len(w.stack)
	if n == 0 || w.stack[n-1].isM != isM {
		return nil, fmt.Errorf("attrvalue: unbalanced end token")
	}
	top := w.stack[n-1]
	w.stack = w.stack[:n-1]
	return top, nil
}

func (w *Writer) Property(name string) error {
	n := len(w.stack)
	if n == 0 || !w.stack[n-1].isM {
		return fmt.Errorf("attrvalue: property %q outside of a map", name)
	}
	w.stack[n-1].key = name
	w.stack[n-1].hasKey = true
	return nil
}

func (w *Writer) String(s string) error {
	return w.put(&types.AttributeValueMemberS{Value: s})
}

func (w *Writer) Number(literal string) error {
	return w.put(&types.AttributeValueMemberN{Value: literal})
}

func (w *Writer) Bool(b bool) error {
	return w.put(&types.AttributeValueMemberBOOL{Value: b})
}

func (w *Writer) Null() error {
	return w.put(&types.AttributeValueMemberNULL{Value: true})
}

func (w *Writer) Flush() error {
	if len(w.stack) != 0 {
		return fmt.Errorf("attrvalue: %d containers left open", len(w.stack))
	}
	return nil
}
