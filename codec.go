/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package polycodec

import (
	"bytes"
	"io"
	"reflect"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/polycodec/errors"
	"github.com/suparena/polycodec/token"
	"github.com/suparena/polycodec/token/attrvalue"
)

// Encode writes v using the converter for its dynamic type.
func (o *Options) Encode(w token.Writer, v any) error {
	if v == nil {
		return w.Null()
	}
	return o.EncodeValue(w, reflect.ValueOf(v))
}

// EncodeValue writes v using the converter for v.Type(). Passing a value of
// interface type makes the discriminator part of the output.
func (o *Options) EncodeValue(w token.Writer, v reflect.Value) error {
	if !v.IsValid() {
		return w.Null()
	}
	conv, err := o.resolver.ConverterFor(v.Type())
	if err != nil {
		return err
	}
	return conv.Write(w, v)
}

// Decode reads one value into target, which must be a non-nil pointer. On
// failure *target is left unchanged.
func (o *Options) Decode(r token.Reader, target any) error {
	if target == nil {
		return errors.NewDecodeError("<nil>", "target must be a non-nil pointer")
	}
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.NewDecodeError(reflect.TypeOf(target).String(), "target must be a non-nil pointer")
	}
	return o.DecodeValue(r, rv.Elem())
}

// DecodeValue reads one value into the settable v.
func (o *Options) DecodeValue(r token.Reader, v reflect.Value) error {
	if !v.CanSet() {
		return errors.NewDecodeError(v.Type().String(), "target is not settable")
	}
	conv, err := o.resolver.ConverterFor(v.Type())
	if err != nil {
		return err
	}
	return conv.Read(r, v)
}

// Marshal encodes v as JSON.
func (o *Options) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	w := token.NewJSONWriter(&buf)
	if err := o.Encode(w, v); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalAs encodes v as JSON through its declared type T. With an
// interface T the discriminator is written.
func MarshalAs[T any](o *Options, v T) ([]byte, error) {
	var buf bytes.Buffer
	w := token.NewJSONWriter(&buf)
	if err := o.EncodeValue(w, reflect.ValueOf(&v).Elem()); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a single JSON document into target.
func (o *Options) Unmarshal(data []byte, target any) error {
	r := token.NewJSONReader(bytes.NewReader(data))
	if err := o.Decode(r, target); err != nil {
		return err
	}
	return expectEnd(r)
}

// MarshalAttributeValue encodes v as a DynamoDB attribute value.
func (o *Options) MarshalAttributeValue(v any) (types.AttributeValue, error) {
	w := attrvalue.NewWriter()
	if err := o.Encode(w, v); err != nil {
		return nil, err
	}
	return w.Value()
}

// UnmarshalAttributeValue decodes av into target.
func (o *Options) UnmarshalAttributeValue(av types.AttributeValue, target any) error {
	r, err := attrvalue.NewReader(av)
	if err != nil {
		return err
	}
	return o.Decode(r, target)
}

// MarshalItem encodes v through its declared type T as a DynamoDB item. v
// must encode as an object.
func MarshalItem[T any](o *Options, v T) (map[string]types.AttributeValue, error) {
	w := attrvalue.NewWriter()
	if err := o.EncodeValue(w, reflect.ValueOf(&v).Elem()); err != nil {
		return nil, err
	}
	return w.Item()
}

// UnmarshalItem decodes a DynamoDB item into target.
func (o *Options) UnmarshalItem(item map[string]types.AttributeValue, target any) error {
	r, err := attrvalue.NewItemReader(item)
	if err != nil {
		return err
	}
	return o.Decode(r, target)
}

func expectEnd(r token.Reader) error {
	_, err := r.Peek()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	return errors.NewDecodeError("", "unexpected data after the top-level value")
}
