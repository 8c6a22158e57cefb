/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package converter

import (
	"encoding"
	"encoding/base64"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/suparena/polycodec/errors"
	"github.com/suparena/polycodec/token"
)

var (
	timeType          = reflect.TypeOf(time.Time{})
	durationType      = reflect.TypeOf(time.Duration(0))
	dateTimeType      = reflect.TypeOf(strfmt.DateTime{})
	dateType          = reflect.TypeOf(strfmt.Date{})
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// ScalarFactory handles leaf values: booleans, numbers, strings, byte
// slices, times, durations, strfmt dates and text marshalers.
type ScalarFactory struct{}

// NewScalarFactory creates the factory.
func NewScalarFactory() *ScalarFactory {
	return &ScalarFactory{}
}

func (f *ScalarFactory) CanConvert(t reflect.Type) bool {
	_, ok := scalarFor(t)
	return ok
}

func (f *ScalarFactory) CreateConverter(t reflect.Type) (Converter, error) {
	conv, ok := scalarFor(t)
	if !ok {
		return nil, errors.NewUnsupportedTypeError(t.String(), "not a scalar")
	}
	return conv, nil
}

func scalarFor(t reflect.Type) (Converter, bool) {
	switch t {
	case timeType:
		return timeConverter{}, true
	case durationType:
		return durationConverter{}, true
	case dateTimeType:
		return dateTimeConverter{}, true
	case dateType:
		return dateConverter{}, true
	}
	if isTextual(t) {
		return textConverter{t: t}, true
	}

	switch t.Kind() {
	case reflect.Bool:
		return boolConverter{t: t}, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intConverter{t: t}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return uintConverter{t: t}, true
	case reflect.Float32, reflect.Float64:
		return floatConverter{t: t}, true
	case reflect.String:
		return stringConverter{t: t}, true
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 && !isTextual(t.Elem()) {
			return bytesConverter{t: t}, true
		}
	}
	return nil, false
}

// isTextual reports whether t round-trips through MarshalText and
// UnmarshalText. String kinds keep their plain encoding.
func isTextual(t reflect.Type) bool {
	if t.Kind() == reflect.String || t.Kind() == reflect.Pointer || t.Kind() == reflect.Interface {
		return false
	}
	return t.Implements(textMarshalerType) && reflect.PointerTo(t).Implements(textUnmarshalType)
}

// readScalar reads one scalar token of kind k, or reports a mismatch.
func readScalar(r token.Reader, t reflect.Type, kinds ...token.Kind) (token.Token, error) {
	tok, err := r.Next()
	if err != nil {
		return tok, eofAsDecode(err)
	}
	for _, k := range kinds {
		if tok.Kind == k {
			return tok, nil
		}
	}
	return tok, mismatch(t, tok)
}

type boolConverter struct{ t reflect.Type }

func (c boolConverter) Read(r token.Reader, target reflect.Value) error {
	tok, err := readScalar(r, c.t, token.Bool)
	if err != nil {
		return err
	}
	target.SetBool(tok.Bool)
	return nil
}

func (c boolConverter) Write(w token.Writer, v reflect.Value) error {
	return w.Bool(v.Bool())
}

type intConverter struct{ t reflect.Type }

func (c intConverter) Read(r token.Reader, target reflect.Value) error {
	tok, err := readScalar(r, c.t, token.Number)
	if err != nil {
		return err
	}
	n, err := parseInt(tok.Value, c.t.Bits())
	if err != nil {
		return errors.NewDecodeError(c.t.String(), "%v", err)
	}
	target.SetInt(n)
	return nil
}

func (c intConverter) Write(w token.Writer, v reflect.Value) error {
	return w.Number(strconv.FormatInt(v.Int(), 10))
}

// parseInt accepts integral literals in exponent form such as 1e3.
func parseInt(lit string, bits int) (int64, error) {
	n, err := strconv.ParseInt(lit, 10, bits)
	if err == nil {
		return n, nil
	}
	f, ferr := strconv.ParseFloat(lit, 64)
	if ferr != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("%q is not an integer", lit)
	}
	limit := math.Ldexp(1, bits-1)
	if f < -limit || f >= limit {
		return 0, fmt.Errorf("%q overflows int%d", lit, bits)
	}
	return int64(f), nil
}

type uintConverter struct{ t reflect.Type }

func (c uintConverter) Read(r token.Reader, target reflect.Value) error {
	tok, err := readScalar(r, c.t, token.Number)
	if err != nil {
		return err
	}
	n, err := strconv.ParseUint(tok.Value, 10, c.t.Bits())
	if err != nil {
		return errors.NewDecodeError(c.t.String(), "%q is not a valid %s", tok.Value, c.t)
	}
	target.SetUint(n)
	return nil
}

func (c uintConverter) Write(w token.Writer, v reflect.Value) error {
	return w.Number(strconv.FormatUint(v.Uint(), 10))
}

type floatConverter struct{ t reflect.Type }

func (c floatConverter) Read(r token.Reader, target reflect.Value) error {
	tok, err := readScalar(r, c.t, token.Number)
	if err != nil {
		return err
	}
	f, err := strconv.ParseFloat(tok.Value, c.t.Bits())
	if err != nil {
		return errors.NewDecodeError(c.t.String(), "%q is not a valid %s", tok.Value, c.t)
	}
	target.SetFloat(f)
	return nil
}

func (c floatConverter) Write(w token.Writer, v reflect.Value) error {
	f := v.Float()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return errors.NewUnsupportedTypeError(c.t.String(), fmt.Sprintf("cannot encode %v", f))
	}
	return w.Number(strconv.FormatFloat(f, 'g', -1, c.t.Bits()))
}

type stringConverter struct{ t reflect.Type }

func (c stringConverter) Read(r token.Reader, target reflect.Value) error {
	tok, err := readScalar(r, c.t, token.String)
	if err != nil {
		return err
	}
	target.SetString(tok.Value)
	return nil
}

func (c stringConverter) Write(w token.Writer, v reflect.Value) error {
	return w.String(v.String())
}

type bytesConverter struct{ t reflect.Type }

func (c bytesConverter) Read(r token.Reader, target reflect.Value) error {
	tok, err := readScalar(r, c.t, token.String, token.Null)
	if err != nil {
		return err
	}
	if tok.Kind == token.Null {
		target.Set(reflect.Zero(c.t))
		return nil
	}
	b, err := base64.StdEncoding.DecodeString(tok.Value)
	if err != nil {
		return errors.NewDecodeError(c.t.String(), "invalid base64: %v", err)
	}
	target.SetBytes(b)
	return nil
}

func (c bytesConverter) Write(w token.Writer, v reflect.Value) error {
	if v.IsNil() {
		return w.Null()
	}
	return w.String(base64.StdEncoding.EncodeToString(v.Bytes()))
}

type timeConverter struct{}

func (timeConverter) Read(r token.Reader, target reflect.Value) error {
	tok, err := readScalar(r, timeType, token.String)
	if err != nil {
		return err
	}
	ts, err := time.Parse(time.RFC3339Nano, tok.Value)
	if err != nil {
		return errors.NewDecodeError(timeType.String(), "%v", err)
	}
	target.Set(reflect.ValueOf(ts))
	return nil
}

func (timeConverter) Write(w token.Writer, v reflect.Value) error {
	return w.String(v.Interface().(time.Time).Format(time.RFC3339Nano))
}

// durationConverter writes Go duration strings and also reads nanosecond
// counts.
type durationConverter struct{}

func (durationConverter) Read(r token.Reader, target reflect.Value) error {
	tok, err := readScalar(r, durationType, token.String, token.Number)
	if err != nil {
		return err
	}
	if tok.Kind == token.Number {
		n, err := parseInt(tok.Value, 64)
		if err != nil {
			return errors.NewDecodeError(durationType.String(), "%v", err)
		}
		target.SetInt(n)
		return nil
	}
	d, err := time.ParseDuration(tok.Value)
	if err != nil {
		return errors.NewDecodeError(durationType.String(), "%v", err)
	}
	target.SetInt(int64(d))
	return nil
}

func (durationConverter) Write(w token.Writer, v reflect.Value) error {
	return w.String(time.Duration(v.Int()).String())
}

type dateTimeConverter struct{}

func (dateTimeConverter) Read(r token.Reader, target reflect.Value) error {
	tok, err := readScalar(r, dateTimeType, token.String)
	if err != nil {
		return err
	}
	dt, err := strfmt.ParseDateTime(tok.Value)
	if err != nil {
		return errors.NewDecodeError(dateTimeType.String(), "%v", err)
	}
	target.Set(reflect.ValueOf(dt))
	return nil
}

func (dateTimeConverter) Write(w token.Writer, v reflect.Value) error {
	return w.String(v.Interface().(strfmt.DateTime).String())
}

type dateConverter struct{}

func (dateConverter) Read(r token.Reader, target reflect.Value) error {
	tok, err := readScalar(r, dateType, token.String)
	if err != nil {
		return err
	}
	ts, err := time.Parse(strfmt.RFC3339FullDate, tok.Value)
	if err != nil {
		return errors.NewDecodeError(dateType.String(), "%v", err)
	}
	target.Set(reflect.ValueOf(strfmt.Date(ts)))
	return nil
}

func (dateConverter) Write(w token.Writer, v reflect.Value) error {
	return w.String(v.Interface().(strfmt.Date).String())
}

type textConverter struct{ t reflect.Type }

func (c textConverter) Read(r token.Reader, target reflect.Value) error {
	tok, err := readScalar(r, c.t, token.String)
	if err != nil {
		return err
	}
	p := reflect.New(c.t)
	if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(tok.Value)); err != nil {
		return errors.NewDecodeError(c.t.String(), "%v", err)
	}
	target.Set(p.Elem())
	return nil
}

func (c textConverter) Write(w token.Writer, v reflect.Value) error {
	text, err := v.Interface().(encoding.TextMarshaler).MarshalText()
	if err != nil {
		return err
	}
	return w.String(string(text))
}
