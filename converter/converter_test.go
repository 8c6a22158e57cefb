/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package converter

import (
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/suparena/polycodec/errors"
	"github.com/suparena/polycodec/token"
)

type celsius float64

// fixedFactory writes every celsius value as the string "warm".
type fixedFactory struct {
	builds atomic.Int32
}

func (f *fixedFactory) CanConvert(t reflect.Type) bool { return t == reflect.TypeOf(celsius(0)) }

func (f *fixedFactory) CreateConverter(t reflect.Type) (Converter, error) {
	f.builds.Add(1)
	return warmConverter{}, nil
}

type warmConverter struct{}

func (warmConverter) Read(r token.Reader, target reflect.Value) error {
	_, err := token.Expect(r, token.String)
	if err == nil {
		target.SetFloat(30)
	}
	return err
}

func (warmConverter) Write(w token.Writer, v reflect.Value) error { return w.String("warm") }

func TestResolver(t *testing.T) {
	t.Run("Caches", func(t *testing.T) {
		res := newTestResolver(nil)
		typ := reflect.TypeOf([]map[string]int{})
		a, err := res.ConverterFor(typ)
		if err != nil {
			t.Fatalf("ConverterFor failed: %v", err)
		}
		b, _ := res.ConverterFor(typ)
		if a != b {
			t.Fatal("Expected the cached converter")
		}
		if c, _ := res.CreateConverter(typ); c == a {
			t.Fatal("CreateConverter should build a fresh converter")
		}
	})

	t.Run("CachesFailures", func(t *testing.T) {
		res := newTestResolver(nil)
		typ := reflect.TypeOf(make(chan int))
		if res.CanConvert(typ) {
			t.Fatal("channels are not convertible")
		}
		for i := 0; i < 2; i++ {
			if _, err := res.ConverterFor(typ); !errors.IsUnsupportedType(err) {
				t.Fatalf("Expected UnsupportedTypeError, got %v", err)
			}
		}
		if _, err := res.ConverterFor(nil); !errors.IsUnsupportedType(err) {
			t.Fatalf("Expected UnsupportedTypeError for nil, got %v", err)
		}
	})

	t.Run("PrependWins", func(t *testing.T) {
		res := newTestResolver(nil)
		f := &fixedFactory{}
		res.Prepend(f)
		if got := encode(t, res, []celsius{1, 2}); got != `["warm","warm"]` {
			t.Fatalf(`Expected ["warm","warm"], got %s`, got)
		}
		var c celsius
		if err := decode(res, `"anything"`, &c); err != nil || c != 30 {
			t.Fatalf("Expected 30, got %v (%v)", c, err)
		}
		if n := f.builds.Load(); n != 1 {
			t.Fatalf("Expected one build, got %d", n)
		}
	})

	t.Run("Concurrent", func(t *testing.T) {
		res := newTestResolver(nil)
		typ := reflect.TypeOf(map[string][]int{})
		var wg sync.WaitGroup
		convs := make([]Converter, 16)
		for i := range convs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				convs[i], _ = res.ConverterFor(typ)
			}(i)
		}
		wg.Wait()
		for _, c := range convs[1:] {
			if c != convs[0] {
				t.Fatal("All callers should observe the same converter")
			}
		}
	})
}
