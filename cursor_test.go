// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jstream_test

import (
	"io"
	"strings"
	"testing"

	"github.com/creachadair/jstream"
	"github.com/google/go-cmp/cmp"
)

func TestImplicitSkip(t *testing.T) {
	// Advancing a cursor discards whatever remains of the previous
	// element, however deeply nested, without decoding it.
	const input = `{"a":{"x":[1,[2,{"y":3}]],"z":4},"b":"keep","c":[[[1],2],3]}`

	p := jstream.NewParser(strings.NewReader(input), nil)
	v, err := p.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	obj := v.Object()

	// Skip the whole subtree under "a" by not touching its value.
	key, _, err := obj.Next()
	if err != nil || key != "a" {
		t.Fatalf(`Member: got (%q, %v), want ("a", nil)`, key, err)
	}

	key, vb, err := obj.Next()
	if err != nil || key != "b" {
		t.Fatalf(`Member: got (%q, %v), want ("b", nil)`, key, err)
	}
	if text, err := vb.String().Text(); err != nil || text != "keep" {
		t.Fatalf(`Text: got (%q, %v), want ("keep", nil)`, text, err)
	}

	// Open "c" partway down, then abandon it mid-flight.
	key, vc, err := obj.Next()
	if err != nil || key != "c" {
		t.Fatalf(`Member: got (%q, %v), want ("c", nil)`, key, err)
	}
	carr := vc.Array()
	e0, err := carr.Next()
	if err != nil {
		t.Fatalf("Element failed: %v", err)
	}
	inner := e0.Array()
	if _, err := inner.Next(); err != nil {
		t.Fatalf("Inner element failed: %v", err)
	}

	// The object cursor discards the rest of inner and carr.
	if _, _, err := obj.Next(); err != io.EOF {
		t.Fatalf("Object end: got %v, want io.EOF", err)
	}
	if _, err := p.Next(); err != io.EOF {
		t.Fatalf("Next at end: got %v, want io.EOF", err)
	}
	if p.Depth() != 0 {
		t.Errorf("Depth: got %d, want 0", p.Depth())
	}
}

func TestKeysOnly(t *testing.T) {
	// Iterating members without reading any value must still consume
	// each value, whatever its kind.
	const input = `{"a":[1,2,3],"b":{"c":true},"d":"s","e":17,"f":null}`

	p := jstream.NewParser(strings.NewReader(input), nil)
	v, err := p.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	obj := v.Object()

	var keys []string
	for {
		key, _, err := obj.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("Member failed: %v", err)
		}
		keys = append(keys, key)
	}
	want := []string{"a", "b", "d", "e", "f"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("Keys: (-want, +got)\n%s", diff)
	}
	if _, err := p.Next(); err != io.EOF {
		t.Fatalf("Next at end: got %v, want io.EOF", err)
	}
}

func TestStaleCursor(t *testing.T) {
	p := jstream.NewParser(strings.NewReader(`[[1,2],[3]]`), nil)
	v, err := p.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	outer := v.Array()

	first, err := outer.Next()
	if err != nil {
		t.Fatalf("Element failed: %v", err)
	}
	inner := first.Array()
	elt, err := inner.Next()
	if err != nil {
		t.Fatalf("Inner element failed: %v", err)
	}
	num := elt.Number()

	// Advancing the outer cursor closes inner's frame.
	second, err := outer.Next()
	if err != nil {
		t.Fatalf("Element failed: %v", err)
	}

	if _, err := inner.Next(); err != jstream.ErrCursorExpired {
		t.Errorf("Stale Next: got %v, want %v", err, jstream.ErrCursorExpired)
	}
	if _, err := num.Int64(); err != jstream.ErrViewExpired {
		t.Errorf("Stale view: got %v, want %v", err, jstream.ErrViewExpired)
	}

	// A stale cursor is an expected condition, not a parser failure.
	if err := p.Err(); err != nil {
		t.Fatalf("Err: got %v, want nil", err)
	}

	// The surviving cursors continue normally.
	got, err := render(second)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got != "[3]" {
		t.Errorf("Render: got %q, want %q", got, "[3]")
	}
	if _, err := outer.Next(); err != io.EOF {
		t.Fatalf("Array end: got %v, want io.EOF", err)
	}
}

func TestParserNextExpiresCursors(t *testing.T) {
	p := jstream.NewParser(strings.NewReader(`[1] [2]`), nil)
	v1, err := p.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	arr1 := v1.Array()

	v2, err := p.Next() // discards the rest of the first array
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if _, err := arr1.Next(); err != jstream.ErrCursorExpired {
		t.Errorf("Stale Next: got %v, want %v", err, jstream.ErrCursorExpired)
	}

	got, err := render(v2)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got != "[2]" {
		t.Errorf("Render: got %q, want %q", got, "[2]")
	}
}

func TestExhaustedCursorLatches(t *testing.T) {
	p := jstream.NewParser(strings.NewReader(`[[],{}]`), nil)
	v, err := p.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	outer := v.Array()

	ev, err := outer.Next()
	if err != nil {
		t.Fatalf("Element failed: %v", err)
	}
	arr := ev.Array()
	for i := 0; i < 3; i++ {
		if _, err := arr.Next(); err != io.EOF {
			t.Fatalf("Next %d: got %v, want io.EOF", i, err)
		}
	}

	ov, err := outer.Next()
	if err != nil {
		t.Fatalf("Element failed: %v", err)
	}
	obj := ov.Object()
	for i := 0; i < 3; i++ {
		if _, _, err := obj.Next(); err != io.EOF {
			t.Fatalf("Next %d: got %v, want io.EOF", i, err)
		}
	}

	if _, err := outer.Next(); err != io.EOF {
		t.Fatalf("Array end: got %v, want io.EOF", err)
	}
}

func TestCursorClose(t *testing.T) {
	t.Run("MidIteration", func(t *testing.T) {
		p := jstream.NewParser(strings.NewReader(`[[1,2,3],4]`), nil)
		v, err := p.Next()
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		outer := v.Array()

		ev, err := outer.Next()
		if err != nil {
			t.Fatalf("Element failed: %v", err)
		}
		inner := ev.Array()
		if _, err := inner.Next(); err != nil {
			t.Fatalf("Inner element failed: %v", err)
		}
		if err := inner.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		if err := inner.Close(); err != nil {
			t.Errorf("Second Close: got %v, want nil", err)
		}
		if _, err := inner.Next(); err != io.EOF {
			t.Errorf("Next after Close: got %v, want io.EOF", err)
		}

		elt, err := outer.Next()
		if err != nil {
			t.Fatalf("Element failed: %v", err)
		}
		if got, err := elt.Number().Int64(); err != nil || got != 4 {
			t.Fatalf("Int64: got (%d, %v), want (4, nil)", got, err)
		}
	})

	t.Run("Stale", func(t *testing.T) {
		p := jstream.NewParser(strings.NewReader(`[[1],[2]]`), nil)
		v, err := p.Next()
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		outer := v.Array()
		ev, err := outer.Next()
		if err != nil {
			t.Fatalf("Element failed: %v", err)
		}
		inner := ev.Array()
		if _, err := outer.Next(); err != nil { // expires inner
			t.Fatalf("Element failed: %v", err)
		}
		if err := inner.Close(); err != nil {
			t.Errorf("Close of stale cursor: got %v, want nil", err)
		}
	})

	t.Run("Deferred", func(t *testing.T) {
		// The usual shape: read a prefix of each element, defer cleanup.
		firstOf := func(v jstream.Value) (string, error) {
			arr := v.Array()
			defer arr.Close()
			elt, err := arr.Next()
			if err != nil {
				return "", err
			}
			return render(elt)
		}

		p := jstream.NewParser(strings.NewReader(`[[1,2,3],["x","y"],[[4],5]]`), nil)
		v, err := p.Next()
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		outer := v.Array()

		var got []string
		for {
			elt, err := outer.Next()
			if err == io.EOF {
				break
			} else if err != nil {
				t.Fatalf("Element failed: %v", err)
			}
			s, err := firstOf(elt)
			if err != nil {
				t.Fatalf("First element failed: %v", err)
			}
			got = append(got, s)
		}
		want := []string{"1", `"x"`, "[4]"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Values: (-want, +got)\n%s", diff)
		}
	})
}
