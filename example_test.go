// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jstream_test

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/creachadair/jstream"
)

func ExampleParser() {
	input := strings.NewReader(`{"name": "aloe", "count": 17} [1, 2, 3] true`)

	// Each call to Next returns the next top-level value of the input.
	// Values left unread are skipped when the parser moves on.
	p := jstream.NewParser(input, nil)
	for {
		v, err := p.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			log.Fatalf("Parse failed: %v", err)
		}
		fmt.Println(v.Kind())
	}
	// Output:
	// object
	// array
	// bool
}

func ExampleObjectCursor() {
	input := strings.NewReader(`{"apple": 1, "pear": 2, "plum": 3}`)

	p := jstream.NewParser(input, nil)
	v, err := p.Next()
	if err != nil {
		log.Fatalf("Parse failed: %v", err)
	}
	obj := v.Object()
	for {
		key, elt, err := obj.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			log.Fatalf("Next failed: %v", err)
		}
		n, err := elt.Number().Int64()
		if err != nil {
			log.Fatalf("Decode failed: %v", err)
		}
		fmt.Println(key, n)
	}
	// Output:
	// apple 1
	// pear 2
	// plum 3
}

func ExampleStringView_WriteTo() {
	input := strings.NewReader(`"tea \u0026 strumpets"`)

	p := jstream.NewParser(input, nil)
	v, err := p.Next()
	if err != nil {
		log.Fatalf("Parse failed: %v", err)
	}

	// WriteTo decodes the string directly to the writer, so even a string
	// larger than the parse buffer can be extracted without copying it
	// into memory.
	if _, err := v.String().WriteTo(os.Stdout); err != nil {
		log.Fatalf("Write failed: %v", err)
	}
	// Output:
	// tea & strumpets
}
