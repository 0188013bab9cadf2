// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Config: {
	root?:   string
	exclude?: [...string]
	categories?: [...{
		name:   string & !=""
		prefix?: string
	}]
}
`

func TestDecodeMap(t *testing.T) {
	t.Parallel()

	t.Run("valid data decodes to map", func(t *testing.T) {
		t.Parallel()

		data := []byte(`
root: "/src"
categories: [{name: "demo", prefix: "demo_"}]
`)
		got, err := DecodeMap([]byte(testSchema), data, "#Config", WithFilename("cmakegen.cue"))
		if err != nil {
			t.Fatalf("DecodeMap() error = %v", err)
		}
		if got["root"] != "/src" {
			t.Errorf("root = %v, want /src", got["root"])
		}
		if _, ok := got["exclude"]; ok {
			t.Error("unset optional field should be absent from the map")
		}
		cats, ok := got["categories"].([]any)
		if !ok || len(cats) != 1 {
			t.Fatalf("categories = %#v, want one entry", got["categories"])
		}
	})

	t.Run("empty data decodes to empty map", func(t *testing.T) {
		t.Parallel()

		got, err := DecodeMap([]byte(testSchema), nil, "#Config")
		if err != nil {
			t.Fatalf("DecodeMap() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected empty map, got %v", got)
		}
	})

	t.Run("schema violation reports file and path", func(t *testing.T) {
		t.Parallel()

		data := []byte(`categories: [{name: ""}]`)
		_, err := DecodeMap([]byte(testSchema), data, "#Config", WithFilename("cmakegen.cue"))
		if err == nil {
			t.Fatal("expected validation error")
		}
		if !strings.Contains(err.Error(), "cmakegen.cue") {
			t.Errorf("error should name the file, got: %v", err)
		}
		if !strings.Contains(err.Error(), "categories[0].name") {
			t.Errorf("error should carry the field path, got: %v", err)
		}
	})

	t.Run("unknown field is rejected by closed definition", func(t *testing.T) {
		t.Parallel()

		_, err := DecodeMap([]byte(testSchema), []byte(`roots: "/src"`), "#Config")
		if err == nil {
			t.Fatal("expected error for unknown field")
		}
	})

	t.Run("oversized file is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := DecodeMap([]byte(testSchema), []byte(`root: "/src"`), "#Config", WithMaxFileSize(4))
		if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
			t.Fatalf("expected size error, got %v", err)
		}
	})

	t.Run("concrete mode rejects incomplete values", func(t *testing.T) {
		t.Parallel()

		schema := []byte(`#Strict: {name: string}`)
		_, err := DecodeMap(schema, []byte(`{}`), "#Strict", WithConcrete(true))
		if err == nil {
			t.Fatal("expected error for missing required field")
		}
	})
}
