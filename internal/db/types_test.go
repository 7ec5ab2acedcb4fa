package db

import (
	"reflect"
	"testing"
)

func TestStringSliceScan(t *testing.T) {
	var s StringSlice
	if err := s.Scan([]byte(`["gym","pool"]`)); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual([]string(s), []string{"gym", "pool"}) {
		t.Errorf("scanned = %v", s)
	}

	if err := s.Scan(nil); err != nil {
		t.Fatal(err)
	}
	if len(s) != 0 {
		t.Errorf("nil source should scan to empty slice, got %v", s)
	}

	if err := s.Scan(42); err == nil {
		t.Error("expected error for unsupported source type")
	}
}

func TestStringSliceValue(t *testing.T) {
	v, err := StringSlice(nil).Value()
	if err != nil {
		t.Fatal(err)
	}
	if v != "[]" {
		t.Errorf("nil slice value = %v, want []", v)
	}

	v, err = StringSlice{"gym"}.Value()
	if err != nil {
		t.Fatal(err)
	}
	if v != `["gym"]` {
		t.Errorf("value = %v", v)
	}
}
