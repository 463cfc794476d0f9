package common

import (
	"bytes"
	"testing"
)

func TestB58Roundtrip(t *testing.T) {
	raws := [][]byte{
		{0x01, 0x02, 0x03},
		{0x00, 0x00, 0xff, 0x10},
		make([]byte, AddrLen),
		{0xde, 0xad, 0xbe, 0xef, 0x00},
	}
	for _, raw := range raws {
		enc := B58Encode(raw)
		dec := B58Decode(enc)
		if !bytes.Equal(raw, dec) {
			t.Fatalf("roundtrip mismatch: % x -> %s -> % x", raw, enc, dec)
		}
	}
}

func TestB58DecodeBadSymbol(t *testing.T) {
	if got := B58Decode([]byte("0OIl")); got != nil {
		t.Fatalf("want nil for out-of-alphabet symbols, got % x", got)
	}
}

func TestAddressSetBytes(t *testing.T) {
	var a Address
	a.SetBytes([]byte{0x01, 0x02})
	if a[AddrLen-1] != 0x02 || a[AddrLen-2] != 0x01 {
		t.Fatalf("short input must right-align: % x", a)
	}
	if a.IsZero() {
		t.Fatal("non-empty address reported zero")
	}
	var z Address
	if !z.IsZero() {
		t.Fatal("empty address not reported zero")
	}
}

func TestAddressB58String(t *testing.T) {
	var a Address
	a.SetBytes(bytes.Repeat([]byte{0xab}, AddrLen))
	s := a.B58String()
	if s == "" {
		t.Fatal("empty b58 string")
	}
	back := StrB58ToAddress(s)
	if !a.Equals(back) {
		t.Fatalf("b58 roundtrip mismatch: %s", s)
	}
}

func TestSortAndEncodeMap(t *testing.T) {
	m := map[string]string{
		"b": "2",
		"a": "1",
		"c": "",
		"d": "4",
	}
	got := SortAndEncodeMap(m)
	want := "a=1&b=2&d=4"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	back := StringDecodeMap(got)
	if back["a"] != "1" || back["b"] != "2" || back["d"] != "4" {
		t.Fatalf("decode mismatch: %v", back)
	}
}
