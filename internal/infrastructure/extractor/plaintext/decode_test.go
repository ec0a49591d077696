package plaintext

import (
	"testing"
	"unicode/utf8"
)

func TestDecodeKeepsValidUTF8(t *testing.T) {
	got := Decode([]byte("Договор №1 — Pay $500 by March 1."))
	if got != "Договор №1 — Pay $500 by March 1." {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestDecodeFallsBackToLatin1(t *testing.T) {
	got := Decode([]byte{'C', 'a', 'f', 0xe9, ' ', 0xff})
	if got != "Café ÿ" {
		t.Fatalf("expected latin-1 fallback, got %q", got)
	}
}

func TestDecodeNeverProducesInvalidUTF8(t *testing.T) {
	inputs := [][]byte{
		nil,
		{},
		{0x80, 0x81, 0xfe, 0xff},
		{0xc3},
		{0x00, 0x01, 'a', 0xed, 0xa0, 0x80},
	}
	for _, raw := range inputs {
		if got := Decode(raw); !utf8.ValidString(got) {
			t.Fatalf("Decode(%v) returned invalid utf-8 %q", raw, got)
		}
	}
}
