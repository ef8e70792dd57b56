package charset

import (
	"testing"
)

func TestDecoderMonotone(t *testing.T) {
	full := []byte("héllo wörld with a € sign")
	for split := 0; split <= len(full); split++ {
		d1 := New(Windows1252, Replace)
		enc, _ := Encoding(Windows1252)
		encoded, err := enc.NewEncoder().Bytes(full)
		if err != nil {
			t.Fatalf("encoding fixture: %v", err)
		}
		if split > len(encoded) {
			continue
		}
		part1, err1 := d1.Decode(encoded[:split])
		if err1 != nil {
			t.Fatalf("decode part1: %v", err1)
		}
		part2, err2 := d1.Decode(encoded[split:])
		if err2 != nil {
			t.Fatalf("decode part2: %v", err2)
		}

		d2 := New(Windows1252, Replace)
		whole, err := d2.Decode(encoded)
		if err != nil {
			t.Fatalf("decode whole: %v", err)
		}

		if part1+part2 != whole {
			t.Fatalf("split %d: %q+%q != %q", split, part1, part2, whole)
		}
		if len(d1.Tail()) != 0 {
			t.Fatalf("split %d: tail not empty after full decode: %v", split, d1.Tail())
		}
	}
}

func TestDecoderUTF8PartialMultibyte(t *testing.T) {
	// "日本語" encoded as UTF-8; split inside the middle rune's 3 bytes.
	full := []byte("日本語")
	d := New(UTF8, FailFast)

	first, err := d.Decode(full[:4]) // splits inside byte 2 of "本"
	if err != nil {
		t.Fatalf("decode first chunk: %v", err)
	}
	if first != "日" {
		t.Fatalf("expected only the complete rune decoded, got %q", first)
	}
	if len(d.Tail()) == 0 {
		t.Fatalf("expected a non-empty tail holding back the partial rune")
	}

	rest, err := d.Decode(full[4:])
	if err != nil {
		t.Fatalf("decode rest: %v", err)
	}
	if rest != "本語" {
		t.Fatalf("expected remaining runes decoded, got %q", rest)
	}
	if len(d.Tail()) != 0 {
		t.Fatalf("expected empty tail once stream is complete")
	}
	if d.Text() != "日本語" {
		t.Fatalf("mirror mismatch: got %q", d.Text())
	}
}

func TestDecoderFailFastOnInvalidUTF8(t *testing.T) {
	d := New(UTF8, FailFast)
	// 0xFF is never valid in UTF-8.
	_, err := d.Decode([]byte{'h', 'i', 0xFF})
	if err == nil {
		t.Fatalf("expected a malformed encoding error")
	}
}

func TestDecoderReplacePolicyNeverFails(t *testing.T) {
	d := New(UTF8, Replace)
	text, err := d.Decode([]byte{'h', 'i', 0xFF})
	if err != nil {
		t.Fatalf("replace policy should never fail, got %v", err)
	}
	if text == "" {
		t.Fatalf("expected a replacement-bearing decode, got empty string")
	}
}

func TestSetCharsetNoOpWhenSame(t *testing.T) {
	d := New(UTF8, Replace)
	if _, err := d.Decode([]byte("hello")); err != nil {
		t.Fatalf("decode: %v", err)
	}
	before := d.Text()
	if err := d.SetCharset(UTF8); err != nil {
		t.Fatalf("SetCharset no-op: %v", err)
	}
	if d.Text() != before {
		t.Fatalf("no-op SetCharset changed decoded text")
	}
}

func TestSetCharsetRebuildsFromRawBuffer(t *testing.T) {
	enc, _ := Encoding(Windows1252)
	encoded, err := enc.NewEncoder().Bytes([]byte("café"))
	if err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}

	d := New(Windows1252, Replace)
	if _, err := d.Decode(encoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.Text() != "café" {
		t.Fatalf("expected café, got %q", d.Text())
	}

	// Switching charset re-decodes the exact same raw bytes, which under
	// UTF-8 will not form the original text (Windows-1252 'é' is the single
	// byte 0xE9, which UTF-8 reads as the lead byte of a three-byte
	// sequence; with no continuation bytes it is held back as tail).
	if err := d.SetCharset(UTF8); err != nil {
		t.Fatalf("SetCharset: %v", err)
	}
	if d.Text() == "café" {
		t.Fatalf("expected re-decoded text to differ under UTF-8")
	}
}

func TestCandidatesForLanguage(t *testing.T) {
	cases := []struct {
		language string
		want     []Name
	}{
		{"日本語", []Name{UTF8, ShiftJIS}},
		{"Russian", []Name{UTF8, IBM866, Windows1251}},
		{"Klingon", []Name{UTF8}},
		{"English", []Name{UTF8, Windows1252}},
		{"Korean", []Name{UTF8, CP949, EUCKR}},
	}
	for _, c := range cases {
		got := CandidatesForLanguage(c.language)
		if len(got) != len(c.want) {
			t.Fatalf("%s: got %v, want %v", c.language, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("%s: got %v, want %v", c.language, got, c.want)
			}
		}
	}
}
