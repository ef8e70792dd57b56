package ipc

import (
	"reflect"
	"testing"

	"github.com/fission-ai/witgo/internal/witerr"
)

func TestEncodeDecodeRoundTripWithSemicolonInContent(t *testing.T) {
	line := Encode(ReqExec, "hi;there", "x")
	if string(line) != "wit;2;hi:semicolon:there;x;\n" {
		t.Fatalf("unexpected wire line: %q", line)
	}

	rec, err := Decode(line)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if rec.Type != ReqExec {
		t.Fatalf("expected ReqExec, got %v", rec.Type)
	}
	if !reflect.DeepEqual(rec.Content, []string{"hi;there", "x"}) {
		t.Fatalf("unexpected content: %v", rec.Content)
	}
}

func TestEncodeDecodeRoundTripWithEmbeddedNewline(t *testing.T) {
	line := Encode(ReqExec, "line one\nline two")
	rec, err := Decode(line)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(rec.Content, []string{"line one\nline two"}) {
		t.Fatalf("unexpected content: %v", rec.Content)
	}
}

func TestDecodeRejectsWrongMagic(t *testing.T) {
	if _, err := Decode([]byte("nope;0;true;\n")); !witerr.Is(err, witerr.ErrInvalidFraming) {
		t.Fatalf("expected ErrInvalidFraming, got %v", err)
	}
}

func TestDecodeRejectsNonNumericType(t *testing.T) {
	if _, err := Decode([]byte("wit;x;\n")); !witerr.Is(err, witerr.ErrInvalidFraming) {
		t.Fatalf("expected ErrInvalidFraming, got %v", err)
	}
}

func TestDecodeRejectsUnknownType(t *testing.T) {
	if _, err := Decode([]byte("wit;42;\n")); !witerr.Is(err, witerr.ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestDecodeRejectsArityBelowMinimum(t *testing.T) {
	if _, err := Decode([]byte("wit;0;\n")); !witerr.Is(err, witerr.ErrArityMismatch) {
		t.Fatalf("expected ErrArityMismatch for REQ_PING with no content, got %v", err)
	}
}

func TestDecodeToleratesZeroArityTrailingField(t *testing.T) {
	rec, err := Decode([]byte("wit;1;\n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if rec.Type != AckPing || len(rec.Content) != 0 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestDecodeAllowsReqExecWithZeroContent(t *testing.T) {
	rec, err := Decode([]byte("wit;2;\n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if rec.Type != ReqExec || len(rec.Content) != 0 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}
