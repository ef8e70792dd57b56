// Package gate implements the Binary Identity Gate (spec section 4.6): it
// fingerprints a candidate installer binary and checks it against a bundled
// allow-list before the binary is ever executed. Grounded on the teacher's
// internal/config package (load a bundled resource, wrap errors with
// fmt.Errorf) and internal/state's syscall-level process checks.
package gate

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

const hashBufSize = 16 * 1024

// Fingerprint is the SHA-256 digest of an installer binary, spec section 3.
type Fingerprint [sha256.Size]byte

func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// Entry describes one allow-listed installer binary.
type Entry struct {
	Version int    `json:"version"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
	Variant int    `json:"variant"`
	SHA256  string `json:"sha256"`
}

// AllowList is a fingerprint lookup table loaded from a JSON resource. The
// same fingerprint may not appear twice (spec section 3).
type AllowList struct {
	byHash map[Fingerprint]Entry
}

// ParseAllowList parses the allow-list document described in spec section 6:
// an array of {version, os, arch, variant, sha256} objects.
func ParseAllowList(data []byte) (*AllowList, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("gate: parsing allow-list: %w", err)
	}
	al := &AllowList{byHash: make(map[Fingerprint]Entry, len(entries))}
	for _, e := range entries {
		fp, err := fingerprintFromHex(e.SHA256)
		if err != nil {
			return nil, fmt.Errorf("gate: allow-list entry %+v: %w", e, err)
		}
		if _, dup := al.byHash[fp]; dup {
			return nil, fmt.Errorf("gate: duplicate allow-list fingerprint %s", fp)
		}
		al.byHash[fp] = e
	}
	return al, nil
}

// LoadAllowList reads and parses an allow-list JSON resource from disk.
func LoadAllowList(path string) (*AllowList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gate: reading allow-list: %w", err)
	}
	return ParseAllowList(data)
}

// Lookup returns the Entry for a fingerprint and whether it was found.
func (al *AllowList) Lookup(fp Fingerprint) (Entry, bool) {
	e, ok := al.byHash[fp]
	return e, ok
}

// Len reports how many entries the allow-list holds.
func (al *AllowList) Len() int {
	return len(al.byHash)
}

func fingerprintFromHex(s string) (Fingerprint, error) {
	var fp Fingerprint
	b, err := hex.DecodeString(s)
	if err != nil {
		return fp, fmt.Errorf("invalid sha256 hex %q: %w", s, err)
	}
	if len(b) != sha256.Size {
		return fp, fmt.Errorf("sha256 %q has %d bytes, want %d", s, len(b), sha256.Size)
	}
	copy(fp[:], b)
	return fp, nil
}

// HashStream computes the SHA-256 fingerprint of r, reading through a
// 16 KiB buffer shared by HashFile and HashBytes (spec section 4.6).
func HashStream(r io.Reader) (Fingerprint, error) {
	h := sha256.New()
	buf := make([]byte, hashBufSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return Fingerprint{}, fmt.Errorf("gate: hashing stream: %w", err)
	}
	var fp Fingerprint
	copy(fp[:], h.Sum(nil))
	return fp, nil
}

// HashFile computes the SHA-256 fingerprint of the file at path.
func HashFile(path string) (Fingerprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("gate: opening %s: %w", path, err)
	}
	defer f.Close()
	return HashStream(f)
}

// HashBytes computes the SHA-256 fingerprint of b through HashStream.
func HashBytes(b []byte) Fingerprint {
	// A bytes.Reader never returns a read error, so HashStream cannot fail.
	fp, _ := HashStream(bytes.NewReader(b))
	return fp
}
