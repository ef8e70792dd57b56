package charset

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/transform"

	"github.com/fission-ai/witgo/internal/witerr"
)

// Policy selects how the Decoder reacts to a byte sequence that is invalid
// (not merely incomplete) under the active charset. See spec section 4.1.
type Policy int

const (
	// FailFast surfaces witerr.ErrMalformedEncoding and aborts the decode
	// call; nothing from that call is appended to the mirror.
	FailFast Policy = iota
	// Replace substitutes the Unicode replacement character for malformed
	// sequences and never fails.
	Replace
)

// replacementUTF8 is the UTF-8 encoding of U+FFFD, used to detect whether a
// decoder substituted a sentinel for a genuinely malformed sequence (as
// opposed to the source legitimately containing U+FFFD already).
const replacementUTF8 = "�"

// Decoder is the streaming byte/character decoder of spec section 4.1. It
// owns the raw byte buffer, the undecoded tail, and the decoded text
// mirror, and supports switching charset or policy without losing any
// previously received bytes.
type Decoder struct {
	mu     sync.Mutex
	name   Name
	policy Policy
	raw    []byte
	tail   []byte
	mirror strings.Builder
}

// New constructs a Decoder for the given initial charset and error policy.
func New(name Name, policy Policy) *Decoder {
	return &Decoder{name: name, policy: policy}
}

// Charset returns the currently selected charset.
func (d *Decoder) Charset() Name {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.name
}

// ErrorPolicy returns the currently selected error policy.
func (d *Decoder) ErrorPolicy() Policy {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.policy
}

// Tail returns a copy of the bytes currently held back as an incomplete
// trailing code unit.
func (d *Decoder) Tail() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]byte, len(d.tail))
	copy(out, d.tail)
	return out
}

// Text returns the decoded text mirror accumulated so far.
func (d *Decoder) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mirror.String()
}

// Raw returns a copy of the raw byte buffer accumulated so far.
func (d *Decoder) Raw() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]byte, len(d.raw))
	copy(out, d.raw)
	return out
}

// Decode feeds chunk through the current charset decoder. It returns the
// text segment produced by this call only; any bytes that form a valid but
// incomplete prefix of a longer code unit are retained as the new tail.
// Every byte of chunk is appended to the raw buffer regardless of whether
// it was consumed this call, so a later SetCharset can rebuild from scratch.
func (d *Decoder) Decode(chunk []byte) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.raw = append(d.raw, chunk...)
	input := append(d.tail, chunk...)

	text, newTail, err := decodeWithPolicy(d.name, d.policy, input)
	if err != nil {
		// The tail is left untouched: a failed decode call must not lose
		// previously-tailed bytes, since the caller may retry under a
		// different policy or charset.
		return "", err
	}
	d.tail = newTail
	d.mirror.WriteString(text)
	return text, nil
}

// SetCharset switches the active charset. If new equals the current
// charset this is a no-op. Otherwise the tail and mirror are reset and the
// entire raw buffer is re-decoded under the new charset.
func (d *Decoder) SetCharset(new Name) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if new == d.name {
		return nil
	}
	return d.resetAndRedecodeLocked(new, d.policy)
}

// SetPolicy switches the active error policy, equivalent to resetting and
// re-decoding the raw buffer under the same charset but the new policy.
func (d *Decoder) SetPolicy(p Policy) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p == d.policy {
		return nil
	}
	return d.resetAndRedecodeLocked(d.name, p)
}

func (d *Decoder) resetAndRedecodeLocked(name Name, policy Policy) error {
	text, tail, err := decodeWithPolicy(name, policy, d.raw)
	if err != nil {
		return err
	}
	d.name = name
	d.policy = policy
	d.tail = tail
	d.mirror.Reset()
	d.mirror.WriteString(text)
	return nil
}

// decodeWithPolicy runs input through the named charset's decoder to
// exhaustion, returning the decoded text, the undecoded trailing bytes, and
// a witerr.ErrMalformedEncoding if policy is FailFast and a malformed
// sequence was found.
func decodeWithPolicy(name Name, policy Policy, input []byte) (text string, tail []byte, err error) {
	enc, ok := Encoding(name)
	if !ok {
		return "", nil, fmt.Errorf("charset: unknown charset %q", name)
	}
	t := enc.NewDecoder()

	// atEOF is always false: this is a streaming call, so a short trailing
	// sequence is held back as tail rather than force-decoded or rejected.
	bufSize := len(input)*4 + 16
	consumed := 0
	var dst []byte
	for {
		buf := make([]byte, bufSize)
		nDst, nSrc, terr := t.Transform(buf, input[consumed:], false)
		dst = append(dst, buf[:nDst]...)
		consumed += nSrc
		if terr == transform.ErrShortDst {
			bufSize *= 2
			continue
		}
		if terr == transform.ErrShortSrc {
			// Genuinely incomplete trailing code unit: hold it back as tail.
			tail = append([]byte{}, input[consumed:]...)
			break
		}
		if terr != nil {
			// x/text decoders do not normally return hard errors (they
			// substitute U+FFFD instead); treat any other error the same
			// as a malformed sequence under fail-fast.
			if policy == FailFast {
				return "", nil, fmt.Errorf("%w: %v", witerr.ErrMalformedEncoding, terr)
			}
			break
		}
		break
	}

	out := string(dst)
	if policy == FailFast && containsSpuriousReplacement(input[:consumed], out) {
		return "", nil, fmt.Errorf("%w: invalid sequence for charset %q", witerr.ErrMalformedEncoding, name)
	}
	return out, tail, nil
}

// containsSpuriousReplacement reports whether out contains the Unicode
// replacement character introduced by the decoder substituting for a
// malformed byte sequence, as opposed to the source already containing a
// literal three-byte UTF-8 encoding of U+FFFD (which would itself decode
// losslessly under UTF-8 and should not be treated as an error).
func containsSpuriousReplacement(consumedSrc []byte, out string) bool {
	if !strings.Contains(out, replacementUTF8) {
		return false
	}
	// A literal U+FFFD in the source, decoded from valid UTF-8 input,
	// means consumedSrc already contains the same three bytes. If every
	// occurrence of the replacement rune in out can be matched to a
	// literal occurrence in the source bytes, nothing was substituted.
	literalCount := strings.Count(string(consumedSrc), replacementUTF8)
	substitutedCount := strings.Count(out, replacementUTF8)
	return substitutedCount > literalCount
}

// ValidateRoundTrip is a test/property helper (spec section 8, law 1): it
// encodes s back under name and reports whether the re-encoded bytes equal
// original, i.e. whether decode then encode is lossless for this input.
func ValidateRoundTrip(name Name, original []byte, s string) (bool, error) {
	enc, ok := Encoding(name)
	if !ok {
		return false, fmt.Errorf("charset: unknown charset %q", name)
	}
	reencoded, err := enc.NewEncoder().String(s)
	if err != nil {
		return false, err
	}
	return reencoded == string(original), nil
}

