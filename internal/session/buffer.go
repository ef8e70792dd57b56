package session

import "sync"

// RawBuffer is the append-only raw output buffer of spec section 3. It is
// never truncated during a session; writes are serialized by the Output
// Consumer and reads (GetOutput, the charset decoder's SetCharset) take a
// point-in-time copy.
type RawBuffer struct {
	mu   sync.Mutex
	data []byte
}

// Append adds b to the end of the buffer.
func (r *RawBuffer) Append(b []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = append(r.data, b...)
}

// Snapshot returns a copy of everything appended so far.
func (r *RawBuffer) Snapshot() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]byte, len(r.data))
	copy(out, r.data)
	return out
}

// Len reports the current buffer length.
func (r *RawBuffer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.data)
}
