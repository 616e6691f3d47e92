package keystore

import "runtime"

// Material holds plaintext key bytes in a mutable buffer so they can be
// overwritten rather than left for the garbage collector. Never convert the
// buffer to a string and never log it.
type Material struct {
	buf []byte
}

func NewMaterial(buf []byte) *Material {
	return &Material{buf: buf}
}

func (m *Material) Bytes() []byte {
	return m.buf
}

func (m *Material) Len() int {
	return len(m.buf)
}

// Scrub overwrites the buffer with zeros. The KeepAlive call prevents the
// compiler from eliding the writes as dead stores.
func (m *Material) Scrub() {
	for i := range m.buf {
		m.buf[i] = 0
	}
	runtime.KeepAlive(m.buf)
	m.buf = m.buf[:0]
}
