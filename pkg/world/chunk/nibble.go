package chunk

import "fmt"

// NibbleArray is a fixed-size array of 4-bit values packed two per byte.
// Even indices live in the low nibble, odd indices in the high nibble.
type NibbleArray struct {
	data []byte
	n    int
}

// NewNibbleArray allocates a zeroed array holding n nibbles.
func NewNibbleArray(n int) *NibbleArray {
	return &NibbleArray{data: make([]byte, (n+1)/2), n: n}
}

// NibbleArrayFrom wraps an existing blob of n nibbles without copying.
// It returns nil if b has the wrong length.
func NibbleArrayFrom(b []byte, n int) *NibbleArray {
	if len(b) != (n+1)/2 {
		return nil
	}
	return &NibbleArray{data: b, n: n}
}

// Len returns the number of nibbles.
func (a *NibbleArray) Len() int { return a.n }

// Bytes returns the packed backing store.
func (a *NibbleArray) Bytes() []byte { return a.data }

// Get returns the nibble at i.
func (a *NibbleArray) Get(i int) (byte, error) {
	if i < 0 || i >= a.n {
		return 0, fmt.Errorf("nibble index %d not in [0,%d): %w", i, a.n, ErrOutOfRange)
	}
	return a.at(i), nil
}

// Set stores the low four bits of v at i.
func (a *NibbleArray) Set(i int, v byte) error {
	if i < 0 || i >= a.n {
		return fmt.Errorf("nibble index %d not in [0,%d): %w", i, a.n, ErrOutOfRange)
	}
	a.put(i, v)
	return nil
}

func (a *NibbleArray) at(i int) byte {
	if i&1 == 0 {
		return a.data[i>>1] & 0x0F
	}
	return a.data[i>>1] >> 4
}

func (a *NibbleArray) put(i int, v byte) {
	b := &a.data[i>>1]
	if i&1 == 0 {
		*b = (*b & 0xF0) | (v & 0x0F)
	} else {
		*b = (*b & 0x0F) | (v&0x0F)<<4
	}
}

func (a *NibbleArray) clone() []byte {
	out := make([]byte, len(a.data))
	copy(out, a.data)
	return out
}
