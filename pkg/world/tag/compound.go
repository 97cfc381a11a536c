// Package tag reads NBT compounds one child at a time so that a decoder can
// default a malformed field instead of rejecting the whole record.
package tag

import (
	"fmt"
	"io"

	"github.com/Tnze/go-mc/nbt"
)

// Compound is a decoded compound node whose children are still raw.
type Compound map[string]nbt.RawMessage

// Read decodes the root node from r. The root must be a compound.
func Read(r io.Reader) (Compound, error) {
	var root nbt.RawMessage
	if _, err := nbt.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("decode root: %w", err)
	}
	return Parse(root)
}

// Parse decodes raw, which must be a compound.
func Parse(raw nbt.RawMessage) (Compound, error) {
	if raw.Type != nbt.TagCompound {
		return nil, fmt.Errorf("tag type %d is not a compound", raw.Type)
	}
	var c Compound
	if err := raw.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode compound: %w", err)
	}
	if c == nil {
		c = Compound{}
	}
	return c, nil
}

func (c Compound) typed(name string, want byte) (nbt.RawMessage, bool) {
	raw, ok := c[name]
	if !ok || raw.Type != want {
		return nbt.RawMessage{}, false
	}
	return raw, true
}

// Has reports whether the child exists, whatever its type.
func (c Compound) Has(name string) bool {
	_, ok := c[name]
	return ok
}

// Byte returns a byte child.
func (c Compound) Byte(name string) (int8, bool) {
	raw, ok := c.typed(name, nbt.TagByte)
	if !ok {
		return 0, false
	}
	var v int8
	if raw.Unmarshal(&v) != nil {
		return 0, false
	}
	return v, true
}

// Int returns an int child.
func (c Compound) Int(name string) (int32, bool) {
	raw, ok := c.typed(name, nbt.TagInt)
	if !ok {
		return 0, false
	}
	var v int32
	if raw.Unmarshal(&v) != nil {
		return 0, false
	}
	return v, true
}

// Long returns a long child.
func (c Compound) Long(name string) (int64, bool) {
	raw, ok := c.typed(name, nbt.TagLong)
	if !ok {
		return 0, false
	}
	var v int64
	if raw.Unmarshal(&v) != nil {
		return 0, false
	}
	return v, true
}

// Text returns a string child.
func (c Compound) Text(name string) (string, bool) {
	raw, ok := c.typed(name, nbt.TagString)
	if !ok {
		return "", false
	}
	var v string
	if raw.Unmarshal(&v) != nil {
		return "", false
	}
	return v, true
}

// ByteArray returns a byte array child of exactly size bytes. A negative
// size accepts any length.
func (c Compound) ByteArray(name string, size int) ([]byte, bool) {
	raw, ok := c.typed(name, nbt.TagByteArray)
	if !ok {
		return nil, false
	}
	var v []byte
	if raw.Unmarshal(&v) != nil {
		return nil, false
	}
	if size >= 0 && len(v) != size {
		return nil, false
	}
	return v, true
}

// IntArray returns an int array child of exactly size elements. A negative
// size accepts any length.
func (c Compound) IntArray(name string, size int) ([]int32, bool) {
	raw, ok := c.typed(name, nbt.TagIntArray)
	if !ok {
		return nil, false
	}
	var v []int32
	if raw.Unmarshal(&v) != nil {
		return nil, false
	}
	if size >= 0 && len(v) != size {
		return nil, false
	}
	return v, true
}

// List returns the raw elements of a list child.
func (c Compound) List(name string) ([]nbt.RawMessage, bool) {
	raw, ok := c.typed(name, nbt.TagList)
	if !ok {
		return nil, false
	}
	var v []nbt.RawMessage
	if raw.Unmarshal(&v) != nil {
		return nil, false
	}
	return v, true
}

// Compound returns a compound child.
func (c Compound) Compound(name string) (Compound, bool) {
	raw, ok := c.typed(name, nbt.TagCompound)
	if !ok {
		return nil, false
	}
	sub, err := Parse(raw)
	if err != nil {
		return nil, false
	}
	return sub, true
}
