package storage

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/df-mc/goleveldb/leveldb"

	"github.com/OCharnyshevich/realmgen/pkg/world/chunk"
)

// LevelDBProvider stores chunks in a LevelDB database, one key per chunk.
// Values use the same compressed payload as region sectors.
type LevelDBProvider struct {
	db *leveldb.DB
}

// OpenLevelDB opens or creates the database at dir.
func OpenLevelDB(dir string) (*LevelDBProvider, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb %s: %w", dir, err)
	}
	return &LevelDBProvider{db: db}, nil
}

// chunkKey is 'c' followed by the big-endian x and z.
func chunkKey(pos chunk.Pos) []byte {
	key := make([]byte, 9)
	key[0] = 'c'
	binary.BigEndian.PutUint32(key[1:5], uint32(int32(pos.X)))
	binary.BigEndian.PutUint32(key[5:9], uint32(int32(pos.Z)))
	return key
}

// Load reads the chunk at pos.
func (p *LevelDBProvider) Load(pos chunk.Pos) (*chunk.Chunk, error) {
	data, err := p.db.Get(chunkKey(pos), nil)
	switch {
	case errors.Is(err, leveldb.ErrNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("read chunk %v: %w", pos, err)
	}
	raw, err := decompress(data)
	if err != nil {
		return nil, fmt.Errorf("chunk %v: %w", pos, err)
	}
	c, err := chunk.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("chunk %v: %w", pos, err)
	}
	if c.Pos() != pos {
		return nil, fmt.Errorf("%w: chunk %v stored at %v", chunk.ErrFormat, c.Pos(), pos)
	}
	return c, nil
}

// Save writes c.
func (p *LevelDBProvider) Save(c *chunk.Chunk) error {
	data, err := compress(c)
	if err != nil {
		return err
	}
	if err := p.db.Put(chunkKey(c.Pos()), data, nil); err != nil {
		return fmt.Errorf("write chunk %v: %w", c.Pos(), err)
	}
	return nil
}

// Close closes the database.
func (p *LevelDBProvider) Close() error {
	return p.db.Close()
}
