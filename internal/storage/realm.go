package storage

import (
	"errors"
	"fmt"

	"github.com/OCharnyshevich/realmgen/internal/realm"
)

// SaveRealm writes every modified chunk of r to p and clears its
// modification flags. It returns the number of chunks written.
func SaveRealm(p Provider, r *realm.Realm) (int, error) {
	n := 0
	for _, c := range r.Modified() {
		if err := p.Save(c); err != nil {
			return n, err
		}
		c.ClearModificationFlag()
		n++
	}
	return n, nil
}

// LoadRegion loads every stored chunk of region into r. Chunks p has never
// stored are skipped. It returns the number of chunks loaded.
func LoadRegion(p Provider, r *realm.Realm, region realm.Region) (int, error) {
	if err := region.Validate(); err != nil {
		return 0, err
	}
	n := 0
	for _, pos := range region.Positions() {
		c, err := p.Load(pos)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return n, fmt.Errorf("load region %v: %w", region, err)
		}
		c.ClearModificationFlag()
		r.Store(c)
		n++
	}
	return n, nil
}
