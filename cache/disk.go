package cache

import (
	"bytes"
	"encoding/gob"

	bolt "go.etcd.io/bbolt"

	"github.com/pkggraph/pkggraph"
)

// Version does not expose its internal semver.Version for gob encoding, so
// the disk tier round-trips through its string form instead.

var versionsBucket = []byte("versions")

// diskTier is the on-disk memoization tier, one bbolt database per cache
// root. It only persists version lists: dependency results depend on the
// provider's own freshness semantics and are left to the in-process tier.
type diskTier struct {
	db *bolt.DB
}

func openDiskTier(path string) (*diskTier, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(versionsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &diskTier{db: db}, nil
}

func (d *diskTier) close() error {
	return d.db.Close()
}

func (d *diskTier) getVersions(pkg pkggraph.PackageIdentity) ([]pkggraph.Version, bool) {
	var raw []string
	found := false
	d.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(versionsBucket).Get([]byte(pkg))
		if data == nil {
			return nil
		}
		dec := gob.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&raw); err != nil {
			return nil
		}
		found = true
		return nil
	})
	if !found {
		return nil, false
	}

	out := make([]pkggraph.Version, 0, len(raw))
	for _, s := range raw {
		v, err := pkggraph.NewVersion(s)
		if err != nil {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

func (d *diskTier) putVersions(pkg pkggraph.PackageIdentity, versions []pkggraph.Version) {
	raw := make([]string, len(versions))
	for i, v := range versions {
		raw[i] = v.String()
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(raw); err != nil {
		return
	}
	d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(versionsBucket).Put([]byte(pkg), buf.Bytes())
	})
}
