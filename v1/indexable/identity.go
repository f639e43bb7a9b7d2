package indexable

import "github.com/cespare/xxhash/v2"

// keyTerminator is appended after the key bytes before hashing so that
// identities match the ones written by earlier releases of the indexer.
const keyTerminator = 0xff

// StringID derives the identity of a record from a textual key.
//
// It is the only hashing routine used for identities: adapters, the
// struct-tag wrapper and deletion by key all go through it. The result
// is stable across processes and releases.
func StringID(key string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(key)
	_, _ = d.Write([]byte{keyTerminator})
	return d.Sum64()
}
