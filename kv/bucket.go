// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Bucket namespaces keys of a shared store by a prefix.
type Bucket string

// NewStore returns a view of src where every key is prefixed by b.
func (b Bucket) NewStore(src Store) Store {
	return &bucketStore{prefix: b, src: src}
}

func (b Bucket) key(key []byte) []byte {
	k := make([]byte, 0, len(b)+len(key))
	k = append(k, b...)
	return append(k, key...)
}

type bucketStore struct {
	prefix Bucket
	src    Store
}

func (s *bucketStore) Get(key []byte) ([]byte, error) { return s.src.Get(s.prefix.key(key)) }
func (s *bucketStore) Has(key []byte) (bool, error)   { return s.src.Has(s.prefix.key(key)) }
func (s *bucketStore) IsNotFound(err error) bool      { return s.src.IsNotFound(err) }
func (s *bucketStore) Put(key, val []byte) error      { return s.src.Put(s.prefix.key(key), val) }
func (s *bucketStore) Delete(key []byte) error        { return s.src.Delete(s.prefix.key(key)) }

func (s *bucketStore) Bulk() Bulk {
	return &bucketBulk{prefix: s.prefix, Bulk: s.src.Bulk()}
}

type bucketBulk struct {
	prefix Bucket
	Bulk
}

func (b *bucketBulk) Put(key, val []byte) error { return b.Bulk.Put(b.prefix.key(key), val) }
func (b *bucketBulk) Delete(key []byte) error   { return b.Bulk.Delete(b.prefix.key(key)) }
