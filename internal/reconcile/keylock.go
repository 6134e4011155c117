package reconcile

import (
	"hash/fnv"
	"sync"
)

const lockShards = 64

// keyLock serializes the read-diff-write sequence per order key.
// Striped: two distinct keys may share a shard, which only costs a
// short wait, never correctness.
type keyLock struct {
	shards [lockShards]sync.Mutex
}

func (k *keyLock) lock(key string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	m := &k.shards[h.Sum32()%lockShards]
	m.Lock()
	return m.Unlock
}
