package store

import "sync"

// Scratch buffer pools for throwaway entry and key slices. No operation in
// the package takes buffers from them: Sample, RandomEntry and bucket
// migration do not use these pools.

var entryScratchPool = &sync.Pool{
	New: func() any {
		return make([]*Entry, 0, 64)
	},
}

func releaseEntryScratch(s []*Entry) {
	entryScratchPool.Put(s[:0])
}

var keyScratchPool = &sync.Pool{
	New: func() any {
		return make([]byte, 0, 256)
	},
}

func releaseKeyScratch(b []byte) {
	keyScratchPool.Put(b[:0])
}
