// Package semantics implements the invocation-semantics layer: the
// server's at-most-once reply cache and the client's retry-with-timeout
// loop, both described in §4.4.
package semantics

import (
	"fmt"

	"github.com/arvindgk/facilityresv/internal/codec"
	"github.com/arvindgk/facilityresv/internal/logger"
)

// cacheKey identifies a cached reply by the peer and request id that
// produced it, per §3's reply-cache entry.
type cacheKey struct {
	peerAddr  string
	requestID uint64
}

// ReplyCache records the exact reply bytes already sent for a given
// (peer, request-id) pair under AMO semantics, so a retransmitted request
// is answered without re-executing its handler. Entries are never
// evicted (Open Question 2 in §9).
type ReplyCache struct {
	entries map[cacheKey][]byte
}

// NewReplyCache creates an empty reply cache.
func NewReplyCache() *ReplyCache {
	return &ReplyCache{entries: make(map[cacheKey][]byte)}
}

// Lookup returns the cached reply bytes for (peerAddr, requestID), if any.
func (c *ReplyCache) Lookup(peerAddr string, requestID uint64) ([]byte, bool) {
	b, ok := c.entries[cacheKey{peerAddr, requestID}]
	return b, ok
}

// Store records reply bytes for (peerAddr, requestID). Per invariant C1,
// calling Store twice for the same key is a programming error — the
// handler path stores at most once per arrival, guarded by a prior Lookup.
func (c *ReplyCache) Store(peerAddr string, requestID uint64, reply []byte) {
	key := cacheKey{peerAddr, requestID}
	if _, exists := c.entries[key]; exists {
		panic(fmt.Sprintf("reply cache: duplicate store for %s/%d", peerAddr, requestID))
	}
	c.entries[key] = reply
	logger.Debug("reply cache entry stored", logger.PeerAddr(peerAddr), logger.RequestID(requestID), logger.BytesLen(len(reply)), logger.CacheSize(len(c.entries)))
}

// Len reports the number of cached entries, for the cache-size gauge that
// makes Open Question 2's unbounded growth observable.
func (c *ReplyCache) Len() int {
	return len(c.entries)
}

// EncodeForCache is a convenience wrapper matching the shape the server
// loop needs: encode msg once, return the bytes Lookup/Store expect.
func EncodeForCache(msg codec.Message) ([]byte, error) {
	return codec.Encode(msg)
}
