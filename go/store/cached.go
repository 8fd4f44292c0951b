// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package store

import (
	"bytes"
	"fmt"

	"github.com/Fantom-foundation/Keel/go/keel"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of substates retained by a Cached database
// if no other size is requested.
const DefaultCacheSize = 1 << 16

// Cached is a read-through cache of substate lookups on top of another
// database. Commits are forwarded and update the cached entries.
type Cached struct {
	db    keel.SubstateDatabase
	cache *lru.Cache[string, cachedSubstate]
}

type cachedSubstate struct {
	value  []byte
	exists bool
}

// NewCached creates a cache of the given capacity on top of the given
// database.
func NewCached(db keel.SubstateDatabase, capacity int) (*Cached, error) {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	cache, err := lru.New[string, cachedSubstate](capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create substate cache: %w", err)
	}
	return &Cached{db: db, cache: cache}, nil
}

func (c *Cached) GetSubstate(node keel.NodeID, partition keel.PartitionNumber, key keel.SubstateKey) ([]byte, bool, error) {
	dbKey := string(DbKey(node, partition, key))
	if entry, found := c.cache.Get(dbKey); found {
		return bytes.Clone(entry.value), entry.exists, nil
	}
	value, exists, err := c.db.GetSubstate(node, partition, key)
	if err != nil {
		return nil, false, err
	}
	c.cache.Add(dbKey, cachedSubstate{value: bytes.Clone(value), exists: exists})
	return value, exists, nil
}

func (c *Cached) ListSubstates(node keel.NodeID, partition keel.PartitionNumber) ([]keel.DatabaseEntry, error) {
	return c.db.ListSubstates(node, partition)
}

func (c *Cached) Commit(updates *keel.DatabaseUpdates) error {
	if updates == nil {
		return nil
	}
	if err := c.db.Commit(updates); err != nil {
		// The state of the underlying database is unknown.
		c.cache.Purge()
		return err
	}
	for _, update := range updates.Updates {
		dbKey := string(DbKey(update.Node, update.Partition, update.Key))
		if update.Delete {
			c.cache.Add(dbKey, cachedSubstate{})
		} else {
			c.cache.Add(dbKey, cachedSubstate{value: bytes.Clone(update.Value), exists: true})
		}
	}
	return nil
}
