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
	"errors"
	"fmt"

	"github.com/Fantom-foundation/Keel/go/keel"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDB is a SubstateDatabase backed by a LevelDB instance.
type LevelDB struct {
	db *leveldb.DB
}

// OpenLevelDB opens or creates a LevelDB database in the given directory.
func OpenLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open LevelDB at %s: %w", path, err)
	}
	return NewLevelDB(db), nil
}

// OpenInMemoryLevelDB creates a LevelDB instance on top of a volatile
// in-memory storage.
func OpenInMemoryLevelDB() (*LevelDB, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, err
	}
	return NewLevelDB(db), nil
}

// NewLevelDB wraps an open LevelDB instance. Ownership of the instance is
// transferred to the result.
func NewLevelDB(db *leveldb.DB) *LevelDB {
	return &LevelDB{db: db}
}

func (l *LevelDB) GetSubstate(node keel.NodeID, partition keel.PartitionNumber, key keel.SubstateKey) ([]byte, bool, error) {
	value, err := l.db.Get(DbKey(node, partition, key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (l *LevelDB) ListSubstates(node keel.NodeID, partition keel.PartitionNumber) ([]keel.DatabaseEntry, error) {
	prefix := PartitionKey(node, partition)
	iter := l.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	res := []keel.DatabaseEntry{}
	for iter.Next() {
		key, err := SubstateKeyFromSortKey(bytes.Clone(iter.Key()[len(prefix):]))
		if err != nil {
			return nil, err
		}
		res = append(res, keel.DatabaseEntry{Key: key, Value: bytes.Clone(iter.Value())})
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return res, nil
}

func (l *LevelDB) Commit(updates *keel.DatabaseUpdates) error {
	if updates.Len() == 0 {
		return nil
	}
	batch := new(leveldb.Batch)
	for _, update := range updates.Updates {
		key := DbKey(update.Node, update.Partition, update.Key)
		if update.Delete {
			batch.Delete(key)
		} else {
			batch.Put(key, update.Value)
		}
	}
	return l.db.Write(batch, nil)
}

func (l *LevelDB) Close() error {
	return l.db.Close()
}
