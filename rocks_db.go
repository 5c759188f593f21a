package main

import (
	"errors"
	"fmt"

	"github.com/linxGnu/grocksdb"
)

// KV is the durable store surface the alert coordinator needs. RocksDB in
// production, a map in tests.
type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Del(key []byte) error
	Close()
}

var ErrKeyNotFound = errors.New("key not found")

func IsNotExist(err error) bool {
	return errors.Is(err, ErrKeyNotFound)
}

type RocksDBOptions struct {
	BlockCacheSize       uint64
	WriteBufferSize      uint64
	MaxWriteBufferNumber int
}

type RocksDB struct {
	db *grocksdb.DB
	ro *grocksdb.ReadOptions
	wo *grocksdb.WriteOptions
}

func NewRocksDB(name string, optsConf *RocksDBOptions) (*RocksDB, error) {
	opts := grocksdb.NewDefaultOptions()
	opts.SetCreateIfMissing(true)

	if optsConf.BlockCacheSize > 0 {
		options := grocksdb.NewDefaultBlockBasedTableOptions()
		cache := grocksdb.NewLRUCache(optsConf.BlockCacheSize)
		options.SetBlockCache(cache)
		opts.SetBlockBasedTableFactory(options)
	}

	if optsConf.WriteBufferSize > 0 {
		opts.SetWriteBufferSize(optsConf.WriteBufferSize)
	}
	if optsConf.MaxWriteBufferNumber > 0 {
		opts.SetMaxWriteBufferNumber(optsConf.MaxWriteBufferNumber)
	}

	db, err := grocksdb.OpenDb(opts, name)
	if err != nil {
		return nil, fmt.Errorf("failed to open RocksDB: %v", err)
	}

	return &RocksDB{
		db: db,
		ro: grocksdb.NewDefaultReadOptions(),
		wo: grocksdb.NewDefaultWriteOptions(),
	}, nil
}

func (r *RocksDB) Close() {
	r.ro.Destroy()
	r.wo.Destroy()
	r.db.Close()
}

func (r *RocksDB) Get(key []byte) ([]byte, error) {
	slice, err := r.db.Get(r.ro, key)
	if err != nil {
		return nil, err
	}
	defer slice.Free()

	if !slice.Exists() {
		return nil, ErrKeyNotFound
	}

	return append([]byte{}, slice.Data()...), nil
}

func (r *RocksDB) Set(key, value []byte) error {
	return r.db.Put(r.wo, key, value)
}

func (r *RocksDB) Del(key []byte) error {
	return r.db.Delete(r.wo, key)
}
