package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/linxGnu/grocksdb"
)

// Offline inspection of the alert store: prints every alert document and the
// opportunity snapshot as raw JSON, one record per line.
func main() {
	var dbPath string
	flag.StringVar(&dbPath, "db", "./db", "RocksDB path")
	flag.Parse()

	opts := grocksdb.NewDefaultOptions()
	opts.SetCreateIfMissing(false)
	db, err := grocksdb.OpenDb(opts, dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open rocksdb failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	readOpts := grocksdb.NewDefaultReadOptions()
	defer readOpts.Destroy()

	it := db.NewIterator(readOpts)
	defer it.Close()
	it.SeekToFirst()
	for ; it.Valid(); it.Next() {
		key := it.Key().Data()
		val := it.Value().Data()
		fmt.Printf("%s\t%s\n", string(key), string(val))
		it.Key().Free()
		it.Value().Free()
	}
}
