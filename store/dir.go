/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
)

// DirBackend implements httpcache.Cache with one file per key in a local
// directory. It is meant for running the CLI without an S3 bucket.
type DirBackend struct {
	dir string
}

func NewDirBackend(dir string) (*DirBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store.dir: unable to create %v: %w", dir, err)
	}

	return &DirBackend{dir: dir}, nil
}

func (d *DirBackend) Get(key string) ([]byte, bool) {
	data, err := os.ReadFile(d.path(key))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("store.dirget: failed to read %v: %v", key, err)
		}
		return nil, false
	}

	return data, true
}

// Set writes through a temp file so a crash never leaves a torn record.
func (d *DirBackend) Set(key string, data []byte) {
	tmp, err := os.CreateTemp(d.dir, ".tmp-*")
	if err != nil {
		log.Printf("store.dirset: failed to create temp file: %v", err)
		return
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		log.Printf("store.dirset: failed to write %v: %v", key, err)
		return
	}
	if err := tmp.Close(); err != nil {
		log.Printf("store.dirset: failed to close %v: %v", key, err)
		return
	}
	if err := os.Rename(tmp.Name(), d.path(key)); err != nil {
		log.Printf("store.dirset: failed to rename %v: %v", key, err)
	}
}

func (d *DirBackend) Delete(key string) {
	err := os.Remove(d.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("store.dirdelete: failed to remove %v: %v", key, err)
	}
}

func (d *DirBackend) path(key string) string {
	h := md5.New()
	io.WriteString(h, key)

	return filepath.Join(d.dir, hex.EncodeToString(h.Sum(nil)))
}
