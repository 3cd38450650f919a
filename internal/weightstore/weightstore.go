// Package weightstore persists a flat weight vector in an mmap'd file so a
// bucket index can borrow it directly: the mapping is exposed as a live
// []int64, mutations go straight to the page cache and survive restarts
// after Flush.
package weightstore

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"unsafe"

	"github.com/edsrzf/mmap-go"
)

const (
	storeMagic   uint32 = 0x57544B42 // "BKTW"
	storeVersion uint32 = 1

	// Fixed-size little-endian header; 16 bytes keeps the value array
	// 8-byte aligned.
	headerSize = 16
)

type storeHeader struct {
	Magic   uint32
	Version uint32
	Count   uint64
}

// Store is an mmap-backed vector of int64 weights.
type Store struct {
	file   *os.File
	mmap   mmap.MMap
	path   string
	values []int64
	fresh  bool
}

// Open maps the weight file at path, creating and zero-filling it when it
// does not exist. count is the number of weights; an existing file must
// hold exactly that many.
func Open(path string, count int) (*Store, error) {
	if count <= 0 {
		return nil, fmt.Errorf("weightstore: count must be positive, got %d", count)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	size := int64(headerSize + 8*count)
	isNewFile := info.Size() == 0

	if isNewFile {
		if err := f.Truncate(size); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to truncate file: %w", err)
		}
	} else if info.Size() != size {
		f.Close()
		return nil, fmt.Errorf("weightstore: %s is %d bytes, want %d for %d weights", path, info.Size(), size, count)
	}

	m, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to mmap file: %w", err)
	}

	s := &Store{
		file:  f,
		mmap:  m,
		path:  path,
		fresh: isNewFile,
	}

	if isNewFile {
		hdr := storeHeader{Magic: storeMagic, Version: storeVersion, Count: uint64(count)}
		var buf bytes.Buffer
		if err := binary.Write(&buf, binary.LittleEndian, &hdr); err != nil {
			s.Close()
			return nil, err
		}
		copy(s.mmap, buf.Bytes())
	} else {
		var hdr storeHeader
		if err := binary.Read(bytes.NewReader(m[:headerSize]), binary.LittleEndian, &hdr); err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to read weight store header: %w", err)
		}
		if hdr.Magic != storeMagic {
			s.Close()
			return nil, fmt.Errorf("weightstore: %s is not a weight store", path)
		}
		if hdr.Version != storeVersion {
			s.Close()
			return nil, fmt.Errorf("weightstore: unsupported version %d", hdr.Version)
		}
		if hdr.Count != uint64(count) {
			s.Close()
			return nil, fmt.Errorf("weightstore: %s holds %d weights, want %d", path, hdr.Count, count)
		}
	}

	// The header keeps this offset 8-byte aligned; the store is only
	// meaningful on little-endian hosts, same as the on-disk format.
	s.values = unsafe.Slice((*int64)(unsafe.Pointer(&m[headerSize])), count)
	return s, nil
}

// Values returns the live weight vector backed by the mapping. Mutations
// become durable after Flush.
func (s *Store) Values() []int64 {
	return s.values
}

// Fresh reports whether Open created the file, meaning all weights are
// still zero and should be seeded by the caller.
func (s *Store) Fresh() bool {
	return s.fresh
}

// Flush syncs the mapping to disk.
func (s *Store) Flush() error {
	return s.mmap.Flush()
}

// Close flushes, unmaps and closes the file. The slice returned by Values
// must not be used afterwards.
func (s *Store) Close() error {
	if s.mmap == nil {
		return nil
	}
	if err := s.mmap.Flush(); err != nil {
		return err
	}
	s.values = nil
	if err := s.mmap.Unmap(); err != nil {
		s.file.Close()
		return err
	}
	s.mmap = nil
	return s.file.Close()
}
