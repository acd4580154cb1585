package compositor

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// memShm is a ShmSegment backed by an anonymous memfd file, the Go
// equivalent of original_source's tempfile+memmap2 pairing in buffer.rs,
// using this module's existing golang.org/x/sys dependency instead of
// adding a new memory-mapping library.
type memShm struct {
	fd   int
	data []byte
}

// NewMemShm allocates a size-byte anonymous memory-backed file and maps it,
// for registration with the compositor as a wl_shm pool.
func NewMemShm(size int) (ShmSegment, error) {
	fd, err := unix.MemfdCreate("momoi-shm", 0)
	if err != nil {
		return nil, fmt.Errorf("compositor: memfd_create: %w", err)
	}
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("compositor: ftruncate: %w", err)
	}
	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("compositor: mmap: %w", err)
	}
	return &memShm{fd: fd, data: data}, nil
}

func (m *memShm) Bytes() []byte { return m.data }

func (m *memShm) Close() error {
	if m.data != nil {
		_ = unix.Munmap(m.data)
		m.data = nil
	}
	return unix.Close(m.fd)
}

// fakeShm is an in-process ShmSegment with no file backing, used by tests
// that exercise the buffer pool without a real compositor connection.
type fakeShm struct {
	data []byte
}

// NewFakeShm allocates a plain heap-backed segment.
func NewFakeShm(size int) ShmSegment {
	return &fakeShm{data: make([]byte, size)}
}

func (f *fakeShm) Bytes() []byte { return f.data }
func (f *fakeShm) Close() error  { return nil }
