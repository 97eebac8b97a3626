package emu

import (
	"io"
	"os"
	"sync"
)

// Standard stream descriptors.
const (
	FDStdin  uint32 = 0
	FDStdout uint32 = 1
	FDStderr uint32 = 2
)

// FileDescriptor represents an open guest file descriptor.
type FileDescriptor struct {
	HostFile *os.File // nil for the standard streams
	Path     string
	Flags    int
}

// FDTable maps guest file descriptors onto host files. The standard
// streams are always present and are served by the syscall handler's
// readers and writers rather than by host files.
type FDTable struct {
	mu     sync.Mutex
	fds    map[uint32]*FileDescriptor
	nextFD uint32
}

// NewFDTable creates a table holding the standard streams.
func NewFDTable() *FDTable {
	return &FDTable{
		fds: map[uint32]*FileDescriptor{
			FDStdin:  {Path: "stdin"},
			FDStdout: {Path: "stdout"},
			FDStderr: {Path: "stderr"},
		},
		nextFD: 3,
	}
}

// Open opens a host file and returns its new guest descriptor.
func (t *FDTable) Open(path string, flags int, mode os.FileMode) (uint32, error) {
	hostFile, err := os.OpenFile(path, flags, mode)
	if err != nil {
		return 0, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fd := t.nextFD
	t.nextFD++
	t.fds[fd] = &FileDescriptor{
		HostFile: hostFile,
		Path:     path,
		Flags:    flags,
	}

	return fd, nil
}

// Close closes a descriptor. Closing a standard stream only forgets it.
func (t *FDTable) Close(fd uint32) error {
	t.mu.Lock()
	entry, ok := t.fds[fd]
	if ok {
		delete(t.fds, fd)
	}
	t.mu.Unlock()

	if !ok {
		return os.ErrInvalid
	}
	if entry.HostFile == nil {
		return nil
	}
	return entry.HostFile.Close()
}

// Get returns the entry of an open descriptor.
func (t *FDTable) Get(fd uint32) (*FileDescriptor, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.fds[fd]
	return entry, ok
}

// IsOpen reports whether fd is open.
func (t *FDTable) IsOpen(fd uint32) bool {
	_, ok := t.Get(fd)
	return ok
}

func (t *FDTable) hostFile(fd uint32) (*os.File, error) {
	entry, ok := t.Get(fd)
	if !ok || entry.HostFile == nil {
		return nil, os.ErrInvalid
	}
	return entry.HostFile, nil
}

// Read reads from a host-backed descriptor.
func (t *FDTable) Read(fd uint32, buf []byte) (int, error) {
	f, err := t.hostFile(fd)
	if err != nil {
		return 0, err
	}
	n, err := f.Read(buf)
	if err == io.EOF {
		err = nil
	}
	return n, err
}

// Write writes to a host-backed descriptor.
func (t *FDTable) Write(fd uint32, buf []byte) (int, error) {
	f, err := t.hostFile(fd)
	if err != nil {
		return 0, err
	}
	return f.Write(buf)
}

// Seek sets the file position of a host-backed descriptor.
func (t *FDTable) Seek(fd uint32, offset int64, whence int) (int64, error) {
	f, err := t.hostFile(fd)
	if err != nil {
		return 0, err
	}
	return f.Seek(offset, whence)
}

// CloseAll closes every host-backed descriptor.
func (t *FDTable) CloseAll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for fd, entry := range t.fds {
		if entry.HostFile != nil {
			_ = entry.HostFile.Close()
			delete(t.fds, fd)
		}
	}
}
