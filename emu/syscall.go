package emu

import (
	"errors"
	"io"
	"io/fs"
	"os"
)

// PowerPC Linux syscall numbers.
const (
	SyscallExit      uint32 = 1   // exit(status)
	SyscallRead      uint32 = 3   // read(fd, buf, count)
	SyscallWrite     uint32 = 4   // write(fd, buf, count)
	SyscallOpen      uint32 = 5   // open(path, flags, mode)
	SyscallClose     uint32 = 6   // close(fd)
	SyscallLseek     uint32 = 19  // lseek(fd, offset, whence)
	SyscallGetpid    uint32 = 20  // getpid()
	SyscallBrk       uint32 = 45  // brk(addr)
	SyscallIoctl     uint32 = 54  // ioctl(fd, request, arg)
	SyscallExitGroup uint32 = 234 // exit_group(status)
)

// Linux error codes.
const (
	ENOENT = 2  // No such file or directory
	EIO    = 5  // I/O error
	EBADF  = 9  // Bad file descriptor
	EACCES = 13 // Permission denied
	EEXIST = 17 // File exists
	EINVAL = 22 // Invalid argument
	ENOTTY = 25 // Not a typewriter
	ENOSYS = 38 // Function not implemented
)

// Linux open(2) flags, as laid out for 32-bit PowerPC.
const (
	linuxOWronly = 0x1
	linuxORdwr   = 0x2
	linuxOCreat  = 0x40
	linuxOExcl   = 0x80
	linuxOTrunc  = 0x200
	linuxOAppend = 0x400
)

// maxPathLen bounds guest path strings.
const maxPathLen = 4096

// guestPID is the process ID getpid reports.
const guestPID = 1000

// SyscallResult represents the result of a syscall execution.
type SyscallResult struct {
	// Exited is true if the syscall caused program termination.
	Exited bool

	// ExitCode is the exit status if Exited is true.
	ExitCode int64
}

// SyscallHandler is the interface for handling PowerPC Linux syscalls.
type SyscallHandler interface {
	// Handle executes the syscall indicated by the register file state.
	// PowerPC Linux syscall convention:
	//   - Syscall number in r0
	//   - Arguments in r3-r8
	//   - Return value in r3
	//   - CR0.SO set on error, with the positive errno in r3
	Handle() SyscallResult
}

// DefaultSyscallHandler provides a basic syscall handler implementation.
type DefaultSyscallHandler struct {
	regFile *RegFile
	memory  *Memory
	fdTable *FDTable
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer

	brkStart uint32
	brk      uint32
}

// NewDefaultSyscallHandler creates a default syscall handler.
func NewDefaultSyscallHandler(regFile *RegFile, memory *Memory, stdout, stderr io.Writer) *DefaultSyscallHandler {
	return &DefaultSyscallHandler{
		regFile: regFile,
		memory:  memory,
		fdTable: NewFDTable(),
		stdout:  stdout,
		stderr:  stderr,
	}
}

// SetStdin sets the stdin reader for the syscall handler.
func (h *DefaultSyscallHandler) SetStdin(stdin io.Reader) {
	h.stdin = stdin
}

// SetBreak sets the initial program break, normally the end of the
// highest loaded segment.
func (h *DefaultSyscallHandler) SetBreak(addr uint32) {
	h.brkStart = addr
	h.brk = addr
}

// FDTable returns the handler's file descriptor table.
func (h *DefaultSyscallHandler) FDTable() *FDTable {
	return h.fdTable
}

// Handle executes the syscall indicated by the register file state.
func (h *DefaultSyscallHandler) Handle() SyscallResult {
	switch h.regFile.ReadReg(0) {
	case SyscallExit, SyscallExitGroup:
		return h.handleExit()
	case SyscallRead:
		h.handleRead()
	case SyscallWrite:
		h.handleWrite()
	case SyscallOpen:
		h.handleOpen()
	case SyscallClose:
		h.handleClose()
	case SyscallLseek:
		h.handleLseek()
	case SyscallGetpid:
		h.setResult(guestPID)
	case SyscallBrk:
		h.handleBrk()
	case SyscallIoctl:
		h.handleIoctl()
	default:
		h.setError(ENOSYS)
	}
	return SyscallResult{}
}

func (h *DefaultSyscallHandler) arg(i uint8) uint32 {
	return h.regFile.ReadReg(3 + i)
}

func (h *DefaultSyscallHandler) handleExit() SyscallResult {
	h.fdTable.CloseAll()
	return SyscallResult{
		Exited:   true,
		ExitCode: int64(int32(h.arg(0))),
	}
}

func (h *DefaultSyscallHandler) handleRead() {
	fd, bufPtr, count := h.arg(0), h.arg(1), h.arg(2)

	if !h.fdTable.IsOpen(fd) {
		h.setError(EBADF)
		return
	}

	buf := make([]byte, count)
	var (
		n   int
		err error
	)
	if fd == FDStdin {
		if h.stdin == nil {
			h.setResult(0)
			return
		}
		n, err = h.stdin.Read(buf)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	} else {
		n, err = h.fdTable.Read(fd, buf)
	}
	if err != nil && n == 0 {
		h.setError(errnoFor(err))
		return
	}

	h.memory.WriteBytes(bufPtr, buf[:n])
	h.setResult(uint32(n))
}

func (h *DefaultSyscallHandler) handleWrite() {
	fd, bufPtr, count := h.arg(0), h.arg(1), h.arg(2)

	if !h.fdTable.IsOpen(fd) {
		h.setError(EBADF)
		return
	}

	buf := make([]byte, count)
	h.memory.ReadBytes(bufPtr, buf)

	var (
		n   int
		err error
	)
	switch fd {
	case FDStdin:
		h.setError(EBADF)
		return
	case FDStdout:
		n, err = h.stdout.Write(buf)
	case FDStderr:
		n, err = h.stderr.Write(buf)
	default:
		n, err = h.fdTable.Write(fd, buf)
	}
	if err != nil {
		h.setError(EIO)
		return
	}

	h.setResult(uint32(n))
}

func (h *DefaultSyscallHandler) handleOpen() {
	path := h.memory.ReadString(h.arg(0), maxPathLen)
	flags := hostOpenFlags(h.arg(1))
	mode := os.FileMode(h.arg(2) & 0777)

	fd, err := h.fdTable.Open(path, flags, mode)
	if err != nil {
		h.setError(errnoFor(err))
		return
	}
	h.setResult(fd)
}

func (h *DefaultSyscallHandler) handleClose() {
	if err := h.fdTable.Close(h.arg(0)); err != nil {
		h.setError(EBADF)
		return
	}
	h.setResult(0)
}

func (h *DefaultSyscallHandler) handleLseek() {
	fd, offset, whence := h.arg(0), int64(int32(h.arg(1))), int(h.arg(2))

	if whence > io.SeekEnd {
		h.setError(EINVAL)
		return
	}

	pos, err := h.fdTable.Seek(fd, offset, whence)
	if err != nil {
		if !h.fdTable.IsOpen(fd) {
			h.setError(EBADF)
		} else {
			h.setError(EINVAL)
		}
		return
	}
	h.setResult(uint32(pos))
}

// handleBrk moves the program break. A request below the initial break
// leaves it unchanged; the current break is always returned.
func (h *DefaultSyscallHandler) handleBrk() {
	addr := h.arg(0)
	if addr >= h.brkStart && addr != 0 {
		if addr > h.brk {
			h.memory.Zero(h.brk, addr-h.brk)
		}
		h.brk = addr
	}
	h.setResult(h.brk)
}

// handleIoctl reports every descriptor as not a terminal.
func (h *DefaultSyscallHandler) handleIoctl() {
	if !h.fdTable.IsOpen(h.arg(0)) {
		h.setError(EBADF)
		return
	}
	h.setError(ENOTTY)
}

func (h *DefaultSyscallHandler) setResult(v uint32) {
	h.regFile.WriteReg(3, v)
	h.regFile.CR[0].SO = false
}

// setError reports errno the way the PowerPC kernel does: positive in r3
// with the summary overflow bit of CR0 set.
func (h *DefaultSyscallHandler) setError(errno uint32) {
	h.regFile.WriteReg(3, errno)
	h.regFile.CR[0].SO = true
}

func hostOpenFlags(flags uint32) int {
	var host int
	switch flags & 3 {
	case linuxOWronly:
		host = os.O_WRONLY
	case linuxORdwr:
		host = os.O_RDWR
	default:
		host = os.O_RDONLY
	}
	if flags&linuxOCreat != 0 {
		host |= os.O_CREATE
	}
	if flags&linuxOExcl != 0 {
		host |= os.O_EXCL
	}
	if flags&linuxOTrunc != 0 {
		host |= os.O_TRUNC
	}
	if flags&linuxOAppend != 0 {
		host |= os.O_APPEND
	}
	return host
}

func errnoFor(err error) uint32 {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ENOENT
	case errors.Is(err, fs.ErrPermission):
		return EACCES
	case errors.Is(err, fs.ErrExist):
		return EEXIST
	case errors.Is(err, os.ErrInvalid):
		return EBADF
	default:
		return EIO
	}
}
