//go:build windows

package mutate

import (
	"os"
	"syscall"
	"unsafe"
)

const (
	movefileReplaceExisting = 0x1
	movefileWriteThrough    = 0x8
)

var (
	modkernel32     = syscall.NewLazyDLL("kernel32.dll")
	procMoveFileExW = modkernel32.NewProc("MoveFileExW")
)

// osReplace uses MoveFileExW with REPLACE_EXISTING|WRITE_THROUGH for a
// best-effort atomic replace on Windows, where os.Rename refuses to
// overwrite an existing file.
func osReplace(tmpPath, dest string) error {
	fromp, err := syscall.UTF16PtrFromString(tmpPath)
	if err != nil {
		return err
	}
	top, err := syscall.UTF16PtrFromString(dest)
	if err != nil {
		return err
	}
	r1, _, e1 := procMoveFileExW.Call(
		uintptr(unsafe.Pointer(fromp)),
		uintptr(unsafe.Pointer(top)),
		uintptr(movefileReplaceExisting|movefileWriteThrough),
	)
	if r1 == 0 {
		if e1 != nil && e1 != syscall.Errno(0) {
			return e1
		}
		return syscall.EINVAL
	}
	return nil
}

// syncDir is a no-op on Windows; directory fsync has no portable API.
func syncDir(dir string) error { return nil }

// dirLock is a no-op on Windows: the exclusive temp-file create
// (O_CREATE|O_EXCL) already prevents two writers from colliding on
// the same temp name, and syscall.Flock has no Windows equivalent.
type dirLock struct{}

func acquireLock(dir string) (*dirLock, error) { return &dirLock{}, nil }

func (l *dirLock) release() {}
