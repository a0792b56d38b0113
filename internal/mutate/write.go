package mutate

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"jsonai/internal/apperr"
	"jsonai/internal/jsonvalue"
)

// Write serializes root and either prints it to stdout (dryRun) or
// writes it to destPath via the same same-directory-temp-file-then-
// rename dance as the filesystem writer this is grounded on: a
// same-filesystem rename is atomic, so readers of destPath never
// observe a partially written file.
func Write(root *jsonvalue.Value, destPath string, dryRun bool, pretty bool) error {
	data, err := jsonvalue.Marshal(root, pretty)
	if err != nil {
		return apperr.Wrap(apperr.KindEngine, err, "serializing result")
	}

	if dryRun {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}

	return writeAtomic(destPath, data)
}

func writeAtomic(destPath string, data []byte) error {
	dir := filepath.Dir(destPath)
	lock, err := acquireLock(dir)
	if err != nil {
		return apperr.Wrap(apperr.KindInput, err, "locking %s", dir)
	}
	defer lock.release()

	tmpName := filepath.Join(dir, filepath.Base(destPath)+"."+uuid.NewString()+".tmp")
	tmp, err := os.OpenFile(tmpName, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return apperr.Wrap(apperr.KindInput, err, "creating temp file")
	}

	bw := bufio.NewWriterSize(tmp, 64*1024)
	if _, err := bw.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return apperr.Wrap(apperr.KindInput, err, "writing temp file")
	}
	if err := bw.Flush(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return apperr.Wrap(apperr.KindInput, err, "flushing temp file")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return apperr.Wrap(apperr.KindInput, err, "syncing temp file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return apperr.Wrap(apperr.KindInput, err, "closing temp file")
	}

	if err := osReplace(tmpName, destPath); err != nil {
		_ = os.Remove(tmpName)
		return apperr.Wrap(apperr.KindInput, err, "replacing %s", destPath)
	}
	_ = syncDir(dir)
	return nil
}
