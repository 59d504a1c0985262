package fileutil

import (
	"io"
	"os"
	"time"
)

// BackupTimestampLayout names backup files down to the second, matching the
// operator-facing convention <path>_backup_<timestamp>.
const BackupTimestampLayout = "20060102150405"

// BackupPath derives the backup destination for a path at the given time.
func BackupPath(path string, at time.Time) string {
	return path + "_backup_" + at.Format(BackupTimestampLayout)
}

// CopyFile streams src to dst using io.Copy with default permissions (0o644).
func CopyFile(src, dst string) error {
	return CopyFileMode(src, dst, 0o644)
}

// CopyFileMode streams src to dst, setting the given file mode on dst.
func CopyFileMode(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// Backup copies path to its timestamped backup location and returns the
// backup path. The original's mode is preserved when it can be read.
func Backup(path string, at time.Time) (string, error) {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	dst := BackupPath(path, at)
	if err := CopyFileMode(path, dst, mode); err != nil {
		return "", err
	}
	return dst, nil
}
