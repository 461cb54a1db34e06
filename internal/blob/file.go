package blob

import (
	"fmt"
	"os"
	"path/filepath"

	apperrors "github.com/open-cli-collective/fwblob/internal/errors"
)

// FilePerm is the permission for written blob files.
const FilePerm = 0644

// WriteFile writes data to path atomically. On failure the previous
// content of path, if any, is left untouched.
func WriteFile(path string, data []byte) error {
	if err := writeAtomic(path, data); err != nil {
		return apperrors.NewStepError(apperrors.StepPersist, apperrors.ErrOutputWrite, err)
	}
	return nil
}

func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpName, FilePerm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// ReadFile reads and decodes a blob file.
func ReadFile(path string) (Blob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Blob{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	b, err := Parse(data)
	if err != nil {
		return Blob{}, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}
