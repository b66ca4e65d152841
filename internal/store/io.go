package store

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// WriteFile stores a report at path. The data goes to a sibling temp file
// first, which then replaces path, so readers never see a partial report.
// Missing parent directories are created.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "failed to create %s", dir)
	}
	if err := replaceFile(dir, path, data, perm); err != nil {
		return eris.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

func replaceFile(dir, path string, data []byte, perm os.FileMode) (err error) {
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(name)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Chmod(perm); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(name, path)
}
