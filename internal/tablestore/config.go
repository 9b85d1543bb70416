package tablestore

import (
	"errors"
	"os"
	"syscall"
)

func (sc *StoreConfig) check() error {
	if sc.Path == "" {
		return errors.New("no path provided in configuration")
	}

	info, err := os.Stat(sc.Path)
	if os.IsNotExist(err) {
		return errors.New("path does not exist")
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errors.New("path is not a directory")
	}

	if sc.MinimumFreeMB > 0 {
		var stat syscall.Statfs_t
		if err := syscall.Statfs(sc.Path, &stat); err != nil {
			return err
		}
		availableMB := (stat.Bavail * uint64(stat.Bsize)) / (1024 * 1024)
		if int(availableMB) < sc.MinimumFreeMB {
			return errors.New("not enough space available on disk")
		}
	}

	return nil
}
