package store

import (
	"fmt"
	"os"
	"os/user"
	"path"
)

const defaultDirectoryPermission = 0740
const rwFilePermission = 0600

// HomeFolder returns the home folder of the current user.
func HomeFolder() string {
	u, err := user.Current()
	if err != nil {
		panic(err)
	}
	return u.HomeDir
}

// CreateSecureFolder ensures folder exists with defaultDirectoryPermission
// (0740: owner rwx, group read, nothing for others), creating it if needed.
// Every caller uses folder to hold key material or recovered shares, so a
// folder that already exists with any other permission bits (e.g. inherited
// from a shared parent directory) is reset to defaultDirectoryPermission
// rather than silently accepted.
func CreateSecureFolder(folder string) error {
	exists, err := Exists(folder)
	if err != nil {
		return fmt.Errorf("store: stat folder %s: %w", folder, err)
	}
	if exists {
		info, err := os.Lstat(folder)
		if err != nil {
			return fmt.Errorf("store: stat folder %s: %w", folder, err)
		}
		if perm := info.Mode().Perm(); perm != defaultDirectoryPermission {
			if err := os.Chmod(folder, defaultDirectoryPermission); err != nil {
				return fmt.Errorf("store: tighten %s from %#o to %#o: %w", folder, perm, defaultDirectoryPermission, err)
			}
		}
		return nil
	}
	if err := os.MkdirAll(folder, defaultDirectoryPermission); err != nil {
		return fmt.Errorf("store: create folder %s: %w", folder, err)
	}
	return nil
}

// Exists returns whether the given file or directory exists.
func Exists(filePath string) (bool, error) {
	_, err := os.Stat(filePath)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return true, err
}

// CreateSecureFile creates a file readable/writable by the owner only.
func CreateSecureFile(file string) (*os.File, error) {
	fd, err := os.Create(file)
	if err != nil {
		return nil, err
	}
	fd.Close()
	if err := os.Chmod(file, rwFilePermission); err != nil {
		return nil, err
	}
	return os.OpenFile(file, os.O_RDWR, rwFilePermission)
}

// Files returns the list of file names contained in the given folder.
func Files(folderPath string) ([]string, error) {
	fi, err := os.ReadDir(folderPath)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, f := range fi {
		if !f.IsDir() {
			files = append(files, path.Join(folderPath, f.Name()))
		}
	}
	return files, nil
}
