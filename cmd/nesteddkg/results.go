package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nesteddkg/tbls/store"
)

// appendResult appends one CSV record to folder/results/<name>.csv,
// writing header as the first line if the file does not exist yet. Per
// spec.md's file layouts, results files are timing-only and not part of
// the core protocol; this is the "external collaborator" the core itself
// never touches.
func appendResult(folder, name, header, record string) (string, error) {
	dir := filepath.Join(folder, "results")
	if err := store.CreateSecureFolder(dir); err != nil {
		return "", fmt.Errorf("nesteddkg: %w", err)
	}
	path := filepath.Join(dir, name+".csv")
	_, statErr := os.Stat(path)
	fd, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("nesteddkg: open %s: %w", path, err)
	}
	defer fd.Close()

	if os.IsNotExist(statErr) {
		if _, err := fmt.Fprintln(fd, "timestamp,"+header); err != nil {
			return "", err
		}
	}
	_, err = fmt.Fprintf(fd, "%s,%s\n", time.Now().UTC().Format(time.RFC3339), record)
	return path, err
}
