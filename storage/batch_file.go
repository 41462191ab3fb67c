package storage

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"config-cli/models"
)

// ErrWrite is returned when a batch file cannot be written.
var ErrWrite = errors.New("Unable to write to batch file")

// WriteBatchList persists exactly one serialized batch list at path.
func WriteBatchList(path string, list *models.BatchList) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrWrite)
	}
	if list == nil {
		return fmt.Errorf("%w: nil batch list", ErrWrite)
	}

	data := list.Marshal()

	// Write next to the target so the rename stays on one filesystem
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	tempPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	log.Printf("Wrote %d batch(es) (%d bytes) to %s", len(list.Batches), len(data), path)
	return nil
}

// ReadBatchList loads a batch file written by WriteBatchList.
func ReadBatchList(path string) (*models.BatchList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	list, err := models.UnmarshalBatchList(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode batch file %s: %w", path, err)
	}
	return list, nil
}
