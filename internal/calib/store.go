// Package calib persists the hand-tracking calibration.
package calib

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads calibration data from disk. Missing files return empty data.
func Load(path string) (Calib, error) {
	var c Calib
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return Calib{}, fmt.Errorf("decode %s: %w", path, err)
	}
	c.Box = Normalize(c.Box)
	return c, nil
}

// Save writes calibration data to disk, creating parent directories as needed.
// The file is written beside the target and renamed into place.
func Save(path string, c Calib) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
