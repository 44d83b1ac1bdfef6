package seisio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alexiusacademia/goseis/internal/log"
	"github.com/alexiusacademia/goseis/internal/record"
)

// LoadError records a file that LoadDir could not read.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %v", filepath.Base(e.Path), e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadDir reads every file in dir whose name matches pattern, compared
// case-insensitively. AT2 files go through ReadAT2File; .txt and .dat files
// through ReadTextFile with DefaultTextDt for single-column data. Other
// extensions are ignored. Files that fail to parse are returned as
// LoadErrors and logged; they do not stop the batch.
func LoadDir(dir, pattern string, recursive bool) ([]*record.Record, []*LoadError, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, nil, err
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("seisio: %s is not a directory", dir)
	}
	pat := strings.ToLower(pattern)
	if _, err := filepath.Match(pat, ""); err != nil {
		return nil, nil, fmt.Errorf("seisio: bad pattern %q: %w", pattern, err)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if ok, _ := filepath.Match(pat, strings.ToLower(d.Name())); ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	sort.Strings(files)

	var (
		records []*record.Record
		failed  []*LoadError
	)
	for _, path := range files {
		var (
			rec *record.Record
			err error
		)
		switch strings.ToLower(filepath.Ext(path)) {
		case ".at2":
			rec, err = ReadAT2File(path)
		case ".txt", ".dat":
			rec, err = ReadTextFile(path, TextOptions{})
			if errors.Is(err, ErrMissingDt) {
				rec, err = ReadTextFile(path, TextOptions{Dt: DefaultTextDt})
			}
		default:
			continue
		}
		if err == nil {
			err = rec.Validate(2)
		}
		if err != nil {
			le := &LoadError{Path: path, Err: err}
			log.Warnw("skipping record file", "file", filepath.Base(path), "err", err)
			failed = append(failed, le)
			continue
		}
		records = append(records, rec)
	}

	log.Debugw("loaded records", "dir", dir, "pattern", pattern, "loaded", len(records), "failed", len(failed))
	return records, failed, nil
}
