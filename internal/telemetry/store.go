package telemetry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DefaultPath is the diagnostics file name, resolved next to the executable.
const DefaultPath = "ballsim-diagnostics.log"

type Store interface {
	Append(batch []Record) error
}

// FileStore appends records to a line-oriented text file. The file is
// opened in append mode on every call and closed before returning; it is
// never truncated below its size at the start of the call. A batch that
// fails partway is rolled back so the file only ever holds whole lines.
type FileStore struct {
	path string
	open func(path string) (logFile, error)
}

type logFile interface {
	io.WriteSeeker
	Truncate(size int64) error
	Close() error
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, open: openAppend}
}

func openAppend(path string) (logFile, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Append(batch []Record) error {
	if len(batch) == 0 {
		return nil
	}

	f, err := s.open(s.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}

	prev, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		f.Close()
		return fmt.Errorf("seek %s: %w", s.path, err)
	}

	if err := writeBatch(f, batch); err != nil {
		if terr := f.Truncate(prev); terr != nil {
			err = errors.Join(err, fmt.Errorf("roll back: %w", terr))
		}
		f.Close()
		return fmt.Errorf("write %s: %w", s.path, err)
	}

	return f.Close()
}

func writeBatch(w io.Writer, batch []Record) error {
	cw := csv.NewWriter(w)
	cw.Comma = fieldSep
	for _, r := range batch {
		if err := cw.Write(r.Fields()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ResolvePath returns path unchanged when absolute, otherwise joins it with
// the directory of the running executable.
func ResolvePath(path string) (string, error) {
	if path == "" {
		path = DefaultPath
	}
	if filepath.IsAbs(path) {
		return path, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	return filepath.Join(filepath.Dir(exe), path), nil
}

// ReadLog loads every record from a diagnostics file.
func ReadLog(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = fieldSep
	r.FieldsPerRecord = 4

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec, err := parseFields(row)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
