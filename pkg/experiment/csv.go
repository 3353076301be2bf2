package experiment

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/matzehuels/npuzzle/pkg/errors"
)

// CSVHeader is the column order written by CSVSink.
var CSVHeader = []string{"instance", "strategy", "heuristic", "N", "shuffle", "steps", "seconds", "nodes"}

// CSVSink writes rows to a CSV file with CSVHeader.
type CSVSink struct {
	f *os.File
	w *csv.Writer
}

// CreateCSV creates (or truncates) path, creating parent directories.
func CreateCSV(path string) (*CSVSink, error) {
	if err := errors.ValidateOutputPath(path); err != nil {
		return nil, err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &CSVSink{f: f, w: csv.NewWriter(f)}, nil
}

// NewCSVWriter returns a sink writing to w. Close flushes but does not
// close w.
func NewCSVWriter(w io.Writer) *CSVSink {
	return &CSVSink{w: csv.NewWriter(w)}
}

// Write writes the header followed by one record per row.
func (s *CSVSink) Write(_ context.Context, rows []Row) error {
	if err := s.w.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Instance),
			r.Strategy,
			r.Heuristic,
			strconv.Itoa(r.N),
			strconv.Itoa(r.Shuffle),
			strconv.Itoa(r.Steps),
			strconv.FormatFloat(r.Seconds, 'g', -1, 64),
			strconv.Itoa(r.Nodes),
		}
		if err := s.w.Write(rec); err != nil {
			return err
		}
	}
	s.w.Flush()
	return s.w.Error()
}

// Close flushes buffered records and closes the file, if any.
func (s *CSVSink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return err
	}
	if s.f != nil {
		return s.f.Close()
	}
	return nil
}

// ReadCSV reads rows written by CSVSink. Columns are matched by header
// name, so extra columns are ignored and order does not matter. Missing
// columns are an error.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "cannot read csv header")
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range CSVHeader {
		if _, ok := col[name]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "csv is missing column %q", name)
		}
	}

	var rows []Row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "line %d", line)
		}
		row, err := parseRecord(rec, col)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "line %d", line)
		}
		rows = append(rows, row)
	}
}

// ReadCSVFile opens path and calls ReadCSV.
func ReadCSVFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "cannot open %s", path)
	}
	defer f.Close()
	return ReadCSV(f)
}

func parseRecord(rec []string, col map[string]int) (Row, error) {
	var (
		r   Row
		err error
	)
	ints := []struct {
		name string
		dst  *int
	}{
		{"instance", &r.Instance},
		{"N", &r.N},
		{"shuffle", &r.Shuffle},
		{"steps", &r.Steps},
		{"nodes", &r.Nodes},
	}
	for _, f := range ints {
		// steps and nodes may have been written as floats by other tools.
		v, perr := strconv.ParseFloat(rec[col[f.name]], 64)
		if perr != nil {
			return Row{}, fmt.Errorf("column %s: %w", f.name, perr)
		}
		*f.dst = int(v)
	}
	r.Seconds, err = strconv.ParseFloat(rec[col["seconds"]], 64)
	if err != nil {
		return Row{}, fmt.Errorf("column seconds: %w", err)
	}
	r.Strategy = rec[col["strategy"]]
	r.Heuristic = rec[col["heuristic"]]
	return r, nil
}
