package experiment

import (
	"context"
	stderrors "errors"
)

// Sink receives the rows of a run.
type Sink interface {
	Write(ctx context.Context, rows []Row) error
	Close() error
}

// OpenSinks opens every sink configured in out. On failure the sinks
// opened so far are closed.
func OpenSinks(ctx context.Context, out Output) ([]Sink, error) {
	var sinks []Sink
	fail := func(err error) ([]Sink, error) {
		for _, s := range sinks {
			s.Close()
		}
		return nil, err
	}

	if out.CSV != "" {
		s, err := CreateCSV(out.CSV)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, s)
	}
	if out.SQLite != "" {
		s, err := OpenSQLite(ctx, out.SQLite)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, s)
	}
	if out.Mongo.URI != "" {
		s, err := OpenMongo(ctx, out.Mongo)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, s)
	}
	return sinks, nil
}

// WriteAll writes rows to every sink and closes them. All sinks are
// attempted; the errors are joined.
func WriteAll(ctx context.Context, rows []Row, sinks ...Sink) error {
	var errs []error
	for _, s := range sinks {
		if err := s.Write(ctx, rows); err != nil {
			errs = append(errs, err)
		}
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}
