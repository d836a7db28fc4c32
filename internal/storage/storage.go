// Package storage holds byte-level snapshot backends. Each backend stores one
// opaque payload per named collection and overwrites it on every write.
package storage

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotExist      = errors.New("collection does not exist")
	ErrUnknownDriver = errors.New("unknown storage driver")
)

// Collection names used by the repository.
const (
	CollectionPassengers = "passengers"
	CollectionPlanes     = "planes"
	CollectionFlights    = "flights"
)

// Backend reads and overwrites whole collection snapshots.
type Backend interface {
	// Read returns the stored payload, or ErrNotExist when nothing was written yet.
	Read(ctx context.Context, collection string) ([]byte, error)
	// Write replaces the stored payload.
	Write(ctx context.Context, collection string, payload []byte) error
	Close() error
}

type Driver string

const (
	DriverFile     Driver = "file"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverS3       Driver = "s3"
	DriverMemory   Driver = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Driver      Driver
	DataDir     string
	SQLitePath  string
	PostgresDSN string
	S3          S3Config
}

// Open constructs the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Driver {
	case DriverFile, "":
		return NewFileBackend(opts.DataDir)
	case DriverSQLite:
		return NewSQLiteBackend(ctx, opts.SQLitePath)
	case DriverPostgres:
		return NewPostgresBackend(ctx, opts.PostgresDSN)
	case DriverS3:
		return NewS3Backend(ctx, opts.S3)
	case DriverMemory:
		return NewMemoryBackend(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
}
