package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/rogersnm/todos/internal/id"
)

// DriverRemote selects a RemoteStore talking to a todos server.
const DriverRemote = "remote"

// Options selects a backend and its id policy.
type Options struct {
	Driver   string
	DSN      string
	IDPolicy id.Kind
	// ServerURL is used by the remote driver.
	ServerURL string
}

type opener func(ctx context.Context, opts Options) (Store, error)

// openers maps driver names to constructors.
var openers = map[string]opener{
	DriverMemory: func(_ context.Context, opts Options) (Store, error) {
		p, err := id.New(opts.IDPolicy)
		if err != nil {
			return nil, err
		}
		return NewMemory(p), nil
	},
	DriverSQLite:   openSQL,
	DriverPostgres: openSQL,
	DriverRemote: func(_ context.Context, opts Options) (Store, error) {
		if opts.ServerURL == "" {
			return nil, fmt.Errorf("remote storage needs a server url")
		}
		return NewRemote(opts.ServerURL), nil
	},
}

func openSQL(ctx context.Context, opts Options) (Store, error) {
	if opts.DSN == "" {
		return nil, fmt.Errorf("%s storage needs a dsn", opts.Driver)
	}
	p, err := id.New(opts.IDPolicy)
	if err != nil {
		return nil, err
	}
	return OpenSQL(ctx, opts.Driver, opts.DSN, p)
}

// Open returns the store for opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	open, ok := openers[opts.Driver]
	if !ok {
		return nil, fmt.Errorf("storage driver %q not supported (want one of %v)", opts.Driver, Drivers())
	}
	return open(ctx, opts)
}

// Drivers returns the supported driver names, sorted.
func Drivers() []string {
	var names []string
	for n := range openers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// IsSQL reports whether driver is backed by a relational database.
func IsSQL(driver string) bool {
	return driver == DriverSQLite || driver == DriverPostgres
}
