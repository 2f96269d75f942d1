package engine

import (
	"context"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/policy"
)

// Loader reads the policy tables a Snapshot is built from. It is called
// once when the Processor is created and once per ReloadData. Every map a
// Loader returns becomes owned by the snapshot; implementations must not
// retain or mutate it afterwards.
type Loader interface {
	LoadUsersByBadgeCode(ctx context.Context) (map[string]policy.User, error)
	LoadUserProfiles(ctx context.Context) (map[string][]string, error)
	LoadAllResources(ctx context.Context) (map[string]policy.Resource, error)
	LoadResourceGroups(ctx context.Context) (map[string]string, error)

	// LoadProfile returns (nil, nil) when no profile has the given name.
	LoadProfile(ctx context.Context, name string) (*policy.Profile, error)
}

// ViewLoader is a Loader that can pin a whole Build to one consistent
// view of its tables. Build reads through the returned Loader and calls
// release when done.
type ViewLoader interface {
	Loader
	View(ctx context.Context) (view Loader, release func(), err error)
}
