package engine

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/policy"
)

// Snapshot is the frozen, read-only join of the policy tables. Nothing
// mutates a Snapshot after Build returns it, so any number of goroutines
// may read it concurrently.
type Snapshot struct {
	version uint64
	builtAt time.Time

	usersByBadge   map[string]policy.User
	userProfiles   map[string][]string // sorted by profile name
	resources      map[string]policy.Resource
	resourceGroups map[string]string
	profiles       map[string]*policy.Profile
	readerResource map[string]string
}

// Stats summarises the contents of a snapshot.
type Stats struct {
	Version         uint64    `json:"version"`
	BuiltAt         time.Time `json:"built_at"`
	Badges          int       `json:"badges"`
	Users           int       `json:"users_with_profiles"`
	Resources       int       `json:"resources"`
	GroupedResource int       `json:"grouped_resources"`
	Profiles        int       `json:"profiles"`
	MissingProfiles []string  `json:"missing_profiles,omitempty"`
}

// Build reads every table from l and joins them into a new Snapshot. It
// fails as a whole if any read fails. A ViewLoader is read through a
// single view so concurrent writes cannot tear the snapshot.
func Build(ctx context.Context, l Loader, builtAt time.Time) (*Snapshot, error) {
	if vl, ok := l.(ViewLoader); ok {
		view, release, err := vl.View(ctx)
		if err != nil {
			return nil, fmt.Errorf("open policy view: %w", err)
		}
		defer release()
		l = view
	}

	users, err := l.LoadUsersByBadgeCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users by badge code: %w", err)
	}
	userProfiles, err := l.LoadUserProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("load user profiles: %w", err)
	}
	resources, err := l.LoadAllResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("load resources: %w", err)
	}
	groups, err := l.LoadResourceGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("load resource groups: %w", err)
	}

	s := &Snapshot{
		builtAt:        builtAt,
		usersByBadge:   orEmpty(users),
		userProfiles:   make(map[string][]string, len(userProfiles)),
		resources:      orEmpty(resources),
		resourceGroups: orEmpty(groups),
		profiles:       make(map[string]*policy.Profile),
		readerResource: make(map[string]string),
	}

	for userID, names := range userProfiles {
		sorted := slices.Clone(names)
		slices.Sort(sorted)
		s.userProfiles[userID] = slices.Compact(sorted)
	}

	for _, name := range s.referencedProfiles() {
		p, err := l.LoadProfile(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("load profile %s: %w", name, err)
		}
		if p != nil {
			s.profiles[name] = p
		}
	}

	for id, r := range s.resources {
		if r.ReaderID != nil && *r.ReaderID != "" {
			s.readerResource[*r.ReaderID] = id
		}
	}

	return s, nil
}

func orEmpty[V any](m map[string]V) map[string]V {
	if m == nil {
		return map[string]V{}
	}
	return m
}

func (s *Snapshot) referencedProfiles() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, names := range s.userProfiles {
		for _, n := range names {
			if _, ok := seen[n]; !ok {
				seen[n] = struct{}{}
				out = append(out, n)
			}
		}
	}
	slices.Sort(out)
	return out
}

func (s *Snapshot) Version() uint64    { return s.version }
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

func (s *Snapshot) UserByBadge(code string) (policy.User, bool) {
	u, ok := s.usersByBadge[code]
	return u, ok
}

// ProfileNames returns the user's profile names in evaluation order.
func (s *Snapshot) ProfileNames(userID string) []string {
	return slices.Clone(s.userProfiles[userID])
}

func (s *Snapshot) Resource(id string) (policy.Resource, bool) {
	r, ok := s.resources[id]
	return r, ok
}

func (s *Snapshot) GroupOf(resourceID string) (string, bool) {
	g, ok := s.resourceGroups[resourceID]
	return g, ok
}

func (s *Snapshot) Profile(name string) (*policy.Profile, bool) {
	p, ok := s.profiles[name]
	return p, ok
}

// ResourceForReader returns the id of the resource wired to readerID.
func (s *Snapshot) ResourceForReader(readerID string) (string, bool) {
	id, ok := s.readerResource[readerID]
	return id, ok
}

func (s *Snapshot) Stats() Stats {
	st := Stats{
		Version:         s.version,
		BuiltAt:         s.builtAt,
		Badges:          len(s.usersByBadge),
		Users:           len(s.userProfiles),
		Resources:       len(s.resources),
		GroupedResource: len(s.resourceGroups),
		Profiles:        len(s.profiles),
	}
	for _, name := range s.referencedProfiles() {
		if _, ok := s.profiles[name]; !ok {
			st.MissingProfiles = append(st.MissingProfiles, name)
		}
	}
	return st
}

var emptySnapshot = &Snapshot{}
