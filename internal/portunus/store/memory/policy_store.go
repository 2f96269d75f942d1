package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/policy"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/timefilter"
)

// PolicyStore is a mutable in-memory policy database. It satisfies
// engine.Loader; every Load call returns freshly allocated maps so a
// snapshot built from it never aliases the store.
type PolicyStore struct {
	mu           sync.RWMutex
	now          func() time.Time
	users        map[string]policy.User
	badges       map[string]policy.Badge
	userProfiles map[string][]string
	resources    map[string]policy.Resource
	groups       map[string]policy.ResourceGroup
	profiles     map[string]*policy.Profile
}

// NewPolicyStore returns an empty store. now decides which badges count as
// valid when users are loaded; nil means time.Now.
func NewPolicyStore(now func() time.Time) *PolicyStore {
	if now == nil {
		now = time.Now
	}
	return &PolicyStore{
		now:          now,
		users:        make(map[string]policy.User),
		badges:       make(map[string]policy.Badge),
		userProfiles: make(map[string][]string),
		resources:    make(map[string]policy.Resource),
		groups:       make(map[string]policy.ResourceGroup),
		profiles:     make(map[string]*policy.Profile),
	}
}

func (s *PolicyStore) PutUser(u policy.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// PutBadge stores b and records it as its owner's active badge.
func (s *PolicyStore) PutBadge(b policy.Badge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.badges[b.Code] = b
	if u, ok := s.users[b.UserID]; ok {
		code := b.Code
		u.BadgeID = &code
		s.users[u.ID] = u
	}
}

func (s *PolicyStore) DeleteBadge(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.badges, code)
}

// AssignProfiles replaces the profile names assigned to userID.
func (s *PolicyStore) AssignProfiles(userID string, names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(names) == 0 {
		delete(s.userProfiles, userID)
		return
	}
	s.userProfiles[userID] = slices.Clone(names)
}

func (s *PolicyStore) PutResource(r policy.Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ReaderID != nil {
		id := *r.ReaderID
		r.ReaderID = &id
	}
	s.resources[r.ID] = r
}

func (s *PolicyStore) PutGroup(g policy.ResourceGroup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.Members = slices.Clone(g.Members)
	s.groups[g.Name] = g
}

func (s *PolicyStore) PutProfile(p *policy.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.Name] = cloneProfile(p)
}

func (s *PolicyStore) DeleteProfile(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, name)
}

func (s *PolicyStore) LoadUsersByBadgeCode(_ context.Context) (map[string]policy.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	out := make(map[string]policy.User, len(s.badges))
	for code, b := range s.badges {
		if !b.IsValidAt(now) {
			continue
		}
		if u, ok := s.users[b.UserID]; ok {
			out[code] = u
		}
	}
	return out, nil
}

func (s *PolicyStore) LoadUserProfiles(_ context.Context) (map[string][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]string, len(s.userProfiles))
	for id, names := range s.userProfiles {
		out[id] = slices.Clone(names)
	}
	return out, nil
}

func (s *PolicyStore) LoadAllResources(_ context.Context) (map[string]policy.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.resources), nil
}

// LoadResourceGroups maps each resource to one group. A resource listed in
// several groups is assigned to the group whose name sorts first.
func (s *PolicyStore) LoadResourceGroups(_ context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string)
	for _, name := range slices.Sorted(maps.Keys(s.groups)) {
		for _, id := range s.groups[name].Members {
			if _, taken := out[id]; !taken {
				out[id] = name
			}
		}
	}
	return out, nil
}

func (s *PolicyStore) LoadProfile(_ context.Context, name string) (*policy.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[name]
	if !ok {
		return nil, nil
	}
	return cloneProfile(p), nil
}

// cloneProfile copies p down to the constraint values of each rule.
func cloneProfile(p *policy.Profile) *policy.Profile {
	out := &policy.Profile{Name: p.Name, Rules: make(map[string]timefilter.TimeFilter, len(p.Rules))}
	for group, f := range p.Rules {
		out.Rules[group] = f.Clone()
	}
	return out
}
