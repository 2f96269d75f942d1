// Package yamlfile serves policy from a YAML document on disk and watches
// the file for edits.
package yamlfile

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/policy"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/timefilter"
)

// Document is the on-disk policy format.
//
//	users:
//	  - id: U1
//	    first_name: Ada
//	    last_name: Lovelace
//	    type: employee
//	    profiles: [Employee]
//	badges:
//	  - code: ABC123
//	    user: U1
//	resources:
//	  - id: R1
//	    name: Office door
//	    reader: door-001
//	groups:
//	  - name: Office
//	    members: [R1]
//	profiles:
//	  - name: Employee
//	    rules:
//	      Office:
//	        days_of_week: {values: [MONDAY, TUESDAY, WEDNESDAY, THURSDAY, FRIDAY]}
//	        time_ranges: {values: ["08:00-18:00"]}
type Document struct {
	Users     []User     `yaml:"users"`
	Badges    []Badge    `yaml:"badges"`
	Resources []Resource `yaml:"resources"`
	Groups    []Group    `yaml:"groups"`
	Profiles  []Profile  `yaml:"profiles"`
}

type User struct {
	ID        string   `yaml:"id"`
	FirstName string   `yaml:"first_name,omitempty"`
	LastName  string   `yaml:"last_name,omitempty"`
	Gender    string   `yaml:"gender,omitempty"`
	Type      string   `yaml:"type,omitempty"`
	Profiles  []string `yaml:"profiles,omitempty"`
}

// Badge without issued or expires never expires. With only issued it
// expires policy.BadgeLifetime later.
type Badge struct {
	Code    string    `yaml:"code"`
	User    string    `yaml:"user"`
	Issued  time.Time `yaml:"issued,omitempty"`
	Expires time.Time `yaml:"expires,omitempty"`
	Revoked bool      `yaml:"revoked,omitempty"`
}

type Resource struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name,omitempty"`
	Type     string `yaml:"type,omitempty"`
	Location string `yaml:"location,omitempty"`
	Building string `yaml:"building,omitempty"`
	Floor    string `yaml:"floor,omitempty"`
	State    string `yaml:"state,omitempty"`
	Reader   string `yaml:"reader,omitempty"`
}

type Group struct {
	Name          string   `yaml:"name"`
	SecurityLevel int      `yaml:"security_level,omitempty"`
	Members       []string `yaml:"members"`
}

type Profile struct {
	Name  string                     `yaml:"name"`
	Rules map[string]timefilter.Spec `yaml:"rules"`
}

// compiled is a validated Document in the shape the engine loads.
type compiled struct {
	usersByBadge map[string]policy.User
	userProfiles map[string][]string
	resources    map[string]policy.Resource
	groupOf      map[string]string
	profiles     map[string]*policy.Profile
}

// compile validates doc and indexes it. Every problem found is reported.
// Badges that are revoked or expired at now are dropped, not rejected.
func compile(doc Document, now time.Time) (*compiled, error) {
	c := &compiled{
		usersByBadge: make(map[string]policy.User),
		userProfiles: make(map[string][]string),
		resources:    make(map[string]policy.Resource),
		groupOf:      make(map[string]string),
		profiles:     make(map[string]*policy.Profile),
	}
	var errs []error
	fail := func(format string, args ...any) { errs = append(errs, fmt.Errorf(format, args...)) }

	users := make(map[string]policy.User, len(doc.Users))
	for _, u := range doc.Users {
		if u.ID == "" {
			fail("user with empty id")
			continue
		}
		if _, dup := users[u.ID]; dup {
			fail("user %s: duplicate id", u.ID)
			continue
		}
		pu := policy.User{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName}
		var err error
		if pu.Gender, err = policy.ParseGender(u.Gender); err != nil {
			fail("user %s: %w", u.ID, err)
		}
		if u.Type != "" {
			if pu.Type, err = policy.ParseUserType(u.Type); err != nil {
				fail("user %s: %w", u.ID, err)
			}
		}
		users[u.ID] = pu
		if len(u.Profiles) > 0 {
			c.userProfiles[u.ID] = append([]string(nil), u.Profiles...)
		}
	}

	seenBadges := make(map[string]bool, len(doc.Badges))
	for _, b := range doc.Badges {
		switch {
		case b.Code == "":
			fail("badge with empty code")
			continue
		case seenBadges[b.Code]:
			fail("badge %s: duplicate code", b.Code)
			continue
		}
		seenBadges[b.Code] = true
		u, ok := users[b.User]
		if !ok {
			fail("badge %s: unknown user %q", b.Code, b.User)
			continue
		}
		if b.Revoked || expired(b, now) {
			continue
		}
		code := b.Code
		u.BadgeID = &code
		c.usersByBadge[code] = u
	}

	for _, r := range doc.Resources {
		if r.ID == "" {
			fail("resource with empty id")
			continue
		}
		if _, dup := c.resources[r.ID]; dup {
			fail("resource %s: duplicate id", r.ID)
			continue
		}
		pr := policy.Resource{ID: r.ID, Name: r.Name, Location: r.Location, Building: r.Building, Floor: r.Floor}
		var err error
		if r.Type != "" {
			if pr.Type, err = policy.ParseResourceType(r.Type); err != nil {
				fail("resource %s: %w", r.ID, err)
			}
		}
		if r.State != "" {
			if pr.State, err = policy.ParseResourceState(r.State); err != nil {
				fail("resource %s: %w", r.ID, err)
			}
		}
		if r.Reader != "" {
			reader := r.Reader
			pr.ReaderID = &reader
		}
		c.resources[r.ID] = pr
	}

	// A resource listed in several groups belongs to the first by name.
	groups := slices.Clone(doc.Groups)
	slices.SortStableFunc(groups, func(a, b Group) int { return strings.Compare(a.Name, b.Name) })
	for _, g := range groups {
		if g.Name == "" {
			fail("group with empty name")
			continue
		}
		for _, id := range g.Members {
			if _, ok := c.resources[id]; !ok {
				fail("group %s: unknown resource %q", g.Name, id)
				continue
			}
			if _, taken := c.groupOf[id]; !taken {
				c.groupOf[id] = g.Name
			}
		}
	}

	for _, p := range doc.Profiles {
		if p.Name == "" {
			fail("profile with empty name")
			continue
		}
		if _, dup := c.profiles[p.Name]; dup {
			fail("profile %s: duplicate name", p.Name)
			continue
		}
		pp := policy.NewProfile(p.Name)
		for group, spec := range p.Rules {
			f, err := spec.Compile()
			if err != nil {
				fail("profile %s group %s: %w", p.Name, group, err)
				continue
			}
			pp.SetRule(group, f)
		}
		c.profiles[p.Name] = pp
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return c, nil
}

func expired(b Badge, now time.Time) bool {
	expires := b.Expires
	if expires.IsZero() && !b.Issued.IsZero() {
		expires = b.Issued.Add(policy.BadgeLifetime)
	}
	return !expires.IsZero() && now.After(expires)
}
