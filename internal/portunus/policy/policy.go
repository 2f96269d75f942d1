// Package policy holds the entities the decision engine reasons about:
// users and their badges, resources and the groups they belong to, and the
// named profiles that attach temporal rules to groups.
package policy

import (
	"slices"
	"time"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/timefilter"
)

// BadgeLifetime is the validity window given to a newly issued badge.
const BadgeLifetime = 365 * 24 * time.Hour

type User struct {
	ID        string
	Gender    Gender
	FirstName string
	LastName  string
	Type      UserType
	BadgeID   *string // code of the user's active badge, if any
}

func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

type Badge struct {
	Code      string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
	UpdatedAt time.Time
	Valid     bool
}

// NewBadge issues a valid badge that expires BadgeLifetime after now.
func NewBadge(code, userID string, now time.Time) Badge {
	now = now.UTC()
	return Badge{
		Code:      code,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(BadgeLifetime),
		UpdatedAt: now,
		Valid:     true,
	}
}

// IsValidAt reports whether the badge is flagged valid and not expired at now.
func (b Badge) IsValidAt(now time.Time) bool {
	return b.Valid && !now.After(b.ExpiresAt)
}

// UpdateCode rotates the presented credential. Validity is not touched.
func (b *Badge) UpdateCode(code string, now time.Time) {
	b.Code = code
	b.UpdatedAt = now.UTC()
}

// Revoke clears the valid flag.
func (b *Badge) Revoke(now time.Time) {
	b.Valid = false
	b.UpdatedAt = now.UTC()
}

type Resource struct {
	ID       string
	Name     string
	Type     ResourceType
	Location string
	Building string
	Floor    string
	State    ResourceState
	ReaderID *string
}

// Controlled reports whether swipes at the resource go through policy
// evaluation at all.
func (r Resource) Controlled() bool {
	return r.State != Uncontrolled
}

type ResourceGroup struct {
	Name          string
	SecurityLevel int
	Members       []string
}

// Add appends resourceID unless it is already a member.
func (g *ResourceGroup) Add(resourceID string) {
	if !slices.Contains(g.Members, resourceID) {
		g.Members = append(g.Members, resourceID)
	}
}

// Remove drops resourceID, keeping the order of the remaining members.
func (g *ResourceGroup) Remove(resourceID string) {
	g.Members = slices.DeleteFunc(g.Members, func(id string) bool { return id == resourceID })
}

// Profile maps resource-group names to the temporal rule that governs them.
type Profile struct {
	Name  string
	Rules map[string]timefilter.TimeFilter
}

func NewProfile(name string) *Profile {
	return &Profile{Name: name, Rules: make(map[string]timefilter.TimeFilter)}
}

// Covers reports whether the profile has a rule for group.
func (p *Profile) Covers(group string) bool {
	_, ok := p.Rules[group]
	return ok
}

func (p *Profile) Rule(group string) (timefilter.TimeFilter, bool) {
	f, ok := p.Rules[group]
	return f, ok
}

// SetRule attaches f to group, replacing any previous rule.
func (p *Profile) SetRule(group string, f timefilter.TimeFilter) {
	if p.Rules == nil {
		p.Rules = make(map[string]timefilter.TimeFilter)
	}
	p.Rules[group] = f
}
