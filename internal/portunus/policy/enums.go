package policy

import (
	"fmt"
	"strings"
)

type UserType int

const (
	Employee UserType = iota
	Contractor
	Intern
	Visitor
	ProjectManager
)

var userTypeNames = []string{"Employee", "Contractor", "Intern", "Visitor", "ProjectManager"}

func (t UserType) String() string { return nameOf(userTypeNames, int(t)) }

func ParseUserType(s string) (UserType, error) {
	i, err := parseName(userTypeNames, s, "user type")
	return UserType(i), err
}

type Gender int

const (
	GenderUnspecified Gender = iota
	Male
	Female
	Other
)

var genderNames = []string{"Unspecified", "Male", "Female", "Other"}

func (g Gender) String() string { return nameOf(genderNames, int(g)) }

func ParseGender(s string) (Gender, error) {
	if strings.TrimSpace(s) == "" {
		return GenderUnspecified, nil
	}
	i, err := parseName(genderNames, s, "gender")
	return Gender(i), err
}

type ResourceType int

const (
	Door ResourceType = iota
	Gate
	Elevator
	Stairway
	Printer
	BeverageDispenser
	Parking
)

var resourceTypeNames = []string{"Door", "Gate", "Elevator", "Stairway", "Printer", "BeverageDispenser", "Parking"}

func (t ResourceType) String() string { return nameOf(resourceTypeNames, int(t)) }

func ParseResourceType(s string) (ResourceType, error) {
	i, err := parseName(resourceTypeNames, s, "resource type")
	return ResourceType(i), err
}

type ResourceState int

const (
	Controlled ResourceState = iota
	Uncontrolled
)

var resourceStateNames = []string{"Controlled", "Uncontrolled"}

func (s ResourceState) String() string { return nameOf(resourceStateNames, int(s)) }

func ParseResourceState(s string) (ResourceState, error) {
	i, err := parseName(resourceStateNames, s, "resource state")
	return ResourceState(i), err
}

func nameOf(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("Unknown(%d)", i)
	}
	return names[i]
}

// parseName matches case-insensitively and ignores underscores, so both
// "ProjectManager" and "PROJECT_MANAGER" are accepted.
func parseName(names []string, s, what string) (int, error) {
	norm := strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	for i, n := range names {
		if strings.EqualFold(n, norm) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", what, s)
}
