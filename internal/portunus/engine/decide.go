package engine

import (
	"fmt"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/types"
)

const (
	msgGranted                 = "access granted"
	msgUncontrolled            = "resource uncontrolled"
	msgUserNotFound            = "user not found"
	msgResourceNotFound        = "resource not found"
	msgNoProfiles              = "user has no profiles configured"
	msgResourceUngrouped       = "resource not assigned to a group"
	msgInsufficientPermissions = "access denied: insufficient permissions"
)

// Decide evaluates req against s. It reads nothing but s and req and has
// no side effects.
//
// Profiles are tried in ascending name order until one grants. When none
// does, the reason recorded for the last profile tried is returned; earlier
// reasons are overwritten.
func Decide(s *Snapshot, req types.AccessRequest) types.AccessResponse {
	if s == nil {
		s = emptySnapshot
	}

	deny := func(code, msg string) types.AccessResponse {
		return types.AccessResponse{ReaderID: req.ReaderID, Code: code, Message: msg}
	}

	user, ok := s.UserByBadge(req.BadgeCode)
	if !ok {
		return deny(types.CodeUserNotFound, msgUserNotFound)
	}

	resource, ok := s.Resource(req.ResourceID)
	if !ok {
		return deny(types.CodeResourceNotFound, msgResourceNotFound)
	}

	if !resource.Controlled() {
		return types.AccessResponse{
			ReaderID: req.ReaderID,
			Granted:  true,
			Code:     types.CodeResourceUncontrolled,
			Message:  msgUncontrolled,
		}
	}

	names := s.userProfiles[user.ID]
	if len(names) == 0 {
		return deny(types.CodeNoProfiles, msgNoProfiles)
	}

	group, ok := s.GroupOf(req.ResourceID)
	if !ok {
		return deny(types.CodeResourceUngrouped, msgResourceUngrouped)
	}

	var code, reason string
	for _, name := range names {
		profile, ok := s.Profile(name)
		if !ok {
			code, reason = types.CodeProfileMissing, fmt.Sprintf("profile %s does not exist", name)
			continue
		}

		rule, ok := profile.Rule(group)
		if !ok {
			code, reason = types.CodeGroupNotCovered, fmt.Sprintf("profile %s has no rule for group %s", name, group)
			continue
		}

		if rule.Matches(req.Timestamp) {
			return types.AccessResponse{
				ReaderID: req.ReaderID,
				Granted:  true,
				Code:     types.CodeGranted,
				Message:  msgGranted,
				Profile:  name,
			}
		}
		code, reason = types.CodeTimeFilterRejected, fmt.Sprintf("profile %s: %s", name, rule.Explain(req.Timestamp))
	}

	if reason == "" {
		return deny(types.CodeInsufficientPermissions, msgInsufficientPermissions)
	}
	return deny(code, reason)
}
