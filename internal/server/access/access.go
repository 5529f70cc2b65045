// Package access implements the permission graph and the authorization
// decisions derived from it. Every function is pure: decisions are computed
// from the requester's verified claims, the target, and the current
// permission set, never from storage or request bodies.
package access

import (
	"salesreport/internal/common"
	"salesreport/internal/server/models"
)

// CanView reports whether viewerID may read vieweeID's reports. Self-view
// always holds; otherwise a (viewer, viewee) edge must exist.
func CanView(viewerID, vieweeID string, perms []models.Permission) bool {
	if viewerID == vieweeID {
		return true
	}
	for _, p := range perms {
		if p.ViewerID == viewerID && p.VieweeID == vieweeID {
			return true
		}
	}
	return false
}

// ViewableUserIDs computes the set of users whose reports the viewer may
// enumerate. Admins see every account with role User (admins manage, not
// view, each other); everyone else sees themselves plus their granted
// viewees. The result preserves first-seen order and contains no duplicates.
func ViewableUserIDs(viewer *models.User, allUsers []models.User, perms []models.Permission) []string {
	if viewer.Role.IsAdmin() {
		ids := make([]string, 0, len(allUsers))
		for _, u := range allUsers {
			if u.Role == models.RoleUser {
				ids = append(ids, u.ID)
			}
		}
		return ids
	}

	seen := map[string]struct{}{viewer.ID: {}}
	ids := []string{viewer.ID}
	for _, p := range perms {
		if p.ViewerID != viewer.ID {
			continue
		}
		if _, ok := seen[p.VieweeID]; ok {
			continue
		}
		seen[p.VieweeID] = struct{}{}
		ids = append(ids, p.VieweeID)
	}
	return ids
}

// CanReadReports decides a report-listing request: admins may read anyone,
// everyone else needs CanView over the current permission set.
func CanReadReports(requesterID string, role models.Role, targetUserID string, perms []models.Permission) bool {
	return role.IsAdmin() || CanView(requesterID, targetUserID, perms)
}

// CanModifyReport decides an update or delete against a stored record:
// admins may modify anything, everyone else only their own records.
func CanModifyReport(requesterID string, role models.Role, ownerID string) bool {
	return role.IsAdmin() || requesterID == ownerID
}

// RequireAdmin returns common.ErrorForbidden unless role is Admin.
func RequireAdmin(role models.Role) error {
	if !role.IsAdmin() {
		return common.ErrorForbidden
	}
	return nil
}
