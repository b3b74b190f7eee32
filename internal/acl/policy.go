// internal/acl/policy.go
//
// Static role policy for the admin API.
//
// Context
// -------
// Roles live on the admin row (`admin.role`), so the policy is a fixed
// table compiled into the binary rather than a set of DB tables:
//
//	admin   every area, every action
//	editor  content areas (catalog, blog, pages, jobs, gallery, documents,
//	        uploads, dashboard); read-only on applications and contacts
//
// Questions answered:
//  1. May role R perform action A on area X?   → `RoleAllowed()`
//  2. Which areas can role R touch at all?      → `Areas()`
//
// Notes
// -----
// • Unknown roles are denied everything.
// • Area names are the admin route groups; see components/admin.
package acl

import (
	"sort"

	"github.com/yanizio/agrocms/internal/auth"
)

// Actions.
const (
	ActionRead  = "read"
	ActionWrite = "write"
)

// Areas.
const (
	AreaCatalog      = "catalog"
	AreaBlog         = "blog"
	AreaPages        = "pages"
	AreaJobs         = "jobs"
	AreaApplications = "applications"
	AreaContacts     = "contacts"
	AreaGallery      = "gallery"
	AreaCompany      = "company"
	AreaDocuments    = "documents"
	AreaUploads      = "uploads"
	AreaDashboard    = "dashboard"
)

// grant is the allowed action set for one area.
type grant map[string]bool

var (
	rw = grant{ActionRead: true, ActionWrite: true}
	ro = grant{ActionRead: true}
)

// policy maps role → area → actions.  "*" matches every area.
var policy = map[string]map[string]grant{
	auth.RoleAdmin: {"*": rw},
	auth.RoleEditor: {
		AreaCatalog:      rw,
		AreaBlog:         rw,
		AreaPages:        rw,
		AreaJobs:         rw,
		AreaGallery:      rw,
		AreaDocuments:    rw,
		AreaUploads:      rw,
		AreaDashboard:    ro,
		AreaApplications: ro,
		AreaContacts:     ro,
	},
}

// RoleAllowed reports whether role may perform action on area.
func RoleAllowed(role, area, action string) bool {
	areas, ok := policy[role]
	if !ok {
		return false
	}
	if g, ok := areas[area]; ok {
		return g[action]
	}
	return areas["*"][action]
}

// Areas returns the sorted area names role can at least read.  A wildcard
// role returns every known area.
func Areas(role string) []string {
	if _, ok := policy[role]; !ok {
		return nil
	}
	all := []string{
		AreaCatalog, AreaBlog, AreaPages, AreaJobs, AreaApplications, AreaContacts,
		AreaGallery, AreaCompany, AreaDocuments, AreaUploads, AreaDashboard,
	}
	out := make([]string, 0, len(all))
	for _, a := range all {
		if RoleAllowed(role, a, ActionRead) {
			out = append(out, a)
		}
	}
	sort.Strings(out)
	return out
}
