package guard

import "strings"

// Paths of the storefront views.
const (
	PathHome           = "/"
	PathSignIn         = "/auth"
	PathBlog           = "/blog"
	PathBlogPost       = "/blog/:id"
	PathInventory      = "/inventory"
	PathCheckout       = "/checkout"
	PathAdminLogin     = "/admin/login"
	PathAdminDashboard = "/admin/dashboard"
	PathAdminInventory = "/admin/inventory"
	PathAdminFiles     = "/admin/files"
	PathAdminLogs      = "/admin/logs"
)

// Route is one view and its access requirement. Path may contain
// ":name" segments.
type Route struct {
	Path        string
	Requirement Requirement
}

// Table is an ordered route list; the first match wins.
type Table struct {
	routes   []Route
	fallback Route
}

// NewTable builds a table that resolves unmatched paths to fallback.
func NewTable(fallback Route, routes ...Route) *Table {
	return &Table{routes: routes, fallback: fallback}
}

// DefaultTable is the storefront route table.
func DefaultTable() *Table {
	home := Route{Path: PathHome, Requirement: Public}
	return NewTable(home,
		home,
		Route{Path: PathSignIn, Requirement: Public},
		Route{Path: PathBlog, Requirement: Public},
		Route{Path: PathBlogPost, Requirement: Public},
		Route{Path: PathInventory, Requirement: Public},
		Route{Path: PathCheckout, Requirement: RequiresAuth},
		Route{Path: PathAdminLogin, Requirement: Public},
		Route{Path: PathAdminDashboard, Requirement: RequiresAdmin},
		Route{Path: PathAdminInventory, Requirement: RequiresAdmin},
		Route{Path: PathAdminFiles, Requirement: RequiresAdmin},
		Route{Path: PathAdminLogs, Requirement: RequiresAdmin},
	)
}

// Routes returns the routes in match order.
func (t *Table) Routes() []Route {
	return append([]Route(nil), t.routes...)
}

// Match finds the route for path. Query strings and trailing slashes are
// ignored.
func (t *Table) Match(path string) (Route, map[string]string) {
	segs := splitPath(path)
	for _, r := range t.routes {
		if params, ok := matchSegments(splitPath(r.Path), segs); ok {
			return r, params
		}
	}
	return t.fallback, nil
}

// Build fills ":name" segments of pattern from params.
func Build(pattern string, params map[string]string) string {
	segs := splitPath(pattern)
	for i, s := range segs {
		if strings.HasPrefix(s, ":") {
			segs[i] = params[s[1:]]
		}
	}
	return "/" + strings.Join(segs, "/")
}

func splitPath(p string) []string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func matchSegments(pattern, segs []string) (map[string]string, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	var params map[string]string
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			if segs[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[p[1:]] = segs[i]
			continue
		}
		if p != segs[i] {
			return nil, false
		}
	}
	return params, true
}
