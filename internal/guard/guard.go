// Package guard decides, per navigation, which view may render.
//
// Denial is never an error: a navigation that is not allowed lands on a
// sign-in view or on home. The guard keeps no state of its own and reads
// the session at decision time, so every navigation is evaluated fresh.
// It is a convenience for the user; the server still authorizes every
// protected request.
package guard

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Requirement is the access level a view declares.
type Requirement int

const (
	Public Requirement = iota
	RequiresAuth
	RequiresAdmin
)

func (r Requirement) String() string {
	switch r {
	case Public:
		return "public"
	case RequiresAuth:
		return "auth"
	case RequiresAdmin:
		return "admin"
	}
	return "unknown"
}

// Outcome is the result of evaluating one requirement. RedirectTo is empty
// when the requested view renders.
type Outcome struct {
	RedirectTo string
}

// Render reports whether the requested view may render.
func (o Outcome) Render() bool {
	return o.RedirectTo == ""
}

// Evaluate applies the access rules for one navigation.
func Evaluate(req Requirement, authenticated, admin bool) Outcome {
	switch req {
	case RequiresAuth:
		if !authenticated {
			return Outcome{RedirectTo: PathSignIn}
		}
	case RequiresAdmin:
		if !authenticated {
			return Outcome{RedirectTo: PathAdminLogin}
		}
		if !admin {
			return Outcome{RedirectTo: PathHome}
		}
	}
	return Outcome{}
}

// SessionState answers the two questions the guard asks.
type SessionState interface {
	IsAuthenticated(ctx context.Context) bool
	IsAdmin(ctx context.Context) bool
}

// Decision is where a navigation lands.
type Decision struct {
	// Requested is the path that was asked for.
	Requested string
	// Route is the view to render; after a redirect it is the redirect target.
	Route Route
	// Params holds path parameters of Route (e.g. "id" for /blog/:id).
	Params     map[string]string
	Redirected bool
}

// Param returns a path parameter or "".
func (d Decision) Param(name string) string {
	return d.Params[name]
}

type Guard struct {
	routes  *Table
	session SessionState
}

func New(routes *Table, session SessionState) *Guard {
	return &Guard{routes: routes, session: session}
}

// Navigate resolves path and decides whether it renders. Unknown paths
// resolve to home.
func (g *Guard) Navigate(ctx context.Context, path string) Decision {
	route, params := g.routes.Match(path)

	authenticated := false
	admin := false
	if route.Requirement != Public {
		authenticated = g.session.IsAuthenticated(ctx)
		if authenticated && route.Requirement == RequiresAdmin {
			admin = g.session.IsAdmin(ctx)
		}
	}

	out := Evaluate(route.Requirement, authenticated, admin)
	if out.Render() {
		return Decision{Requested: path, Route: route, Params: params}
	}

	target, targetParams := g.routes.Match(out.RedirectTo)
	log.Debugf("guard: %s (%s) -> %s", path, route.Requirement, target.Path)
	return Decision{
		Requested:  path,
		Route:      target,
		Params:     targetParams,
		Redirected: true,
	}
}
