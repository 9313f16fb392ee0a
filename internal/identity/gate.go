package identity

import (
	"sort"
	"strings"

	pkgerrors "github.com/coronelbarros/storefront/pkg/errors"
)

// Requirement is what a protected route asks of the caller.
type Requirement int

const (
	// RequireSignedIn admits any authenticated profile.
	RequireSignedIn Requirement = iota + 1
	// RequireAdmin admits admins only.
	RequireAdmin
)

// Decision is the outcome of a gate check.
type Decision int

const (
	Allow Decision = iota
	// RequireLogin means nobody is signed in; the client should send the user
	// to the login page.
	RequireLogin
	// Deny means the caller is signed in but lacks the role; the client
	// should send the user home.
	Deny
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RequireLogin:
		return "require_login"
	case Deny:
		return "deny"
	default:
		return "unknown"
	}
}

// Err maps the decision to the error the HTTP layer writes. Allow is nil.
func (d Decision) Err() error {
	switch d {
	case Allow:
		return nil
	case RequireLogin:
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in required")
	default:
		return pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
}

type rule struct {
	prefix string
	need   Requirement
}

// Gate holds the protected path prefixes. Paths not covered by any prefix
// are public.
type Gate struct {
	rules []rule
}

// Default protected areas.
const (
	AccountPrefix = "/api/v1/account"
	AdminPrefix   = "/api/admin"
)

// NewGate returns a gate with no protected routes.
func NewGate() *Gate {
	return &Gate{}
}

// DefaultGate protects the account area for any signed-in user and the
// admin area for admins.
func DefaultGate() *Gate {
	return NewGate().
		Protect(AccountPrefix, RequireSignedIn).
		Protect(AdminPrefix, RequireAdmin)
}

// Protect declares prefix as requiring need. Redeclaring a prefix replaces
// its requirement.
func (g *Gate) Protect(prefix string, need Requirement) *Gate {
	prefix = normalizePath(prefix)
	for i := range g.rules {
		if g.rules[i].prefix == prefix {
			g.rules[i].need = need
			return g
		}
	}
	g.rules = append(g.rules, rule{prefix: prefix, need: need})
	sort.SliceStable(g.rules, func(i, j int) bool {
		return len(g.rules[i].prefix) > len(g.rules[j].prefix)
	})
	return g
}

// Decide checks id against the longest protected prefix covering path. A
// nil id is anonymous.
func (g *Gate) Decide(id *Identity, path string) Decision {
	need, ok := g.requirement(normalizePath(path))
	if !ok {
		return Allow
	}
	if id == nil || id.Anonymous() {
		return RequireLogin
	}
	if need == RequireAdmin && !id.IsAdmin() {
		return Deny
	}
	return Allow
}

// rules are kept longest first, so the first match wins.
func (g *Gate) requirement(path string) (Requirement, bool) {
	for _, r := range g.rules {
		if covers(r.prefix, path) {
			return r.need, true
		}
	}
	return 0, false
}

// covers matches on whole path segments: /api/admin covers /api/admin/x but
// not /api/administrator.
func covers(prefix, path string) bool {
	if prefix == "/" {
		return true
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}

func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p[0] != '/' {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}
