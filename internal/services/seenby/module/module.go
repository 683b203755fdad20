// Package module wires seenby into the API using modkit
package module

import (
	"net/http"

	modkit "seenby/internal/modkit"
	"seenby/internal/modkit/httpkit"
	str "seenby/internal/platform/strings"
	"seenby/internal/services/seenby/domain"
	seenbyhttp "seenby/internal/services/seenby/http"
	seenbysvc "seenby/internal/services/seenby/service"
)

// Ports exposes the seenby surface to sibling modules
type Ports struct {
	SeenBy domain.ServicePort
}

// Module implements the seenby module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc seenbysvc.Service
}

// New constructs the seenby module. The tracking strategy comes from
// SEENBY_STRATEGY; a missing or unknown name is a configuration error and
// surfaces here, before any route is mounted
func New(deps modkit.Deps, opts ...modkit.Option) (modkit.Module, error) {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("seenby"), modkit.WithPrefix("/posts")}, opts...)...)

	svc, err := seenbysvc.New(deps.PG, deps.Cfg.MayString("STRATEGY", ""))
	if err != nil {
		return nil, err
	}

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{SeenBy: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		seenbyhttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m, nil
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Ports returns the module port set
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
