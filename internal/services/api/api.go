// Package api provides the HTTP API for the application
package api

import (
	"seenby/internal/platform/config"
	"seenby/internal/platform/logger"
	phttp "seenby/internal/platform/net/http"
	"seenby/internal/platform/store"

	"seenby/internal/modkit"
	"seenby/internal/modkit/httpkit"
	"seenby/internal/modkit/module"
	"seenby/internal/modkit/swaggerkit"

	seenbymod "seenby/internal/services/seenby/module"
)

// Options are the API options
type Options struct {
	Config        config.Conf
	Store         *store.Store
	Logger        *logger.Logger
	EnableSwagger bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) error {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	seenby, err := seenbymod.New(deps)
	if err != nil {
		return err
	}

	mods := []module.Module{
		seenby,
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		swaggerkit.Mount(r, opt.EnableSwagger)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})

	return nil
}
