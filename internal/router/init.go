package router

import (
	"github.com/oksasatya/go-user-registration/internal/container"
	handlers "github.com/oksasatya/go-user-registration/internal/interface/http"
	"github.com/oksasatya/go-user-registration/internal/router/modules"
)

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	handler := handlers.NewUserHandler(container.NewUserService(), container.GetLogger())
	r.Add(modules.NewUserModule(handler))

	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
