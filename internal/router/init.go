package router

import (
	userapp "github.com/oksasatya/go-user-management/internal/application"
	"github.com/oksasatya/go-user-management/internal/container"
	handlers "github.com/oksasatya/go-user-management/internal/interface/http"
	"github.com/oksasatya/go-user-management/internal/router/modules"
	mailtpl "github.com/oksasatya/go-user-management/pkg/mailer/templates"
)

type UserModuleDeps struct {
	Service *userapp.Service
	Handler *handlers.UserHandler
}

func buildUserDeps(c *container.Container) UserModuleDeps {
	var pub userapp.Publisher
	if c.Publisher != nil {
		pub = c.Publisher
	}

	service := userapp.NewService(
		c.Users,
		c.Images,
		c.Logger,
		pub,
		mailtpl.Brand{AppName: c.Config.AppName, CompanyName: c.Config.CompanyName},
	)

	handler := handlers.NewUserHandler(service, c.Sessions, c.Images, c.Logger)

	return UserModuleDeps{
		Service: service,
		Handler: handler,
	}
}

// InitModules wires the application modules into the registry. Call it once
// during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	userDeps := buildUserDeps(c)
	r.Add(modules.NewUserModule(userDeps.Handler, c.Redis, c.Config.RateLimitPerMinute))
	r.NoRoute(userDeps.Handler.ServeImage)

	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(c.Redis))
	}
}
