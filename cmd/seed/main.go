package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-management/config"
	"github.com/oksasatya/go-user-management/internal/container"
	"github.com/oksasatya/go-user-management/internal/domain/entity"
	"github.com/oksasatya/go-user-management/pkg/helpers"
)

var demoUsers = []entity.User{
	{Name: "Ann Lee", Email: "ann@example.com", Phone: "+15550100"},
	{Name: "Bob Stone", Email: "bob@example.com", Phone: "+15550101"},
	{Name: "Cy Park", Email: "cy@example.com", Phone: "+15550102"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	if cfg.DBDriver == "memory" {
		log.Fatal("DB_DRIVER=memory does not persist; seed postgres or sqlite instead")
	}
	// Seeding never needs notifications.
	cfg.MailNotifyEnabled = false

	ctx := context.Background()
	app, err := container.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to initialize: %v", err)
	}
	defer app.Close()

	existing, err := app.Users.List(ctx)
	if err != nil {
		log.Fatalf("failed to list users: %v", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, u := range existing {
		seen[u.Email] = true
	}

	for _, u := range demoUsers {
		if seen[u.Email] {
			helpers.LogInfo(logger, "skipped existing user", logrus.Fields{"email": u.Email})
			continue
		}
		u := u
		if err := app.Users.Create(ctx, &u); err != nil {
			log.Fatalf("failed to seed %s: %v", u.Email, err)
		}
		helpers.LogInfo(logger, "seeded user", logrus.Fields{"id": u.ID, "email": u.Email, "name": u.Name})
	}
}
