// Command seed-admin bootstraps the first superadmin account so the API can
// be logged into on a fresh database.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/gatsolucoes/gat_backend/config"
	"github.com/gatsolucoes/gat_backend/models"
)

func main() {
	var (
		name     = flag.String("name", "Administrador", "display name")
		email    = flag.String("email", "", "login email (required)")
		password = flag.String("password", "", "password (required, min 8 chars)")
	)
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if err := models.MigrateAll(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	ctx := context.Background()

	if existing, err := models.GetUserByEmail(ctx, *email); err == nil {
		log.Printf("user %s already exists (id=%d); nothing to do", existing.Email, existing.ID)
		return
	}

	user, err := models.CreateUser(ctx, &models.NewUser{
		Name:     *name,
		Email:    *email,
		Password: *password,
		Role:     models.UserRoleSuperadmin,
	})
	if err != nil {
		log.Fatalf("create superadmin: %v", err)
	}

	log.Printf("superadmin created: id=%d email=%s", user.ID, user.Email)
}
