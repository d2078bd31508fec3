// createadmin seeds or resets an admin account from the command line. With
// no flags it creates the default administrator used by fresh installs.
package main

import (
	"errors"
	"flag"
	"log"

	"github.com/joho/godotenv"
	"github.com/ramnagarhs/mdm-service/internal/config"
	"github.com/ramnagarhs/mdm-service/internal/database"
	"github.com/ramnagarhs/mdm-service/internal/models"
	"github.com/ramnagarhs/mdm-service/internal/services"
)

func main() {
	name := flag.String("name", "Administrator", "display name")
	email := flag.String("email", "admin@ramnagarhs.edu", "login email")
	password := flag.String("password", "admin123", "initial password")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	user, err := services.Register(db, services.RegisterInput{
		Name:     *name,
		Email:    *email,
		Password: *password,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmailExists) {
			log.Fatalf("An account for %s already exists", *email)
		}
		log.Fatalf("Failed to create admin: %v", err)
	}

	log.Printf("Created admin %s (#%d); change the password after first login", user.Email, user.ID)
}
