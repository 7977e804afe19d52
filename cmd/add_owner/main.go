package main

import (
	"context"
	"database/sql"
	"flag"
	"os"

	_ "github.com/lib/pq"
	"github.com/maasaraswatilibrary/Saraswatilibrary/internal/billing"
	"github.com/maasaraswatilibrary/Saraswatilibrary/internal/config"
	"github.com/maasaraswatilibrary/Saraswatilibrary/internal/repository"
	"github.com/maasaraswatilibrary/Saraswatilibrary/internal/service"
	"github.com/sirupsen/logrus"
)

// add_owner creates the owner account used to log in to the API
func main() {
	username := flag.String("username", os.Getenv("OWNER_USERNAME"), "owner login name")
	password := flag.String("password", os.Getenv("OWNER_PASSWORD"), "owner password")
	mail := flag.String("email", os.Getenv("OWNER_EMAIL"), "owner email")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	if *username == "" || *password == "" {
		logger.Fatal("username and password are required")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	repo := repository.NewRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Fatalf("Failed to prepare schema: %v", err)
	}

	svc := service.NewService(repo, logger, cfg, billing.NewEngine(), nil, nil)
	user, err := svc.Register(ctx, *username, *mail, *password)
	if err != nil {
		logger.Fatalf("Failed to create owner: %v", err)
	}
	logger.Infof("Owner %s created with id %d", user.Username, user.ID)
}
