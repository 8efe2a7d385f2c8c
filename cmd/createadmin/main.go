// Command createadmin creates an admin account directly against the database.
// It is the trusted, non-public counterpart of POST /auth/signup: public
// registration can never set a role, admin accounts only come from here.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/harishn/shopapi/internal/config"
	"github.com/harishn/shopapi/internal/repo"
	authsvc "github.com/harishn/shopapi/internal/service/auth"
	"github.com/harishn/shopapi/internal/tokens"
)

func main() {
	username := flag.String("username", "", "admin username (3-15 characters)")
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password (min 6 characters)")
	flag.Parse()

	if *username == "" || *email == "" || *password == "" {
		log.Fatal("usage: createadmin -username NAME -email EMAIL -password PASSWORD")
	}

	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	codec := tokens.NewCodec(
		[]byte(configuration.JWT_SECRET),
		time.Duration(configuration.ACCESS_TTL_MIN)*time.Minute,
		time.Duration(configuration.REFRESH_TTL_DAYS)*24*time.Hour,
	)
	svc := &authsvc.Service{Repo: &repo.UserRepo{DB: db}, Codec: codec}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := svc.CreateAdmin(ctx, *username, *email, *password); err != nil {
		log.Fatalf("create admin failed: %v", err)
	}
	log.Printf("admin account %s created", *email)
}
