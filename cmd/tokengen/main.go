// Command tokengen prints an operator token for the directory reload endpoint.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/spec-kit/staff-directory/internal/auth"
	"github.com/spec-kit/staff-directory/internal/config"
)

func main() {
	subject := flag.String("subject", "operator", "token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Auth.OperatorJWTSecret == "" {
		log.Fatal("AUTH_OPERATOR_JWT_SECRET not set")
	}

	token, expiresAt, err := auth.NewTokenManager(cfg.Auth.OperatorJWTSecret, *ttl).GenerateToken(*subject, auth.OperatorRole)
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}
	fmt.Println(token)
	log.Printf("expires at %s", expiresAt.Format(time.RFC3339))
}
