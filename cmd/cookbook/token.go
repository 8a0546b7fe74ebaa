package main

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/devdonalds/cookbook/internal/config"
)

var (
	tokenSecret  string
	tokenSubject string
	tokenTTL     time.Duration
)

func init() {
	tokenCmd.Flags().StringVar(&tokenSecret, "secret", "", "Signing secret (defaults to auth.secret from config)")
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "admin", "Token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for the admission endpoint",
	Long:  "Sign an HS256 token accepted by a server running with auth.enabled",
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := tokenSecret
		if secret == "" {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			secret = cfg.Auth.Secret
		}
		if secret == "" {
			return fmt.Errorf("no signing secret: pass --secret or set auth.secret in cookbook.yml")
		}

		now := time.Now()
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": tokenSubject,
			"iat": now.Unix(),
			"exp": now.Add(tokenTTL).Unix(),
		})

		signed, err := token.SignedString([]byte(secret))
		if err != nil {
			return fmt.Errorf("failed to sign token: %w", err)
		}

		fmt.Println(signed)
		return nil
	},
}
