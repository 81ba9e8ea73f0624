package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/spec-kit/license-service/internal/auth"
)

type tokenOptions struct {
	subject string
	scopes  []string
	ttl     time.Duration
}

// NewTokenCommand creates the token command.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &tokenOptions{}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a signed bearer token for the write endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.Auth.JWTSecret == "" {
				return errors.New("AUTH_JWT_SECRET is required to sign tokens")
			}
			ttl := opts.ttl
			if ttl <= 0 {
				ttl = cfg.Auth.AccessTokenTTL()
			}

			tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, ttl)
			token, expiresAt, err := tokens.GenerateToken(opts.subject, opts.scopes)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"access_token": token,
				"token_type":   "Bearer",
				"expires_at":   expiresAt.UTC().Format(time.RFC3339),
				"scopes":       opts.scopes,
			})
		},
	}

	cmd.Flags().StringVar(&opts.subject, "subject", "operator", "token subject")
	cmd.Flags().StringSliceVar(&opts.scopes, "scope", []string{auth.ScopeLicenseWrite}, "granted scopes")
	cmd.Flags().DurationVar(&opts.ttl, "ttl", 0, "token lifetime (defaults to AUTH_ACCESS_TOKEN_TTL_MINUTES)")

	return cmd
}
