package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/spec-kit/gym-entry/internal/auth"
	"github.com/spec-kit/gym-entry/internal/domain"
)

func newSessionCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage development sessions",
	}
	cmd.AddCommand(newSessionMintCmd(load))
	return cmd
}

func newSessionMintCmd(load configLoader) *cobra.Command {
	var (
		subjectID string
		roleName  string
	)

	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint a bearer session for local testing",
		Long: `Mint a bearer session signed with AUTH_JWT_SECRET.

Examples:
  gymctl session mint --subject 6f1c2a8e-3b0d-4d8e-9a57-1f2e3d4c5b6a --role client
  gymctl session mint --subject desk-1 --role coach`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			role, ok := domain.NormalizeRole(roleName)
			if !ok {
				return fmt.Errorf("unknown role %q", roleName)
			}
			cfg, err := load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			tm := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTLMinutes)
			token, session, err := tm.GenerateToken(subjectID, role)
			if err != nil {
				return fmt.Errorf("sign session: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, token)
			fmt.Fprintf(out, "  role: %s\n", session.Role)
			fmt.Fprintf(out, "  expires: %s\n", session.ExpiresAt.UTC().Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&subjectID, "subject", "", "subject id placed in the sub claim")
	cmd.Flags().StringVar(&roleName, "role", string(domain.RoleClient), "owner, dev, coach, client or visitor")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
