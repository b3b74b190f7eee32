package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yanizio/agrocms/internal/auth"
	"github.com/yanizio/agrocms/internal/config"
	"github.com/yanizio/agrocms/internal/database"
)

var (
	adminEmail    string
	adminName     string
	adminRole     string
	adminPassword string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin accounts",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin or editor account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if adminRole != auth.RoleAdmin && adminRole != auth.RoleEditor {
			return fmt.Errorf("role must be %q or %q", auth.RoleAdmin, auth.RoleEditor)
		}
		hash, err := passwordHash(cmd.InOrStdin())
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		id, err := auth.NewStore(pool).Create(ctx, normalEmail(adminEmail), adminName, adminRole, hash)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admin %d created (%s)\n", id, adminRole)
		return nil
	},
}

var adminPasswdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Replace an account's password",
	RunE: func(cmd *cobra.Command, _ []string) error {
		hash, err := passwordHash(cmd.InOrStdin())
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := auth.NewStore(pool).SetPassword(ctx, normalEmail(adminEmail), hash); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "password updated")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminCreateCmd, adminPasswdCmd)

	adminCmd.PersistentFlags().StringVar(&adminEmail, "email", "", "account email")
	adminCmd.PersistentFlags().StringVar(&adminPassword, "password", "", "new password (prefer $AGROCMS_ADMIN_PASSWORD or stdin)")
	_ = adminCmd.MarkPersistentFlagRequired("email")

	adminCreateCmd.Flags().StringVar(&adminName, "name", "", "display name")
	adminCreateCmd.Flags().StringVar(&adminRole, "role", auth.RoleEditor, "admin or editor")
}

// passwordHash picks the password source and hashes it.
func passwordHash(stdin io.Reader) (string, error) {
	pw := adminPassword
	if pw == "" {
		pw = os.Getenv("AGROCMS_ADMIN_PASSWORD")
	}
	if pw == "" {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read password: %w", err)
		}
		pw = strings.TrimRight(line, "\r\n")
	}
	return auth.HashPassword(pw)
}

func normalEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// openPool loads configuration and returns a pool; a missing DSN fails
// here rather than on the first query.
func openPool(ctx context.Context) (*database.Pool, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.Database.DSN == "" {
		return nil, errors.New("database.dsn is not configured")
	}
	opts := database.DefaultOptions()
	opts.MaxOpenConns = 2
	opts.MaxIdleConns = 1
	return database.NewPool(cfg.Database.DSN, opts), nil
}
