package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/naveenspark/shopfront/internal/auth"
	"github.com/naveenspark/shopfront/internal/session"
	"github.com/naveenspark/shopfront/pkg/client"
)

func newLoginCmd(rt func() *deps) *cobra.Command {
	var email, password string
	var admin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the shop",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" {
				email = os.Getenv("SHOPFRONT_EMAIL")
			}
			if password == "" {
				password = os.Getenv("SHOPFRONT_PASSWORD")
			}
			var err error
			if email == "" {
				if email, err = promptLine("Email", validateEmail); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = promptPassword("Password"); err != nil {
					return err
				}
			}

			a := rt().auth
			var sess *session.Session
			if admin {
				sess, err = a.LoginAdmin(cmd.Context(), email, password)
			} else {
				sess, err = a.Login(cmd.Context(), email, password)
			}
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "✓ Signed in")
			fmt.Fprintf(out, "  User: %s (%s)\n", sess.User.Name, sess.User.Email)
			if sess.User.IsAdmin() {
				fmt.Fprintln(out, "  Role: admin")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address (or set SHOPFRONT_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "password (or set SHOPFRONT_PASSWORD, will prompt if not provided)")
	cmd.Flags().BoolVar(&admin, "admin", false, "refuse accounts without the admin role")
	return cmd
}

func newRegisterCmd(rt func() *deps) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := rt().auth
			var err error
			if name == "" {
				if name, err = promptLine("Name", validateNotEmpty); err != nil {
					return err
				}
			}
			if email == "" {
				if email, err = promptLine("Email", validateEmail); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = promptPassword("Password"); err != nil {
					return err
				}
				confirm, err := promptPassword("Confirm password")
				if err != nil {
					return err
				}
				if err := a.ConfirmPassword(password, confirm); err != nil {
					return err
				}
			}

			sess, err := a.Register(cmd.Context(), name, email, password)
			if err != nil {
				return fmt.Errorf("register failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Account created for %s (%s)\n", sess.User.Name, sess.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (will prompt if not provided)")
	return cmd
}

func newLogoutCmd(rt func() *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the local session",
		Long:  "Clear the local session. The token itself is not revoked on the server.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := rt().auth
			if !a.IsAuthenticated(cmd.Context()) {
				fmt.Fprintln(cmd.OutOrStdout(), "Already signed out.")
				return nil
			}
			a.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newWhoamiCmd(rt func() *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := rt().auth
			out := cmd.OutOrStdout()
			ctx := cmd.Context()

			if !a.IsAuthenticated(ctx) {
				fmt.Fprintln(out, "Not signed in.")
				return nil
			}
			u := a.CurrentUser(ctx)
			if u == nil {
				fmt.Fprintln(out, "Signed in (profile unavailable, sign in again to refresh it).")
			} else {
				fmt.Fprintf(out, "%s (%s)\n", u.Name, u.Email)
				fmt.Fprintf(out, "  Role: %s\n", u.Role)
			}
			if exp, ok := a.TokenExpiry(ctx); ok {
				state := "expires"
				if time.Now().After(exp) {
					state = "expired"
				}
				fmt.Fprintf(out, "  Token %s: %s\n", state, exp.Local().Format(time.RFC1123))
			}
			return nil
		},
	}
}

// exitMessage unwraps the auth sentinels into a line for the terminal.
func exitMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrNotAdmin):
		return "this account is not an administrator"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "invalid email or password"
	case errors.Is(err, auth.ErrNetwork) && client.StatusCode(err) == 0:
		return "could not reach the server: " + err.Error()
	}
	return err.Error()
}
