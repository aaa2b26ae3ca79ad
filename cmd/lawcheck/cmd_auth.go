package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// authCmd manages the signed-in identity.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage sign-in",
	Long: `Manage the Google identity used for fact-check conversations.

Available subcommands:
  login  - Sign in via Google OAuth (or mock identity without credentials)
  logout - Clear the stored identity
  status - Show the current identity and backend account state`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with Google",
	Long: `Sign in via the Google OAuth consent flow.

Opens a browser for consent and listens on a localhost callback. The
resulting profile is synced to the backend and stored under
~/.lawcheck/ for later invocations. Without configured OAuth
credentials a local mock identity is used instead.

Backend unavailability does not fail sign-in; conversation features
stay locked until the backend account id resolves.`,
	RunE: runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored identity",
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sign-in status",
	RunE:  runAuthStatus,
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	d := buildDeps()

	user, err := d.gate.SignIn(context.Background())
	if err != nil {
		return fmt.Errorf("sign-in failed: %w", err)
	}

	fmt.Printf("Signed in as %s <%s>\n", user.Name, user.Email)
	if user.Resolved() {
		fmt.Printf("Backend account id: %d\n", user.BackendID)
	} else {
		fmt.Println("Backend account not resolved yet; fact-checking will retry on first use.")
	}
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	d := buildDeps()
	if d.gate.CurrentUser() == nil {
		fmt.Println("Not signed in.")
		return nil
	}
	if err := d.gate.SignOut(); err != nil {
		return fmt.Errorf("sign-out failed: %w", err)
	}
	fmt.Println("Signed out.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	d := buildDeps()

	user := d.gate.CurrentUser()
	if user == nil {
		fmt.Println("Not signed in. Run 'lawcheck auth login'.")
		return nil
	}

	fmt.Printf("Signed in as %s <%s> via %s\n", user.Name, user.Email, user.Provider)
	if user.Resolved() {
		fmt.Printf("Backend account id: %d\n", user.BackendID)
	} else {
		fmt.Println("Backend account id: unresolved")
	}
	fmt.Printf("Backend: %s\n", d.cfg.BackendURL)
	return nil
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
}
