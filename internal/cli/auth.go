package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/tempo/internal/browser"
	"github.com/tessro/tempo/internal/spotify/auth"
	"github.com/tessro/tempo/internal/wizard"
)

const loginTimeout = 5 * time.Minute

var authLogoutYes bool

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Spotify authentication",
	Long:  `Commands for managing Spotify OAuth authentication.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with Spotify",
	Long:  `Opens a browser to authenticate with Spotify using the OAuth PKCE flow.`,
	RunE:  runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored Spotify credentials",
	Long:  `Removes the stored Spotify OAuth tokens from the local machine.`,
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	Long:  `Shows the current Spotify authentication status.`,
	RunE:  runAuthStatus,
}

func init() {
	authLogoutCmd.Flags().BoolVarP(&authLogoutYes, "yes", "y", false, "Skip confirmation")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	storage, err := auth.NewTokenStorage("")
	if err != nil {
		return fmt.Errorf("initialize token storage: %w", err)
	}

	authCfg := auth.NewConfig(cfg.Spotify.ClientID)
	if cfg.Spotify.RedirectURI != "" {
		authCfg.RedirectURI = cfg.Spotify.RedirectURI
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), loginTimeout)
	defer cancel()

	open := func(url string) error {
		if !JSONOutput() {
			fmt.Println("Opening browser for Spotify authentication...")
		}
		if err := browser.Open(url); err != nil {
			fmt.Fprintf(os.Stderr, "Could not open browser automatically.\nPlease open this URL in your browser:\n\n%s\n\n", url)
		}
		if !JSONOutput() {
			fmt.Println("Waiting for authentication...")
		}
		return nil
	}

	if _, err := auth.Login(ctx, authCfg, auth.DefaultTokenEndpoint(), storage, open); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	if err := c.LoadToken(); err != nil {
		return fmt.Errorf("load token: %w", err)
	}

	user, err := c.GetCurrentUser(ctx)
	if err != nil {
		return report("authenticated", "Authentication successful! Token stored.", nil)
	}

	return report("authenticated",
		fmt.Sprintf("Successfully authenticated as %s (%s)", user.DisplayName, user.Email),
		map[string]any{
			"user_id":      user.ID,
			"display_name": user.DisplayName,
			"email":        user.Email,
			"product":      user.Product,
		})
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	storage, err := auth.NewTokenStorage("")
	if err != nil {
		return fmt.Errorf("initialize token storage: %w", err)
	}

	if !storage.Exists() {
		return report("not_authenticated", "Not authenticated with Spotify.", nil)
	}

	if !authLogoutYes && wizard.CanPrompt(JSONOutput()) {
		if !wizard.Confirm("Remove stored Spotify credentials?", "Log out") {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := storage.Delete(); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}

	return report("logged_out", "Logged out of Spotify.", nil)
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	storage, err := auth.NewTokenStorage("")
	if err != nil {
		return fmt.Errorf("initialize token storage: %w", err)
	}

	token, err := storage.Load()
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}

	if token == nil {
		if JSONOutput() {
			return printJSON(map[string]any{"authenticated": false})
		}
		fmt.Println("Not authenticated with Spotify.")
		fmt.Println("Run 'tempo auth login' to authenticate.")
		return nil
	}

	s, err := newSession()
	if err != nil {
		if JSONOutput() {
			return printJSON(map[string]any{
				"authenticated": true,
				"expired":       token.IsExpired(),
				"expires_at":    token.ExpiresAt,
			})
		}
		if token.IsExpired() {
			fmt.Println("Authenticated but token expired.")
		} else {
			fmt.Println("Authenticated with Spotify.")
		}
		return nil
	}

	user, err := s.client.GetCurrentUser(cmd.Context())
	if err != nil {
		if JSONOutput() {
			return printJSON(map[string]any{
				"authenticated": true,
				"expired":       true,
				"error":         err.Error(),
			})
		}
		fmt.Printf("Token may be expired or invalid: %v\n", err)
		fmt.Println("Run 'tempo auth login' to re-authenticate.")
		return nil
	}

	// The client refreshes on demand, so report the current expiry.
	if t := s.client.Token(); t != nil {
		token = t
	}

	if JSONOutput() {
		return printJSON(map[string]any{
			"authenticated": true,
			"expired":       false,
			"user_id":       user.ID,
			"display_name":  user.DisplayName,
			"email":         user.Email,
			"product":       user.Product,
			"expires_at":    token.ExpiresAt,
		})
	}

	fmt.Printf("Authenticated as: %s (%s)\n", user.DisplayName, user.Email)
	fmt.Printf("Account type: %s\n", user.Product)
	fmt.Printf("Token expires: %s\n", token.ExpiresAt.Format(time.RFC3339))
	return nil
}
