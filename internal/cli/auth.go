package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/lk2023060901/myai/internal/client"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

func newAuthCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in to sync favorites and recent goals",
	}

	var email, password, name string
	credFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&email, "email", "", "account email")
		c.Flags().StringVar(&password, "password", "", "password; read from stdin when empty")
	}
	readPassword := func(a *App) (string, error) {
		if password != "" {
			return password, nil
		}
		fmt.Fprint(a.Err, "Password: ")
		line, err := bufio.NewReader(a.In).ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" && err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return line, nil
	}

	register := &cobra.Command{
		Use:   "register",
		Short: "Create a password account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			pw, err := readPassword(a)
			if err != nil {
				return err
			}
			u, err := a.API.Register(cmd.Context(), email, pw, name)
			if err != nil {
				return fmt.Errorf("register: %w", friendly(err))
			}
			okColor.Fprintf(a.Out, "✅ Signed in as %s\n", u.DisplayName())
			return nil
		},
	}
	credFlags(register)
	register.Flags().StringVar(&name, "name", "", "display name")

	login := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			pw, err := readPassword(a)
			if err != nil {
				return err
			}
			u, err := a.API.Login(cmd.Context(), email, pw)
			if err != nil {
				return fmt.Errorf("login: %w", friendly(err))
			}
			okColor.Fprintf(a.Out, "✅ Signed in as %s\n", u.DisplayName())
			return nil
		},
	}
	credFlags(login)

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.app.API.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logout: %w", friendly(err))
			}
			okColor.Fprintln(r.app.Out, "👋 Signed out")
			return nil
		},
	}

	me := &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			if err := a.requireSession(); err != nil {
				return err
			}
			u, err := a.API.Me(cmd.Context())
			if err != nil {
				return fmt.Errorf("me: %w", friendly(err))
			}
			printUser(a, u)
			return nil
		},
	}

	var newName, newPicture string
	update := &cobra.Command{
		Use:   "update",
		Short: "Change the display name or picture; an empty value clears it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			if err := a.requireSession(); err != nil {
				return err
			}
			var upd client.ProfileUpdate
			if cmd.Flags().Changed("name") {
				upd.Name = &newName
			}
			if cmd.Flags().Changed("picture") {
				upd.Picture = &newPicture
			}
			if upd.Name == nil && upd.Picture == nil {
				return fmt.Errorf("nothing to update, pass --name or --picture")
			}
			u, err := a.API.UpdateMe(cmd.Context(), upd)
			if err != nil {
				return fmt.Errorf("update: %w", friendly(err))
			}
			printUser(a, u)
			return nil
		},
	}
	update.Flags().StringVar(&newName, "name", "", "display name")
	update.Flags().StringVar(&newPicture, "picture", "", "picture URL")

	google := &cobra.Command{
		Use:   "google",
		Short: "Open the Google sign-in page in the browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			providers, err := a.API.Providers(cmd.Context())
			if err != nil {
				return fmt.Errorf("google: %w", friendly(err))
			}
			if !providers.Google {
				return errGoogleDisabled
			}
			authURL, err := a.API.GoogleLoginURL(cmd.Context())
			if err != nil {
				return fmt.Errorf("google: %w", friendly(err))
			}
			fmt.Fprintln(a.Out, authURL)
			if err := browser.OpenURL(authURL); err != nil {
				dimColor.Fprintln(a.Err, "could not open a browser, visit the URL above")
			}
			return nil
		},
	}

	cmd.AddCommand(register, login, logout, me, update, google)
	return cmd
}

var errGoogleDisabled = errors.New("google sign-in is not enabled on the server")

func printUser(a *App, u *client.User) {
	titleColor.Fprintln(a.Out, u.DisplayName())
	fmt.Fprintf(a.Out, "id:      %d\n", u.ID)
	fmt.Fprintf(a.Out, "email:   %s\n", u.Email)
	if u.Picture != nil {
		fmt.Fprintf(a.Out, "picture: %s\n", *u.Picture)
	}
}
