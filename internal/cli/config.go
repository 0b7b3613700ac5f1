package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the client profile",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			dimColor.Fprintf(a.Out, "# %s\n", profilePath(a.Dir))
			enc := yaml.NewEncoder(a.Out)
			enc.SetIndent(2)
			if err := enc.Encode(a.Profile); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	setServer := &cobra.Command{
		Use:   "set-server <url>",
		Short: "Store the backend URL in the profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			next := a.Profile.Server
			next.BaseURL = args[0]
			if err := next.Validate(); err != nil {
				return err
			}
			a.Profile.Server = next
			if err := a.Profile.Save(profilePath(a.Dir)); err != nil {
				return fmt.Errorf("save profile: %w", err)
			}
			okColor.Fprintf(a.Out, "✅ Server set to %s\n", next.BaseURL)
			return nil
		},
	}

	cmd.AddCommand(show, setServer)
	return cmd
}
