package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// tokenCmd manages the stored admin token
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the stored admin token",
	Long: `Manage the admin token used by 'portfolio messages' and 'portfolio seed'.

Tokens are stored per API base URL in the local database (DB_PATH).

Available subcommands:
  set   - Save a token for the current API base
  show  - Print the saved token
  clear - Forget the saved token
  list  - Print every saved API base and its token`,
}

var tokenSetCmd = &cobra.Command{
	Use:   "set <token>",
	Short: "Save a token for the current API base",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, closeDB, err := openCredentials()
		if err != nil {
			return err
		}
		defer closeDB()

		if err := creds.Put(cmd.Context(), cfg.APIBase, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Token saved for %s\n", cfg.APIBase)
		return nil
	},
}

var tokenShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, closeDB, err := openCredentials()
		if err != nil {
			return err
		}
		defer closeDB()

		c, err := creds.Get(cmd.Context(), cfg.APIBase)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("no token saved for %s", cfg.APIBase)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t(updated %s)\n", c.Token, c.UpdatedAt.Format("2006-01-02 15:04"))
		return nil
	},
}

var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the saved token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, closeDB, err := openCredentials()
		if err != nil {
			return err
		}
		defer closeDB()

		if err := creds.Delete(cmd.Context(), cfg.APIBase); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Token cleared for %s\n", cfg.APIBase)
		return nil
	},
}

var tokenListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every saved API base and its token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, closeDB, err := openCredentials()
		if err != nil {
			return err
		}
		defer closeDB()

		all, err := creds.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(all) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No tokens saved")
			return nil
		}
		for _, c := range all {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t(updated %s)\n", c.APIBase, c.Token, c.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}
