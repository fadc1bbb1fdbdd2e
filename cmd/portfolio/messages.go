package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "List contact form messages",
	Long: `List contact form submissions in the order the API returns them, using
the token saved with 'portfolio token set'.`,
	Args: cobra.NoArgs,
	RunE: runMessages,
}

func runMessages(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	token, err := storedToken(ctx)
	if err != nil {
		return err
	}

	rows, err := newClient().Messages(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to list messages: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		fmt.Fprintln(out, "No messages.")
		return nil
	}
	for _, m := range rows {
		fmt.Fprintf(out, "#%d  %s  %s <%s>\n", m.ID, m.CreatedAt.Local().Format("2006-01-02 15:04"), m.Name, m.Email)
		fmt.Fprintf(out, "    %s\n\n", m.Message)
	}
	return nil
}
