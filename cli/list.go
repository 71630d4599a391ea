// Package cli holds the non-interactive session management commands.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/aimchat/aimchat/store"
)

// NewListCmd instantiates and returns the list command.
func NewListCmd(s *store.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions := s.Load()
			if len(sessions) == 0 {
				color.New(color.FgYellow).Println("No sessions yet.")
				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Title", "Messages", "Updated"})
			table.SetAutoWrapText(false)
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.SetCenterSeparator("")
			table.SetColumnSeparator("")
			table.SetRowSeparator("")
			table.SetHeaderLine(false)
			table.SetBorder(false)
			table.SetTablePadding("\t")
			for _, session := range sessions {
				updated := time.UnixMilli(session.UpdatedAt).Format("2006-01-02 15:04")
				table.Append([]string{
					shortID(session.ID),
					session.Title,
					fmt.Sprintf("%d", len(session.Messages)),
					updated,
				})
			}
			table.Render()
			return nil
		},
	}
}

// shortID truncates an id for display. Legacy persisted ids can be shorter
// than the truncation length.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
