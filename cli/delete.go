package cli

import (
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/aimchat/aimchat/store"
)

// NewDeleteCmd instantiates and returns the delete command.
func NewDeleteCmd(s *store.Store) *cobra.Command {
	var opts struct {
		Force bool
	}
	cmd := &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions := s.Load()

			// Accept the short id prefix printed by list.
			var id string
			for _, session := range sessions {
				if session.ID == args[0] || strings.HasPrefix(session.ID, args[0]) {
					id = session.ID
					break
				}
			}
			if id == "" {
				return errors.Errorf("no session with id %s", args[0])
			}

			if !opts.Force {
				target := sessions.Find(id)
				confirmed := false
				prompt := &survey.Confirm{Message: "Delete session \"" + target.Title + "\"?"}
				if err := survey.AskOne(prompt, &confirmed); err != nil {
					return err
				}
				if !confirmed {
					return nil
				}
			}

			if err := s.Save(sessions.Remove(id)); err != nil {
				return err
			}
			color.New(color.FgGreen).Println("Session deleted.")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "skip the confirmation prompt")
	return cmd
}
