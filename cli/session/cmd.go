package session

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.design/x/clipboard"

	"github.com/aimchat/aimchat/chat"
	"github.com/aimchat/aimchat/configuration"
	"github.com/aimchat/aimchat/gemini"
	"github.com/aimchat/aimchat/store"
)

// NewCmd instantiates and returns the chat command.
func NewCmd(config *configuration.Config, s *store.Store) *cobra.Command {
	var opts struct {
		Model string
	}
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the interactive chat",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := gemini.NewClient(ctx, config)
			if err != nil {
				return err
			}
			if _, err := config.Model(opts.Model); err != nil {
				return err
			}
			controller := chat.NewController(s, client, opts.Model)

			model, err := New(ctx, config, controller)
			if err != nil {
				return err
			}
			model.SetClipboardAvailable(clipboard.Init() == nil)

			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
			model.SetProgram(p)
			controller.SetOnChange(func() {
				if program := model.getProgram(); program != nil {
					program.Send(StateChangedMsg{})
				}
			})

			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().StringVarP(&opts.Model, "model", "m", config.DefaultModel, "specify a model")
	return cmd
}
