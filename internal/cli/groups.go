package cli

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/uptimestars/starsctl/internal/api"
	"github.com/uptimestars/starsctl/internal/errors"
)

var groupsCmd = &cobra.Command{
	Use:     "groups",
	Aliases: []string{"group"},
	Short:   "List monitor groups",
}

var groupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every monitor group",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return groupsList(cmd)
	},
}

func init() {
	rootCmd.AddCommand(groupsCmd)
	groupsCmd.AddCommand(groupsListCmd)
}

func groupsList(cmd *cobra.Command) error {
	s, err := newSession(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	var groups []api.Group
	err = s.busy("Loading groups", func() error {
		var err error
		groups, err = s.allGroups(cmd.Context())
		return err
	})
	if err != nil {
		return errors.FromAPI(err)
	}
	if groups == nil {
		groups = []api.Group{}
	}

	return s.emit(groups, func(w io.Writer) error {
		renderGroupTable(w, groups)
		return nil
	})
}
