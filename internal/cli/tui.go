package cli

import (
	"github.com/lazypower/moodlog/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive entry form",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	j, err := newJournal(st)
	if err != nil {
		return err
	}
	return tui.Run(j)
}
