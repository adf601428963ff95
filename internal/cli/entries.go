package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/lazypower/moodlog/internal/mood"
	"github.com/lazypower/moodlog/internal/render"
	"github.com/lazypower/moodlog/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	addCmd.Flags().IntVarP(&addMood, "mood", "m", 0, "Mood score, 1 (😞) to 5 (😄)")
	addCmd.Flags().StringVarP(&addDate, "date", "d", "", "Entry date YYYY-MM-DD (default today)")

	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 0, "Show only the newest N entries (0 for all)")

	weekCmd.Flags().StringVar(&weekDate, "date", "", "Last day of the week YYYY-MM-DD (default today)")

	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "Write to file instead of stdout")
}

// --- init command ---

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the journal file if it does not exist",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.EnsureInitialized(); err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Journal ready at %s\n", st.Path())
	return nil
}

// --- add command ---

var (
	addMood int
	addDate string
)

var addCmd = &cobra.Command{
	Use:   "add -m SCORE [journal words...]",
	Short: "Record a mood entry",
	Example: `  moodlog add -m 4 Had a good walk outside
  moodlog add -m 2 -d 2024-01-16 "Stressful meeting, long day"`,
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	if c := remote(); c != nil {
		date, err := resolveDate(addDate)
		if err != nil {
			return err
		}
		if !c.Healthy() {
			return fmt.Errorf("no moodlog server reachable at %s", c.URL())
		}
		e, err := c.AddEntry(date, addMood, text)
		if err != nil {
			return err
		}
		printSaved(cmd.OutOrStdout(), e)
		return nil
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	j, err := newJournal(st)
	if err != nil {
		return err
	}

	date := j.Today()
	if addDate != "" {
		if date, err = mood.ParseDate(addDate); err != nil {
			return err
		}
	}
	e, err := j.Submit(date, addMood, text)
	if err != nil {
		return err
	}
	printSaved(cmd.OutOrStdout(), e)
	return nil
}

func printSaved(w io.Writer, e mood.Entry) {
	glyph, _ := mood.Glyph(e.Mood)
	fmt.Fprintf(w, "%s Saved %s (%d)\n", glyph, e.DateString(), e.Mood)
}

// resolveDate parses v, defaulting to today in the configured timezone.
func resolveDate(v string) (time.Time, error) {
	if v != "" {
		return mood.ParseDate(v)
	}
	loc, err := cfg.Location()
	if err != nil {
		return time.Time{}, err
	}
	return mood.Today(time.Now(), loc), nil
}

// --- log command ---

var logLimit int

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "List entries, newest first",
	Args:  cobra.NoArgs,
	RunE:  runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	entries, err := loadEntries()
	if err != nil {
		return err
	}
	if logLimit > 0 && len(entries) > logLimit {
		entries = entries[:logLimit]
	}
	fmt.Fprintln(cmd.OutOrStdout(), render.DefaultStyles().Table(entries))
	return nil
}

// loadEntries returns every entry newest first, from the server when one
// is configured.
func loadEntries() ([]mood.Entry, error) {
	if c := remote(); c != nil {
		return c.Entries()
	}

	st, err := openStore()
	if err != nil {
		return nil, err
	}
	defer st.Close()
	j, err := newJournal(st)
	if err != nil {
		return nil, err
	}
	view, err := j.View()
	if err != nil {
		return nil, err
	}
	return view.Entries, nil
}

// --- week command ---

var weekDate string

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show the average mood over the last 7 days",
	Args:  cobra.NoArgs,
	RunE:  runWeek,
}

func runWeek(cmd *cobra.Command, args []string) error {
	if c := remote(); c != nil {
		ref, err := resolveDate(weekDate)
		if err != nil {
			return err
		}
		sum, err := c.Summary(ref)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.DefaultStyles().Summary(sum))
		return nil
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	j, err := newJournal(st)
	if err != nil {
		return err
	}

	ref := j.Today()
	if weekDate != "" {
		if ref, err = mood.ParseDate(weekDate); err != nil {
			return err
		}
	}
	view, err := j.ViewAt(ref)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), render.DefaultStyles().Summary(view.Summary))
	return nil
}

// --- export command ---

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every entry as CSV (date,mood,journal)",
	Long: `Writes all entries in the journal file format: UTF-8 with a byte order
mark, a date,mood,journal header, one row per entry in insertion order.
Works with either backend, so it doubles as a SQLite-to-CSV converter.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := st.Load()
	if err != nil {
		return err
	}

	if exportOut == "" || exportOut == "-" {
		return store.EncodeCSV(cmd.OutOrStdout(), entries)
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	if err := store.EncodeCSV(f, entries); err != nil {
		f.Close()
		return fmt.Errorf("write export: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d entries to %s\n", len(entries), exportOut)
	return nil
}
