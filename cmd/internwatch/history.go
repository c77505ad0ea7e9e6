package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/internwatch/internal/history"
	"github.com/amishk599/internwatch/internal/model"
	"github.com/amishk599/internwatch/internal/store"
)

var (
	historyLimit int
	historyPlain bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse postings already announced",
	Long:  "Lists the most recent seen-set records. Interactive (TUI) on a terminal, a plain table with --plain or when piped.",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 100, "maximum number of records to show")
	historyCmd.Flags().BoolVar(&historyPlain, "plain", false, "print a table instead of the interactive browser")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	st, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open seen-set: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	load := func(ctx context.Context) ([]model.SeenRecord, error) {
		if err := st.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return st.Recent(ctx, historyLimit)
	}

	if historyPlain || !isTerminal(os.Stdout) {
		records, err := load(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read seen-set: %v\n", err)
			os.Exit(1)
		}
		return history.Print(os.Stdout, records)
	}

	records, err := history.RunLoader(store.Backend(cfg.DatabaseURL), load)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read seen-set: %v\n", err)
		os.Exit(1)
	}
	if len(records) == 0 {
		fmt.Println("No postings have been announced yet.")
		return nil
	}

	for {
		source, ok, err := history.RunSourcePicker(records)
		if err != nil {
			return fmt.Errorf("source picker: %w", err)
		}
		if !ok {
			return nil
		}

		quit, err := history.RunBrowser(source, history.FilterSource(records, source))
		if err != nil {
			return fmt.Errorf("history browser: %w", err)
		}
		if quit {
			return nil
		}
	}
}

// isTerminal reports whether f is a character device.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
