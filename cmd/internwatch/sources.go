package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/internwatch/internal/adapter"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured sources and boards",
	Long:  "Reads the config and prints each source in run order, with its Greenhouse boards.",
	RunE:  runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func status(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

func runSources(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-12s %-10s %s\n", "Source", "Status", "Detail")
	fmt.Println(strings.Repeat("─", 72))

	agg := cfg.Aggregator
	fmt.Printf("%-12s %-10s sites=%s location=%q hours_old=%d results_wanted=%d\n",
		"aggregator", status(agg.Enabled), strings.Join(agg.Sites, ","), agg.Location, agg.HoursOld, agg.ResultsWanted)

	lst := cfg.Listing
	fmt.Printf("%-12s %-10s %s\n", lst.Name, status(lst.Enabled), lst.URL)

	fmt.Printf("%-12s %-10s %d boards\n", "greenhouse", status(cfg.ATS.Enabled), len(cfg.ATS.Boards))
	for _, b := range cfg.ATS.Boards {
		board := adapter.Board{Token: b.Token, Name: b.Name}
		fmt.Printf("%-12s %-10s %-20s %s\n", "", "", b.Token, board.CompanyName())
	}

	fmt.Printf("\nSeen-set: %s\n", cfg.DatabaseURL)
	fmt.Printf("Notifier: %s\n", cfg.Notification.Type)
	return nil
}
