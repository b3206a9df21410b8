package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"safetyboard/internal/incidents"
	"safetyboard/internal/logging"
)

var (
	listSeverity string
	listSort     string
	listOutput   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the incident list",
	Long: `Print the seeded incident list filtered by severity and ordered by
report time.

Examples:
  safetyboard list
  safetyboard list --severity High --sort oldest
  safetyboard list -o json`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listSeverity, "severity", string(incidents.SeverityAll), "Severity to show (All, Low, Medium, High)")
	listCmd.Flags().StringVar(&listSort, "sort", string(incidents.SortNewest), "Sort order (newest, oldest)")
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "table", "Output format (table, json, yaml)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	filter := incidents.FilterState{
		Severity:      incidents.Severity(listSeverity),
		SortDirection: incidents.SortDirection(listSort),
	}
	if err := filter.Validate(); err != nil {
		return fmt.Errorf("%w: severity=%q sort=%q", err, listSeverity, listSort)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := newStore(cfg, logging.Discard())
	if err != nil {
		return err
	}
	store.SetFilter(filter)

	return writeIncidents(cmd.OutOrStdout(), listOutput, store.Visible())
}

func writeIncidents(w io.Writer, format string, list []incidents.Incident) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(map[string][]incidents.Incident{"incidents": list})
	case "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSEVERITY\tREPORTED\tTITLE")
		for _, inc := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", inc.ID, inc.Severity, displayDate(inc.ReportedAt), inc.Title)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// displayDate renders reported_at for humans, or verbatim if it is malformed.
func displayDate(reportedAt string) string {
	t, err := incidents.ParseReportedAt(reportedAt)
	if err != nil {
		return reportedAt
	}
	return t.Format(time.DateTime)
}
