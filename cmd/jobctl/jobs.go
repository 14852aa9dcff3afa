package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kiranshivaraju/jobtracker/internal/config"
	"github.com/kiranshivaraju/jobtracker/internal/store"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect tracked job applications",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked job applications, newest first",
	Long:  "Reads the configured job store (JOBS_STORE) and prints a table of every application. Pending Postgres migrations are applied first.",
	Args:  cobra.NoArgs,
	RunE:  runJobsList,
}

func init() {
	jobsCmd.AddCommand(jobsListCmd)
	rootCmd.AddCommand(jobsCmd)
}

func runJobsList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	st, closeStore, err := store.Open(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	jobs, err := st.ListJobs(cmd.Context())
	if err != nil {
		return fmt.Errorf("list jobs: %w", err)
	}

	w := cmd.OutOrStdout()
	if len(jobs) == 0 {
		fmt.Fprintln(w, "No job applications tracked yet.")
		return nil
	}

	fmt.Fprintf(w, "%-10s %-30s %-25s %-13s %s\n", "ID", "Title", "Company", "Status", "Added")
	fmt.Fprintln(w, strings.Repeat("─", 92))
	for _, j := range jobs {
		fmt.Fprintf(w, "%-10s %-30s %-25s %-13s %s\n",
			shortID(j.ID),
			truncate(j.JobTitle, 30),
			truncate(j.CompanyName, 25),
			j.Status,
			j.DateAdded.UTC().Format("2006-01-02"),
		)
	}
	fmt.Fprintf(w, "\nTotal: %d job applications\n", len(jobs))
	return nil
}

// shortID returns the first eight characters of id, enough to identify a
// uuid in a listing.
func shortID(id string) string {
	return id[:min(8, len(id))]
}

// truncate shortens s to max runes, marking the cut with "…".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
