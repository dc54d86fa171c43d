package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/morningtrading/sizer/journal"
)

var auditDBPath string

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Query the decision journal",
	Long: `Audit inspects the append-only decision journal (SQLite backend).

Examples:
  sizer audit decision 01J9GB3A...
  sizer audit today
  sizer audit day 2026-08-31
  sizer audit replay --since 2026-08-31T09:00:00Z`,
}

var auditDecisionCmd = &cobra.Command{
	Use:   "decision <decision_id>",
	Short: "Show a single decision by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := openAuditDB()
		if err != nil {
			return err
		}
		defer j.Close()

		rec, err := j.GetDecision(args[0])
		if err != nil {
			return err
		}
		printRecord(rec)
		return nil
	},
}

var auditTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List today's decisions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return listDay(start)
	},
}

var auditDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List decisions for a specific day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := time.ParseInLocation("2006-01-02", args[0], time.Local)
		if err != nil {
			return fmt.Errorf("invalid day %q: %w", args[0], err)
		}
		return listDay(start)
	},
}

var auditSince string

var auditReplayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Stream decisions in order from a point in time",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		since := time.Time{}
		if auditSince != "" {
			var err error
			since, err = time.Parse(time.RFC3339, auditSince)
			if err != nil {
				return fmt.Errorf("invalid --since %q: %w", auditSince, err)
			}
		}

		j, err := openAuditDB()
		if err != nil {
			return err
		}
		defer j.Close()

		cur, err := j.Replay(since)
		if err != nil {
			return err
		}
		defer cur.Close()

		n := 0
		for cur.Next() {
			printRecord(cur.Record())
			n++
		}
		if err := cur.Err(); err != nil {
			return err
		}
		fmt.Printf("%d decision(s)\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditDecisionCmd, auditTodayCmd, auditDayCmd, auditReplayCmd)

	auditCmd.PersistentFlags().StringVar(&auditDBPath, "db", "", "journal DB path (defaults to config)")
	auditReplayCmd.Flags().StringVar(&auditSince, "since", "", "RFC3339 start time (defaults to the beginning)")
}

func openAuditDB() (*journal.SQLite, error) {
	path := auditDBPath
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		if cfg.Journal.Type != "sqlite" {
			return nil, fmt.Errorf("audit queries need the sqlite journal backend (configured: %s)", cfg.Journal.Type)
		}
		path = cfg.Journal.DBPath
	}
	return journal.NewSQLite(path)
}

func listDay(start time.Time) error {
	j, err := openAuditDB()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := j.ListDecisionsBetween(start, start.Add(24*time.Hour))
	if err != nil {
		return err
	}
	for _, rec := range recs {
		printRecord(rec)
	}
	fmt.Printf("%d decision(s)\n", len(recs))
	return nil
}

func printRecord(rec journal.AuditRecord) {
	outcome := "REJECTED"
	if rec.Approved {
		outcome = "APPROVED"
	}
	fmt.Printf("%s  %s  %-8s %-10s %-4s lot=%-8g coeff=%.3f notional=%.2f",
		rec.DecisionID, rec.Time.Format(time.RFC3339), outcome,
		rec.Symbol, rec.Direction, rec.Lot, rec.Coefficient, rec.Notional)
	if !rec.Approved {
		fmt.Printf("  reason=%s", rec.Reason)
	}
	fmt.Println()
}
