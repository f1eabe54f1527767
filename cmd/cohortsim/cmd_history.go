package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nvandessel/cohortsim/internal/report"
	"github.com/nvandessel/cohortsim/internal/store"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse saved simulation runs",
		Long: `List, show, and delete runs saved with 'cohortsim run --save'.

History is stored in .cohortsim/history.db under the project root, or under
the home directory when history.scope is "global".`,
	}

	cmd.AddCommand(
		newHistoryListCmd(),
		newHistoryShowCmd(),
		newHistoryDeleteCmd(),
	)

	return cmd
}

// openHistory opens the run store for the configured scope.
func openHistory(cmd *cobra.Command) (*store.SQLiteRunStore, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dir, err := dataDir(cmd, cfg)
	if err != nil {
		return nil, err
	}
	s, err := store.NewSQLiteRunStore(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return s, nil
}

// saveRun stores rec in the history database under dir.
func saveRun(ctx context.Context, dir string, rec store.RunRecord) (string, error) {
	s, err := store.NewSQLiteRunStore(dir)
	if err != nil {
		return "", fmt.Errorf("failed to open history: %w", err)
	}
	defer s.Close()

	id, err := s.SaveRun(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}
	return id, nil
}

func newHistoryListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			limit, _ := cmd.Flags().GetInt("limit")

			s, err := openHistory(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			runs, err := s.ListRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				if runs == nil {
					runs = []store.RunSummary{}
				}
				return json.NewEncoder(out).Encode(map[string]interface{}{
					"runs":  runs,
					"count": len(runs),
				})
			}

			if len(runs) == 0 {
				fmt.Fprintln(out, "No saved runs. Use 'cohortsim run --save' to keep one.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCREATED\tLABEL\tTRIALS\tSTUDENTS\tSESSIONS\tSEED\tFINAL")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%.2f\n",
					r.ID, r.CreatedAt.Local().Format(time.DateTime), valueOrDefault(r.Label, "-"),
					r.NumTrials, r.NumStudents, r.NumSessions, r.Seed, r.FinalMean)
			}
			return w.Flush()
		},
	}

	cmd.Flags().Int("limit", 20, "Maximum runs to list (0 = all)")
	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the report of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := reportFormat(cmd)
			if err != nil {
				return err
			}

			s, err := openHistory(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			rec, err := s.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if format == report.FormatText {
				header := fmt.Sprintf("Run %s, saved %s", rec.ID, rec.CreatedAt.Local().Format(time.DateTime))
				if rec.Label != "" {
					header += fmt.Sprintf(" (%s)", rec.Label)
				}
				fmt.Fprintln(cmd.OutOrStdout(), header)
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return report.Render(cmd.OutOrStdout(), &rec.Result, format)
		},
	}

	cmd.Flags().String("format", "text", "Report format: text, json, or html")
	return cmd
}

func newHistoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			s, err := openHistory(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.DeleteRun(cmd.Context(), args[0]); err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{
					"status": "deleted",
					"id":     args[0],
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", args[0])
			return nil
		},
	}
}

func valueOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
