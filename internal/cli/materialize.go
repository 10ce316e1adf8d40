package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukerupert/choreboard/internal/chore"
	"github.com/dukerupert/choreboard/internal/database"
	"github.com/dukerupert/choreboard/internal/store"
	"github.com/dukerupert/choreboard/internal/week"
)

func init() {
	rootCmd.AddCommand(materializeCmd)
	materializeCmd.Flags().String("family", "", "Family ID (required)")
	materializeCmd.Flags().String("week", "", "Any date in the week, YYYY-MM-DD (default: current week)")
	materializeCmd.MarkFlagRequired("family")
}

var materializeCmd = &cobra.Command{
	Use:   "materialize",
	Short: "Create a week's chore instances from active templates",
	Long: `Materialize chore instances for one family and week. Reading a week
through the API does the same thing; this command pre-creates it. Running it
twice is harmless.`,
	RunE: runMaterialize,
}

func runMaterialize(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	familyID, _ := cmd.Flags().GetString("family")
	weekArg, _ := cmd.Flags().GetString("week")

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	weeks := week.NewCalculator(loc)
	ws, err := weeks.Parse(weekArg)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := chore.NewService(store.NewChoreStore(db), store.NewUserStore(db), weeks, nil, logger.With("component", "chore"))
	n, err := svc.EnsureWeek(cmd.Context(), familyID, ws)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %d chore instances for %s (%s)\n", n, familyID, week.FormatRange(ws))
	return nil
}
