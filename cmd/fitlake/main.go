package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/2beens/fitlake/internal/syncer"
	"github.com/2beens/fitlake/internal/workouts"
)

var (
	flagEnv        string
	flagConfigPath string
	flagLight      bool
	flagDays       int
	flagOutPath    string
)

func main() {
	setupCLILogging()

	rootCmd := &cobra.Command{
		Use:           "fitlake",
		Short:         "fitlake pulls workouts, activities and daily stats from fitness platforms into postgres",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			_ = godotenv.Load()
		},
	}
	rootCmd.PersistentFlags().StringVar(&flagEnv, "env", "development", "environment [prod | production | dev | development]")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "./config.toml", "path for the TOML config file")

	rootCmd.AddCommand(
		hevyCmd(),
		stravaCmd(),
		garminCmd(),
		schemaCmd(),
		exportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func hevyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hevy",
		Short: "hevy strength workouts",
	}
	cmd.AddCommand(
		syncCmd("hevy"),
		workoutCmd(),
		musclesCmd(),
		recoveryCmd(),
	)
	return cmd
}

func stravaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strava",
		Short: "strava cardio activities",
	}
	cmd.AddCommand(
		syncCmd("strava"),
		activityStatsCmd("strava"),
	)
	return cmd
}

func garminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "garmin",
		Short: "garmin activities and daily health stats",
	}
	cmd.AddCommand(
		syncCmd("garmin"),
		dailyStatsCmd(),
	)
	return cmd
}

func syncCmd(platform string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: fmt.Sprintf("sync %s records into the local database", platform),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), flagEnv, flagConfigPath)
			if err != nil {
				return err
			}
			defer a.close()

			full := !flagLight
			var result syncer.SyncResult
			switch platform {
			case "hevy":
				result, err = a.syncer.SyncHevy(cmd.Context(), full)
			case "strava":
				result, err = a.syncer.SyncStrava(cmd.Context(), full)
			case "garmin":
				result, err = a.syncer.SyncGarmin(cmd.Context(), full)
			}
			if err != nil {
				return fmt.Errorf("sync %s: %w", platform, err)
			}

			fmt.Printf("synced: %d, skipped: %d\n", result.Synced, result.Skipped)
			return nil
		},
	}
	cmd.Flags().BoolVar(&flagLight, "light", false, "sync only records newer than the stored cursor")
	return cmd
}

func workoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "workout <id>",
		Short: "show one stored workout with all exercises and sets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid workout id: %s", args[0])
			}

			a, err := newApp(cmd.Context(), flagEnv, flagConfigPath)
			if err != nil {
				return err
			}
			defer a.close()

			workout, err := a.workoutsRepo.Get(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get workout: %w", err)
			}

			fmt.Printf("%s [%s] %s\n", workout.StartTime.Format("2006-01-02 15:04"), workout.Platform, workout.Title)
			for _, exercise := range workout.Exercises {
				fmt.Printf("  %s\n", exercise.Title)
				for _, set := range exercise.Sets {
					fmt.Printf("    set %d:%s%s\n", set.SetIndex+1, formatWeight(set.WeightKg), formatReps(set.Reps))
				}
			}
			return nil
		},
	}
}

func musclesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "muscles [workout-id]",
		Short: "muscle engagement for one workout, or distribution over the last days",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flagEnv, flagConfigPath)
			if err != nil {
				return err
			}
			defer a.close()

			var analysis *workouts.EngagementAnalysis
			if len(args) > 0 {
				id, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid workout id: %s", args[0])
				}
				analysis, err = a.analyzer.AnalyzeWorkout(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("analyze workout: %w", err)
				}
			} else {
				to := time.Now()
				analysis, err = a.analyzer.AnalyzePeriod(cmd.Context(), "hevy", to.AddDate(0, 0, -flagDays), to)
				if err != nil {
					return fmt.Errorf("analyze period: %w", err)
				}
			}

			fmt.Printf("workouts: %d, total sets: %d\n", analysis.WorkoutsAnalyzed, analysis.TotalSets)
			for _, share := range analysis.Distribution() {
				fmt.Printf("  %-20s %6.1f sets  %5.1f%%\n", share.Muscle, share.Sets, share.Percent)
			}
			if len(analysis.UnresolvedTemplates) > 0 {
				fmt.Printf("unresolved exercise templates: %v\n", analysis.UnresolvedTemplates)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&flagDays, "days", 30, "number of days to look back")
	return cmd
}

func recoveryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recovery",
		Short: "show the last recovery day and recovery day counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), flagEnv, flagConfigPath)
			if err != nil {
				return err
			}
			defer a.close()

			now := time.Now()
			lastRecoveryDay, err := a.recoveryAnalyzer.LastRecoveryDay(cmd.Context(), now)
			if errors.Is(err, workouts.ErrNoRecoveryDay) {
				fmt.Println("no recovery day found in the last year")
			} else if err != nil {
				return fmt.Errorf("last recovery day: %w", err)
			} else {
				daysSince := int(now.UTC().Truncate(24*time.Hour).Sub(lastRecoveryDay).Hours() / 24)
				fmt.Printf("last recovery day: %s (%d days ago)\n", lastRecoveryDay.Format("2006-01-02"), daysSince)
			}

			recoveryDays, recoveryDates, err := a.recoveryAnalyzer.CountRecoveryDays(cmd.Context(), now.AddDate(0, 0, -flagDays), now.AddDate(0, 0, -1))
			if err != nil {
				return fmt.Errorf("count recovery days: %w", err)
			}
			fmt.Printf("recovery days in the last %d days: %d, training days: %d\n",
				flagDays, recoveryDays, flagDays-recoveryDays)
			for _, d := range recoveryDates {
				fmt.Printf("  %s\n", d.Format("2006-01-02"))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&flagDays, "days", 30, "number of days to look back")
	return cmd
}

func activityStatsCmd(platform string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: fmt.Sprintf("show recent %s activities", platform),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), flagEnv, flagConfigPath)
			if err != nil {
				return err
			}
			defer a.close()

			to := time.Now()
			from := to.AddDate(0, 0, -flagDays)
			recentActivities, err := a.activitiesRepo.ListAll(cmd.Context(), activityParams(platform, from, to))
			if err != nil {
				return fmt.Errorf("list activities: %w", err)
			}

			for _, activity := range recentActivities {
				fmt.Printf("%s  %-20s %-16s %6.1f km  %s\n",
					activity.StartTime.Format("2006-01-02"),
					activity.Name,
					activity.ActivityType,
					activity.DistanceMeters/1000,
					(time.Duration(activity.DurationSeconds) * time.Second).String(),
				)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&flagDays, "days", 30, "number of days to look back")
	return cmd
}

func dailyStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "show daily health stats for the last days",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), flagEnv, flagConfigPath)
			if err != nil {
				return err
			}
			defer a.close()

			to := time.Now()
			stats, err := a.dailyStatsRepo.List(cmd.Context(), to.AddDate(0, 0, -flagDays), to)
			if err != nil {
				return fmt.Errorf("list daily stats: %w", err)
			}

			for _, day := range stats {
				fmt.Printf("%s  steps: %s  calories: %s  resting hr: %s  sleep: %s\n",
					day.Date.Format("2006-01-02"),
					formatInt(day.Steps),
					formatInt(day.CaloriesBurned),
					formatInt(day.RestingHeartRate),
					formatSleep(day.SleepSeconds),
				)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&flagDays, "days", 30, "number of days to look back")
	return cmd
}

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "create missing database tables and indexes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), flagEnv, flagConfigPath)
			if err != nil {
				return err
			}
			defer a.close()

			fmt.Println("schema is up to date")
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [workouts|activities|daily-stats|sleep]",
		Short: "export records as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flagEnv, flagConfigPath)
			if err != nil {
				return err
			}
			defer a.close()

			var csvBytes []byte
			switch args[0] {
			case "workouts":
				csvBytes, err = a.exporter.ExportWorkouts(cmd.Context())
			case "activities":
				csvBytes, err = a.exporter.ExportActivities(cmd.Context())
			case "daily-stats":
				csvBytes, err = a.exporter.ExportDailyStats(cmd.Context())
			case "sleep":
				csvBytes, err = a.exporter.ExportSleep(cmd.Context())
			default:
				return fmt.Errorf("unknown export entity: %s", args[0])
			}
			if err != nil {
				return fmt.Errorf("export %s: %w", args[0], err)
			}

			if flagOutPath == "" {
				fmt.Print(string(csvBytes))
				return nil
			}
			if err := os.WriteFile(flagOutPath, csvBytes, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", flagOutPath, err)
			}
			fmt.Printf("written to %s\n", flagOutPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&flagOutPath, "out", "", "output file path, stdout when empty")
	return cmd
}

func formatInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func formatSleep(seconds *int) string {
	if seconds == nil {
		return "-"
	}
	d := time.Duration(*seconds) * time.Second
	return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
}

func formatWeight(weightKg *float64) string {
	if weightKg == nil {
		return ""
	}
	return fmt.Sprintf(" %.1fkg", *weightKg)
}

func formatReps(reps *int) string {
	if reps == nil {
		return ""
	}
	return fmt.Sprintf(" x%d", *reps)
}
