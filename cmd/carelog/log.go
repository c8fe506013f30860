package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ersonp/carelog/internal/domain/entities"
	"github.com/ersonp/carelog/internal/domain/services"
)

// logFlags are shared by every log subcommand.
type logFlags struct {
	at   string
	end  string
	note string
}

func (f *logFlags) register(cmd *cobra.Command, timed bool) {
	cmd.Flags().StringVar(&f.at, "at", "", "When it happened or started (20m, 14:05, 2006-01-02 15:04; default now)")
	cmd.Flags().StringVarP(&f.note, "note", "n", "", "Free-text note")
	if timed {
		cmd.Flags().StringVar(&f.end, "end", "", "When it ended (leave unset to start a session and 'carelog stop' it later)")
	}
}

func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a new entry",
	}

	cmd.AddCommand(
		newLogNursingCmd(),
		newLogBottleCmd(),
		newLogSleepCmd(),
		newLogPumpCmd(),
		newLogDiaperCmd(),
		newLogBathCmd(),
	)

	return cmd
}

func newLogNursingCmd() *cobra.Command {
	var flags logFlags
	var side string

	cmd := &cobra.Command{
		Use:   "nursing",
		Short: "Log a nursing feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !contains(entities.Sides, side) {
				return fmt.Errorf("invalid --side %q (valid: %s)", side, strings.Join(entities.Sides, ", "))
			}
			return runLog(cmd, flags, services.LogInput{
				Type: entities.EntryTypeFeed,
				Kind: entities.FeedKindNursing,
				Side: entities.Side(side),
			})
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVarP(&side, "side", "s", "", "Side (left, right)")
	_ = cmd.MarkFlagRequired("side")

	return cmd
}

func newLogBottleCmd() *cobra.Command {
	var flags logFlags
	var oz float64

	cmd := &cobra.Command{
		Use:   "bottle",
		Short: "Log a bottle feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := services.LogInput{
				Type: entities.EntryTypeFeed,
				Kind: entities.FeedKindBottle,
			}
			if cmd.Flags().Changed("oz") {
				in.AmountOz = &oz
			}
			return runLog(cmd, flags, in)
		},
	}

	flags.register(cmd, false)
	cmd.Flags().Float64Var(&oz, "oz", 0, "Amount in ounces")

	return cmd
}

func newLogSleepCmd() *cobra.Command {
	var flags logFlags
	var category, quality string

	cmd := &cobra.Command{
		Use:   "sleep",
		Short: "Log a sleep",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(cmd, flags, services.LogInput{
				Type:     entities.EntryTypeSleep,
				Category: entities.SleepCategory(category),
				Quality:  entities.SleepQuality(quality),
			})
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVar(&category, "category", string(entities.SleepNap), "Category (nap, night)")
	cmd.Flags().StringVarP(&quality, "quality", "q", "", "Quality (good, ok, fussy)")

	return cmd
}

func newLogPumpCmd() *cobra.Command {
	var flags logFlags
	var left, right, total float64

	cmd := &cobra.Command{
		Use:   "pump",
		Short: "Log a pumping session",
		Long:  "Logs a pumping session. The total is computed from --left and --right when not given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := services.LogInput{Type: entities.EntryTypePump}
			if cmd.Flags().Changed("left") {
				in.LeftAmountOz = &left
			}
			if cmd.Flags().Changed("right") {
				in.RightAmountOz = &right
			}
			if cmd.Flags().Changed("total") {
				in.TotalAmountOz = &total
			}
			return runLog(cmd, flags, in)
		},
	}

	flags.register(cmd, true)
	cmd.Flags().Float64Var(&left, "left", 0, "Left side amount in ounces")
	cmd.Flags().Float64Var(&right, "right", 0, "Right side amount in ounces")
	cmd.Flags().Float64Var(&total, "total", 0, "Total amount in ounces")

	return cmd
}

func newLogDiaperCmd() *cobra.Command {
	var flags logFlags
	var rash bool
	var consistency, color, volume string

	cmd := &cobra.Command{
		Use:       "diaper pee|poop|both",
		Short:     "Log a diaper change",
		Args:      cobra.ExactArgs(1),
		ValidArgs: entities.DiaperTypes,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := services.LogInput{
				Type:        entities.EntryTypeDiaper,
				DiaperType:  entities.DiaperType(args[0]),
				Consistency: entities.Consistency(consistency),
				Color:       entities.Color(color),
				Volume:      entities.Volume(volume),
			}
			if cmd.Flags().Changed("rash") {
				in.Rash = &rash
			}
			return runLog(cmd, flags, in)
		},
	}

	flags.register(cmd, false)
	cmd.Flags().BoolVar(&rash, "rash", false, "Diaper rash present")
	cmd.Flags().StringVar(&consistency, "consistency", "", "Stool consistency")
	cmd.Flags().StringVar(&color, "color", "", "Stool color")
	cmd.Flags().StringVar(&volume, "volume", "", "Stool volume")

	return cmd
}

func newLogBathCmd() *cobra.Command {
	var flags logFlags

	cmd := &cobra.Command{
		Use:       "bath sponge|full",
		Short:     "Log a bath",
		Args:      cobra.ExactArgs(1),
		ValidArgs: entities.BathTypes,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(cmd, flags, services.LogInput{
				Type:     entities.EntryTypeBath,
				BathType: entities.BathType(args[0]),
			})
		},
	}

	flags.register(cmd, false)

	return cmd
}

func runLog(cmd *cobra.Command, flags logFlags, in services.LogInput) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		createdBy, err := d.createdBy()
		if err != nil {
			return err
		}

		now := time.Now()
		started, err := parseWhen(flags.at, now, d.Location)
		if err != nil {
			return fmt.Errorf("--at: %w", err)
		}
		if flags.end != "" {
			ended, err := parseWhen(flags.end, now, d.Location)
			if err != nil {
				return fmt.Errorf("--end: %w", err)
			}
			in.EndedAt = &ended
		}

		in.Child = d.Child
		in.CreatedBy = createdBy
		in.StartedAt = started
		in.Note = flags.note
		in.Exclusive = in.Type.IsTimed()

		entry, err := d.EntryHandler.Log(ctx, in)
		if err != nil {
			return fmt.Errorf("logging entry: %w", err)
		}

		fmt.Printf("Logged %s\n", describeEntry(entry, d.Location))
		if entities.IsOpen(entry) {
			fmt.Printf("Session in progress; end it with 'carelog stop %s'\n", entry.Type())
		}
		return nil
	})
}
