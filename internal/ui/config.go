package ui

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fundingthecommons/impactful-events-sub003/internal/config"
	"github.com/fundingthecommons/impactful-events-sub003/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or edit configuration",
		Long: `Show the effective configuration.

The printed values merge defaults, the config file, and EVENTGRID_*
environment overrides. Use 'config init' to write a starter file and
'config edit' to change values interactively.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			printConfig(a.config)
			fmt.Printf("\nConfig file: %s\n", config.DefaultConfigPath())
			return nil
		},
	}

	cmd.AddCommand(a.configInitCmd())
	cmd.AddCommand(a.configEditCmd())
	return cmd
}

func (a *App) configInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default values",
		RunE: func(_ *cobra.Command, _ []string) error {
			path := config.DefaultConfigPath()
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config file already exists: %s", path)
			}
			if err := config.Default().SaveTo(path); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			fmt.Printf("Created %s\n", path)
			return nil
		},
	}
}

func (a *App) configEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration interactively",
		RunE: func(_ *cobra.Command, _ []string) error {
			path := config.DefaultConfigPath()
			cfg, err := config.LoadFrom(path)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			printConfig(cfg)
			if !promptYesNo("\nEdit these values?") {
				return nil
			}

			reader := bufio.NewReader(os.Stdin)

			cfg.Venue.Name = promptValue(reader, "Venue name", cfg.Venue.Name)
			cfg.Venue.Timezone = promptValue(reader, "Timezone (IANA name)", cfg.Venue.Timezone)
			cfg.Venue.DayStart = promptValue(reader, "Day start", cfg.Venue.DayStart)
			cfg.Venue.DayEnd = promptValue(reader, "Day end", cfg.Venue.DayEnd)
			cfg.Schedule.SlotMinutes = promptInt(reader, "Slot minutes", cfg.Schedule.SlotMinutes)
			cfg.Schedule.MaxSlotsPerDay = promptInt(reader, "Max slots per day", cfg.Schedule.MaxSlotsPerDay)
			cfg.Schedule.DragThreshold = promptInt(reader, "Drag threshold (cells)", cfg.Schedule.DragThreshold)
			cfg.Storage.DBPath = promptValue(reader, "Database path", cfg.Storage.DBPath)
			cfg.UI.Theme = promptTheme(reader, cfg.UI.Theme)

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			if err := cfg.SaveTo(path); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}

			fmt.Println("\nConfiguration saved.")
			return nil
		},
	}
}

func printConfig(cfg *config.Config) {
	fmt.Println("[venue]")
	fmt.Printf("  name              = %s\n", cfg.Venue.Name)
	fmt.Printf("  timezone          = %s\n", cfg.Venue.Timezone)
	fmt.Printf("  day_start         = %s\n", cfg.Venue.DayStart)
	fmt.Printf("  day_end           = %s\n", cfg.Venue.DayEnd)
	fmt.Println("\n[schedule]")
	fmt.Printf("  slot_minutes      = %d\n", cfg.Schedule.SlotMinutes)
	fmt.Printf("  max_slots_per_day = %d\n", cfg.Schedule.MaxSlotsPerDay)
	fmt.Printf("  drag_threshold    = %d\n", cfg.Schedule.DragThreshold)
	fmt.Println("\n[storage]")
	fmt.Printf("  db_path           = %s\n", cfg.Storage.DBPath)
	fmt.Println("\n[ui]")
	fmt.Printf("  theme             = %s\n", cfg.UI.Theme)
}

func promptYesNo(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Printf("  %s: ", label)
	} else {
		fmt.Printf("  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(reader *bufio.Reader, label string, current int) int {
	for {
		input := promptValue(reader, label, strconv.Itoa(current))
		value, err := strconv.Atoi(input)
		if err != nil {
			fmt.Printf("  Not a number: %q\n", input)
			continue
		}
		return value
	}
}

func promptTheme(reader *bufio.Reader, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Printf("  Invalid theme %q. Available: %s\n", value, options)
	}
}
