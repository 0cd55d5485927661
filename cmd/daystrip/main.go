package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"daystrip/internal/config"
	"daystrip/internal/logging"
	"daystrip/internal/storage"
	"daystrip/internal/strip"
	"daystrip/internal/ui"
)

//nolint:gochecknoglobals // Cobra flag bindings.
var (
	configPath string
	verbose    bool
	showDate   string
	showSeek   string
	showWidth  int
	addDue     string

	rootCmd = &cobra.Command{
		Use:           "daystrip",
		Short:         "A scrollable strip of days with the tasks due on each",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runInteractive,
	}

	showCmd = &cobra.Command{
		Use:   "show",
		Short: "Print the strip around a date and exit",
		Args:  cobra.NoArgs,
		RunE:  runShow,
	}

	addCmd = &cobra.Command{
		Use:   "add TITLE",
		Short: "Add a task due on a day",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAdd,
	}

	doneCmd = &cobra.Command{
		Use:   "done ID",
		Short: "Mark a task done",
		Args:  cobra.ExactArgs(1),
		RunE:  runDone,
	}
)

//nolint:gochecknoinits // Cobra command wiring.
func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.ResolveConfigPath(), "Path to config.toml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	showCmd.Flags().StringVar(&showDate, "date", "", "Center the strip on this day (YYYY-MM-DD), default today")
	showCmd.Flags().StringVar(&showSeek, "seek", "", "Seek to this day (YYYY-MM-DD) after mounting")
	showCmd.Flags().IntVar(&showWidth, "width", 80, "Output width in columns")

	addCmd.Flags().StringVar(&addDue, "due", "", "Due day (YYYY-MM-DD), default today")

	rootCmd.AddCommand(showCmd, addCmd, doneCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads config, configures logging and opens the task store.
func setup() (config.Config, *storage.Store, func(), error) {
	path, err := homedir.Expand(configPath)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("config path: %w", err)
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("load config: %w", err)
	}
	closeLog, err := logging.Setup(cfg.LogFile, verbose)
	if err != nil {
		return cfg, nil, nil, err
	}
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		closeLog()
		return cfg, nil, nil, fmt.Errorf("open database: %w", err)
	}
	logrus.WithFields(logrus.Fields{"config": path, "db": cfg.DBPath}).Debug("started")
	return cfg, store, func() {
		store.Close()
		closeLog()
	}, nil
}

func runInteractive(_ *cobra.Command, _ []string) error {
	cfg, store, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	// The TUI owns the terminal; without a log file, stay quiet.
	if cfg.LogFile == "" {
		restore := logging.Silence()
		defer restore()
	}
	return ui.Run(store, cfg, logrus.StandardLogger())
}

func runShow(cmd *cobra.Command, _ []string) error {
	cfg, store, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	var opts []strip.Option
	if showDate != "" {
		center, err := parseDay(showDate)
		if err != nil {
			return fmt.Errorf("--date: %w", err)
		}
		opts = append(opts, strip.WithCenter(center))
	}
	m, err := ui.NewModel(store, cfg, time.Now, logrus.StandardLogger(), opts...)
	if err != nil {
		return err
	}
	m.SetWidth(showWidth)
	if showSeek != "" {
		target, err := parseDay(showSeek)
		if err != nil {
			return fmt.Errorf("--seek: %w", err)
		}
		if err := m.SeekToDate(target); err != nil {
			return err
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), m.Snapshot())
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	due := time.Now()
	if addDue != "" {
		d, err := parseDay(addDue)
		if err != nil {
			return fmt.Errorf("--due: %w", err)
		}
		due = d
	}
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return errors.New("title cannot be empty")
	}

	_, store, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	id, err := store.AddTask(title, due)
	if err != nil {
		return fmt.Errorf("save failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added task #%d due %s\n", id, due.Format(storage.DayLayout))
	return nil
}

func runDone(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("task id %q: %w", args[0], err)
	}
	_, store, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := store.SetDone(id, true); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Task #%d done\n", id)
	return nil
}

func parseDay(v string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, strings.TrimSpace(v), time.Local)
}
