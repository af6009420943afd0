package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"wrapped/internal/core/timekeeper"
	"wrapped/internal/ui/term"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
)

var (
	termRows    int
	termLogFile string
)

var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Play the slideshow in the terminal",
	Long: `Play the slideshow in the terminal, drawing the progress ring with
text cells.

Keys:
  space      pause or resume
  n, →       next slide
  p, ←       previous slide
  q, Esc     quit

Log lines would corrupt the screen, so they are dropped unless --log-file is set.`,
	Args: cobra.NoArgs,
	RunE: runTerm,
}

func init() {
	termCmd.Flags().IntVar(&termRows, "rows", 9, "Height of the ring in terminal rows")
	termCmd.Flags().StringVar(&termLogFile, "log-file", "", "Append log lines to this file")
	rootCmd.AddCommand(termCmd)
}

func runTerm(cmd *cobra.Command, args []string) error {
	output, closeLog, err := termLogOutput(termLogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	logger, err := rootOptions.setupLogging(output)
	if err != nil {
		return err
	}
	settings, _, err := rootOptions.loadSettings(logger)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal screen: %w", err)
	}
	defer screen.Fini()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	keeper := timekeeper.New(settings.DriverConfig(), timekeeper.Config{})
	view := term.New(screen, keeper, settings.DriverConfig(), term.Options{
		Rows:   termRows,
		Ring:   settings.RingConfig(),
		Logger: logger,
	})

	if err := view.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func termLogOutput(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(io.Discard, "", 0), func() {}, nil
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return log.New(file, "", log.LstdFlags), func() { _ = file.Close() }, nil
}
