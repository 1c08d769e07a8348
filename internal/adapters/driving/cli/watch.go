package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kit-sdq/Ecore2OWL/internal/adapters/driving/watch"
)

var (
	watchOpts        transformFlags
	watchDebounce    time.Duration
	watchMinInterval time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [model...]",
	Short: "Re-run a transformation whenever an input changes",
	Long: `Runs the transformation once, then again every time one of the
meta-model or model files changes, until interrupted.

Changes are debounced (watch.debounce_ms, or --debounce) so that an editor
saving several files triggers a single run. A failed run is reported and
watching continues.

Example:
  ecore2owl watch -m library.ecore --model library.xmi -o library.ttl`,
	RunE: runWatch,
}

func init() {
	addTransformFlags(watchCmd, &watchOpts)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "quiet period before a re-run (default from settings)")
	watchCmd.Flags().DurationVar(&watchMinInterval, "min-interval", 0, "minimum time between two runs")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if transformService == nil {
		return errTransformNotConfigured
	}

	req := watchOpts.request(cmd, args)
	if req.Output == "" {
		return errors.New("watch needs --output")
	}
	if err := req.Validate(); err != nil {
		return err
	}

	debounce := watchDebounce
	if !cmd.Flags().Changed("debounce") && settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		debounce = time.Duration(settings.Watch.DebounceMillis) * time.Millisecond
	}

	out := cmd.OutOrStdout()
	run := func(ctx context.Context) error {
		report, err := transformService.Transform(ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprint(out, renderSummary(report))
		return nil
	}

	w, err := watch.New(append(append([]string{}, req.MetaModels...), req.Models...), run, watch.Options{
		Debounce:    debounce,
		MinInterval: watchMinInterval,
		OnRun: func(error) {
			cmd.Println("Waiting for changes...")
		},
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %d file(s), press Ctrl+C to stop\n", len(req.MetaModels)+len(req.Models))
	return w.Run(ctx)
}
