// Command unrolled replays the reference unrolled list scenario, optionally runs a concurrent
// stress workload, and prints the resulting chain and metrics.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/a-peyrard/unrolled"
	"github.com/a-peyrard/unrolled/config"
	"github.com/a-peyrard/unrolled/stress"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/rs/zerolog"
)

func main() {
	os.Exit(execute())
}

func execute() int {
	settings, err := config.Load[Settings](config.WithEnvPrefix(envPrefix))
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to load settings: %v\n", err)
		return 1
	}
	logger, err := newLogger(os.Stderr, settings.LogLevel)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, settings, logger, os.Stdout); err != nil {
		logger.Error().Err(err).Msg("run failed")
		return 1
	}
	return 0
}

func run(ctx context.Context, settings *Settings, logger *zerolog.Logger, out io.Writer) error {
	reg := prometheus.NewRegistry()
	metrics := unrolled.NewMetrics(reg)

	if err := replayScenario(settings.Capacity, logger, metrics, out); err != nil {
		return err
	}

	if settings.StressWorkers > 0 {
		list, err := unrolled.New[int](settings.Capacity, unrolled.WithLogger(logger), unrolled.WithMetrics(metrics))
		if err != nil {
			return err
		}
		defer list.Destroy()

		workload := stress.Workload{
			Appenders:  settings.StressWorkers,
			Readers:    settings.StressWorkers,
			Removers:   settings.StressWorkers,
			Operations: settings.StressOperations,
		}
		report, err := stress.Run(ctx, list, workload, logger)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "stress: appended=%d read=%d removed=%d missed=%d length=%d segments=%d\n",
			report.Appended, report.Read, report.Removed, report.Missed, report.Length, report.Segments)
	}

	if settings.Metrics {
		return writeMetrics(reg, out)
	}
	return nil
}

// replayScenario builds the chain [1 2 3 4] [5] [10 11 12] through the public operations,
// appends 13 and 14, removes the element at index 4, which collapses the [5] segment, then
// prints the chain and the removed element.
func replayScenario(capacity int, logger *zerolog.Logger, metrics *unrolled.Metrics, out io.Writer) error {
	list, err := unrolled.New[int](capacity, unrolled.WithLogger(logger), unrolled.WithMetrics(metrics))
	if err != nil {
		return err
	}
	defer list.Destroy()

	if err := appendAll(list, 1, 2, 3, 4, 5, 6, 7, 8, 10, 11, 12); err != nil {
		return err
	}
	// with a capacity of 4, leaves [5] alone in the second segment
	for i := 0; i < 3; i++ {
		if _, found := list.Remove(5); !found {
			return fmt.Errorf("index 5 not found in a list of %d elements", list.Len())
		}
	}
	if err := appendAll(list, 13, 14); err != nil {
		return err
	}

	removed, found := list.Remove(4)
	if !found {
		return fmt.Errorf("index 4 not found in a list of %d elements", list.Len())
	}
	if err := list.Dump(out); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%d\n", removed)
	return err
}

func appendAll(list *unrolled.List[int], values ...int) error {
	for _, v := range values {
		if err := list.Append(v); err != nil {
			return fmt.Errorf("failed to append %d: %w", v, err)
		}
	}
	return nil
}

func writeMetrics(reg *prometheus.Registry, out io.Writer) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	encoder := expfmt.NewEncoder(out, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, family := range families {
		if err := encoder.Encode(family); err != nil {
			return fmt.Errorf("failed to encode metric %s: %w", family.GetName(), err)
		}
	}
	return nil
}
