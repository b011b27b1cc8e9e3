package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jskopek/shellviz"
	"github.com/jskopek/shellviz/modules/platform/config"
	"github.com/jskopek/shellviz/modules/platform/system"
)

// runStats streams live system metrics to the viewer until interrupted:
// CPU and memory as progress bars, load averages as a rolling area
// chart, and a summary card.
func runStats(cfg *config.Config) error {
	client, err := shellviz.New(cfg)
	if err != nil {
		return err
	}
	defer client.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	fmt.Printf("Streaming system stats to %s (Ctrl-C to stop)\n", client.URL())

	for snap := range system.Watch(ctx, 2*time.Second) {
		client.Progress(snap.CPUPercent/100, shellviz.WithID("cpu"))
		client.Progress(snap.MemPercent/100, shellviz.WithID("memory"))

		client.Send([]any{map[string]any{
			"time":   snap.Taken.Format("15:04:05"),
			"load1":  snap.LoadAvg1,
			"load5":  snap.LoadAvg5,
			"load15": snap.LoadAvg15,
		}}, shellviz.WithID("load"), shellviz.WithView("area"), shellviz.WithAppend())

		client.Card(map[string]any{
			"CPUs":       snap.NumCPU,
			"CPU %":      fmt.Sprintf("%.1f", snap.CPUPercent),
			"Mem used":   fmt.Sprintf("%.1f / %.1f GB", snap.MemUsedGB, snap.MemTotalGB),
			"Load (1m)":  fmt.Sprintf("%.2f", snap.LoadAvg1),
			"Load (15m)": fmt.Sprintf("%.2f", snap.LoadAvg15),
		}, shellviz.WithID("system"))
	}

	return nil
}
