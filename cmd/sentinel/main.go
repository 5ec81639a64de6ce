// SPDX-License-Identifier: MIT

// Command sentinel generates modular networks, assigns emergence
// probabilities, selects early-detection sentinels and produces training
// datasets.
//
// Usage:
//
//	sentinel [--config file.yaml] [--seed n] [--engine "cmd args"] <command>
//
// Commands: generate, assign, greedy, ga, compare, dataset. Results are
// written to stdout as JSON; logs (and metrics with --metrics) go to stderr.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "sentinel:", err)
		os.Exit(1)
	}
}
