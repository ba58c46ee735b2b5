// Command packgen generates non-overlapping particle layouts from a packing
// config and writes them as a JSON layout document for the rasterizer.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/banshee-data/particle.pack/internal/version"
)

func main() {
	configPath := flag.String("config", "config/packing.defaults.json", "packing config (.json)")
	seed := flag.Uint64("seed", 0, "random seed (0 = config seed, or time-based)")
	output := flag.String("o", "-", "layout output path (- for stdout, empty to skip)")
	histogram := flag.String("hist", "", "write a radius histogram to this path (png, svg, pdf)")
	runs := flag.Int("runs", 1, "number of repeated runs; the layout holds the first, the summary pools all")
	timeout := flag.Duration("timeout", 0, "abort generation after this long (0 = no limit)")
	verbose := flag.Bool("v", false, "verbose diagnostics")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("packgen", version.String())
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	start := time.Now()
	err := run(ctx, options{
		configPath: *configPath,
		seed:       *seed,
		output:     *output,
		histogram:  *histogram,
		runs:       *runs,
		verbose:    *verbose,
	}, os.Stdout, os.Stderr)
	if err != nil {
		log.Fatalf("packgen: %v", err)
	}
	log.Printf("✓ Done in %s", time.Since(start).Round(time.Millisecond))
}
