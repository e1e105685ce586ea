// assetconv renders batches of SVG files to PNG.
//
// Usage:
//
//	assetconv [workers] [input|-]
//
// Task definitions are read one per line, "input.svg;output.png;size",
// from the given file or from stdin. Outputs are written as square
// size×size PNG files, and a per-directory cache.txt index prevents
// reprocessing inputs already rendered into the same directory.
package main

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/mkarpenko/assetconv/internal/config"
	"github.com/mkarpenko/assetconv/internal/dedup"
	"github.com/mkarpenko/assetconv/internal/processor"
	"github.com/mkarpenko/assetconv/internal/render"
	"github.com/mkarpenko/assetconv/internal/runner"
	filestorage "github.com/mkarpenko/assetconv/internal/storage/file"
	miniostorage "github.com/mkarpenko/assetconv/internal/storage/minio"
)

func main() {
	// Context & signals: SIGINT/SIGTERM stop the workers; tasks already
	// running are finished, tasks still queued are abandoned.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize logger and load application configuration.
	zlog.Init()
	cfg := config.MustLoad()

	// CLI arguments override the configured worker count and input.
	workers := cfg.Workers
	if len(os.Args) >= 2 {
		// Invalid counts parse to 0 and are clamped by the processor.
		workers, _ = strconv.Atoi(os.Args[1])
	}

	var input io.Reader = os.Stdin
	if len(os.Args) >= 3 && os.Args[2] != "-" {
		f, err := os.Open(os.Args[2])
		if err != nil {
			zlog.Logger.Error().Err(err).
				Str("file", os.Args[2]).
				Msg("cannot open input file, using stdin (press CTRL-D for EOF)")
		} else {
			defer f.Close()
			input = f
			zlog.Logger.Info().Str("file", os.Args[2]).Msg("reading task definitions")
		}
	} else {
		zlog.Logger.Info().Msg("using stdin (press CTRL-D for EOF)")
	}

	// Retry strategy for the S3 storage backend.
	strategy := retry.Strategy{
		Attempts: cfg.Retry.Attempts,
		Delay:    cfg.Retry.Delay,
		Backoff:  cfg.Retry.Backoff,
	}

	run := runner.New(render.NewSVGRasterizer(), render.NewPNGEncoder(), newSink(ctx, cfg, strategy))

	proc := processor.New(run, dedup.New(), workers)
	proc.Start(ctx)

	// Feed the queue until EOF or shutdown.
	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		_ = proc.Submit(line)
	}
	if err := scanner.Err(); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to read input")
	}

	// Drain: close intake and wait for every worker to finish what is
	// left in the queue.
	proc.Close()
	proc.Wait()
	zlog.Logger.Info().Msg("all workers stopped")
}

// newSink selects the output backend from configuration.
func newSink(ctx context.Context, cfg *config.Config, strategy retry.Strategy) runner.Sink {
	if cfg.Storage.Backend == "s3" {
		s, err := miniostorage.NewStorage(
			ctx,
			cfg.Storage.Endpoint,
			cfg.Storage.AccessKey,
			cfg.Storage.SecretKey,
			cfg.Storage.BucketName,
			cfg.Storage.UseSSL,
			strategy,
		)
		if err != nil {
			zlog.Logger.Fatal().Err(err).Msg("failed to connect to storage")
		}
		return s
	}

	return filestorage.NewStorage()
}
