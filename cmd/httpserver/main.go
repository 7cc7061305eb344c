package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ruteri/shamir-reconstruct/cmd/flags"
	"github.com/ruteri/shamir-reconstruct/common"
	"github.com/ruteri/shamir-reconstruct/httpserver"
	"github.com/ruteri/shamir-reconstruct/interfaces"
	"github.com/ruteri/shamir-reconstruct/metrics"
	"github.com/ruteri/shamir-reconstruct/storage"
	"github.com/urfave/cli/v2"
)

var flagCacheSize = &cli.IntFlag{
	Name:    "cache-size",
	Value:   1024,
	Usage:   "number of archived payload results to cache, 0 to disable",
	EnvVars: []string{"SHAMIR_CACHE_SIZE"},
}
var flagMaxShares = &cli.IntFlag{
	Name:    "max-shares",
	Value:   64,
	Usage:   "reject payloads with more shares, 0 for no limit",
	EnvVars: []string{"SHAMIR_MAX_SHARES"},
}
var flagArchiveRequests = &cli.BoolFlag{
	Name:    "archive-requests",
	Usage:   "store posted payloads and all reports in --storage",
	EnvVars: []string{"SHAMIR_ARCHIVE_REQUESTS"},
}

func main() {
	cliFlags := append([]cli.Flag{}, flags.LogFlags...)
	cliFlags = append(cliFlags, flags.ServerFlags...)
	cliFlags = append(cliFlags, flags.ReconstructFlags...)
	cliFlags = append(cliFlags, flags.StorageFlag, flagCacheSize, flagMaxShares, flagArchiveRequests)

	app := &cli.App{
		Name:   "httpserver",
		Usage:  "Serve fault-tolerant Shamir secret reconstruction",
		Flags:  cliFlags,
		Action: runServer,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runServer(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx)

	var archive interfaces.StorageBackend
	if uris := cCtx.StringSlice(flags.StorageFlag.Name); len(uris) > 0 {
		locations, err := storage.ParseLocations(uris)
		if err != nil {
			logger.Error("Invalid storage location", "err", err)
			return err
		}
		multi, err := storage.NewStorageBackendFactory(logger).CreateMultiBackend(locations)
		if err != nil {
			logger.Error("Failed to create archive", "err", err)
			return err
		}
		defer multi.(*storage.MultiStorageBackend).Close()
		archive = multi
		logger.Info("Archive configured", "location", archive.LocationURI())
	}

	registry := metrics.NewRegistry()
	recorder, err := metrics.NewRecorder(common.PackageName, registry)
	if err != nil {
		return err
	}

	handler, err := httpserver.NewHandler(httpserver.HandlerConfig{
		Reconstructor:   flags.ConfigureReconstructor(cCtx, logger),
		Storage:         archive,
		ArchiveRequests: cCtx.Bool(flagArchiveRequests.Name),
		MaxShares:       cCtx.Int(flagMaxShares.Name),
		CacheSize:       cCtx.Int(flagCacheSize.Name),
		Metrics:         recorder,
		Log:             logger,
	})
	if err != nil {
		logger.Error("Failed to create handler", "err", err)
		return err
	}

	server := httpserver.New(flags.ConfigureServer(cCtx, logger), handler, registry)
	server.RunInBackground()

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt, syscall.SIGTERM)
	<-exit
	logger.Info("Shutdown signal received")

	server.Shutdown()
	return nil
}
