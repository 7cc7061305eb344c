package flags

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ruteri/shamir-reconstruct/api"
	"github.com/ruteri/shamir-reconstruct/common"
	"github.com/ruteri/shamir-reconstruct/reconstruct"
	"github.com/urfave/cli/v2"
)

func SetupLogger(cCtx *cli.Context) (log *slog.Logger) {
	logger := common.SetupLogger(&common.LoggingOpts{
		Debug:   cCtx.Bool(LogDebugFlag.Name),
		JSON:    cCtx.Bool(LogJsonFlag.Name),
		Service: cCtx.String(LogServiceFlag.Name),
		Version: common.Version,
	})

	if cCtx.Bool(LogUidFlag.Name) {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

func ConfigureServer(cCtx *cli.Context, logger *slog.Logger) *api.HTTPServerConfig {
	return &api.HTTPServerConfig{
		ListenAddr:               cCtx.String(ListenAddrFlag.Name),
		MetricsAddr:              cCtx.String(MetricsAddrFlag.Name),
		Log:                      logger,
		EnablePprof:              cCtx.Bool(PprofFlag.Name),
		DrainDuration:            time.Duration(cCtx.Int64(DrainSecondsFlag.Name)) * time.Second,
		GracefulShutdownDuration: 30 * time.Second,
		ReadTimeout:              60 * time.Second,
		WriteTimeout:             5 * time.Minute,
	}
}

func ConfigureReconstructor(cCtx *cli.Context, logger *slog.Logger) *reconstruct.Reconstructor {
	return reconstruct.New(reconstruct.Config{
		Workers:       cCtx.Int(WorkersFlag.Name),
		MaxCandidates: cCtx.Uint64(MaxCandidatesFlag.Name),
		Log:           logger,
	})
}

var LogJsonFlag = &cli.BoolFlag{
	Name:    "log-json",
	Value:   false,
	Usage:   "log in JSON format",
	EnvVars: []string{"SHAMIR_LOG_JSON"},
}
var LogDebugFlag = &cli.BoolFlag{
	Name:    "log-debug",
	Value:   false,
	Usage:   "log debug messages",
	EnvVars: []string{"SHAMIR_LOG_DEBUG"},
}
var LogUidFlag = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}
var LogServiceFlag = &cli.StringFlag{
	Name:    "log-service",
	Value:   "shamir-reconstruct",
	Usage:   "add 'service' tag to logs",
	EnvVars: []string{"SHAMIR_LOG_SERVICE"},
}

var ListenAddrFlag = &cli.StringFlag{
	Name:    "listen-addr",
	Value:   "127.0.0.1:8080",
	Usage:   "address to listen on for API",
	EnvVars: []string{"SHAMIR_LISTEN_ADDR"},
}
var MetricsAddrFlag = &cli.StringFlag{
	Name:    "metrics-addr",
	Value:   "127.0.0.1:8090",
	Usage:   "address to listen on for Prometheus metrics, empty to disable",
	EnvVars: []string{"SHAMIR_METRICS_ADDR"},
}
var PprofFlag = &cli.BoolFlag{
	Name:  "pprof",
	Value: false,
	Usage: "enable pprof debug endpoint",
}
var DrainSecondsFlag = &cli.Int64Flag{
	Name:  "drain-seconds",
	Value: 45,
	Usage: "seconds to wait in drain HTTP request",
}

var WorkersFlag = &cli.IntFlag{
	Name:    "workers",
	Value:   1,
	Usage:   "number of candidate subsets evaluated concurrently",
	EnvVars: []string{"SHAMIR_WORKERS"},
}
var MaxCandidatesFlag = &cli.Uint64Flag{
	Name:    "max-candidates",
	Value:   1_000_000,
	Usage:   "refuse searches with more than this many k-subsets, 0 for no limit",
	EnvVars: []string{"SHAMIR_MAX_CANDIDATES"},
}

var StorageFlag = &cli.StringSliceFlag{
	Name:    "storage",
	Usage:   "archive location URI (file://, s3://, ipfs://, vault://, github://, badger://), repeatable",
	EnvVars: []string{"SHAMIR_STORAGE"},
}

var LogFlags = []cli.Flag{
	LogJsonFlag,
	LogDebugFlag,
	LogUidFlag,
	LogServiceFlag,
}

var ServerFlags = []cli.Flag{
	ListenAddrFlag,
	MetricsAddrFlag,
	PprofFlag,
	DrainSecondsFlag,
}

var ReconstructFlags = []cli.Flag{
	WorkersFlag,
	MaxCandidatesFlag,
}
