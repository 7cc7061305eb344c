package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/big"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/ruteri/shamir-reconstruct/api"
	"github.com/ruteri/shamir-reconstruct/api/clients"
	"github.com/ruteri/shamir-reconstruct/cmd/flags"
	"github.com/ruteri/shamir-reconstruct/interfaces"
	"github.com/ruteri/shamir-reconstruct/sharefile"
	"github.com/ruteri/shamir-reconstruct/split"
	"github.com/ruteri/shamir-reconstruct/storage"
	"github.com/urfave/cli/v2"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var flagInput = &cli.StringFlag{
	Name:    "input",
	Aliases: []string{"i"},
	Value:   "-",
	Usage:   "share payload file, - for stdin",
}
var flagPayloadID = &cli.StringFlag{
	Name:  "payload-id",
	Usage: "hex content id of an archived payload, read from --storage instead of --input",
}
var flagOutput = &cli.StringFlag{
	Name:  "output",
	Value: "text",
	Usage: "text (secret and outlier lines) or json",
}
var flagDecimalPlaces = &cli.IntFlag{
	Name:  "decimal-places",
	Value: api.DefaultDecimalPlaces,
	Usage: "precision of the decimal rendering of fractional secrets in json output",
}
var flagSaveReport = &cli.BoolFlag{
	Name:  "save-report",
	Usage: "archive the payload and the json report in --storage",
}
var flagServer = &cli.StringFlag{
	Name:    "server",
	Usage:   "reconstruct on a remote service instead of locally, e.g. http://127.0.0.1:8080",
	EnvVars: []string{"SHAMIR_SERVER"},
}

var flagSecret = &cli.StringFlag{
	Name:     "secret",
	Required: true,
	Usage:    "non-negative decimal integer to split",
}
var flagTotal = &cli.IntFlag{
	Name:    "total",
	Aliases: []string{"n"},
	Value:   5,
	Usage:   "number of shares",
}
var flagThreshold = &cli.IntFlag{
	Name:    "threshold",
	Aliases: []string{"k"},
	Value:   3,
	Usage:   "shares needed to reconstruct",
}
var flagBase = &cli.IntFlag{
	Name:  "base",
	Value: 10,
	Usage: "numeric base for share values (2-36)",
}
var flagCorrupt = &cli.IntFlag{
	Name:  "corrupt",
	Value: -1,
	Usage: "zero-based index of a share to corrupt, -1 for none",
}
var flagCorruptDelta = &cli.Int64Flag{
	Name:  "corrupt-delta",
	Value: 1,
	Usage: "amount added to the corrupted share",
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:           "shamir",
		Usage:          "Recover a Shamir secret from shares that may contain one bad share",
		Flags:          flags.LogFlags,
		DefaultCommand: "recover",
		Commands: []*cli.Command{
			{
				Name:  "recover",
				Usage: "reconstruct the secret and report the inconsistent share",
				Flags: append([]cli.Flag{
					flagInput,
					flagPayloadID,
					flags.StorageFlag,
					flagOutput,
					flagDecimalPlaces,
					flagSaveReport,
					flagServer,
				}, flags.ReconstructFlags...),
				Action: runRecover,
			},
			{
				Name:  "split",
				Usage: "generate a share payload for a secret",
				Flags: []cli.Flag{
					flagSecret,
					flagTotal,
					flagThreshold,
					flagBase,
					flagCorrupt,
					flagCorruptDelta,
					flags.StorageFlag,
				},
				Action: runSplit,
			},
			{
				Name:  "store",
				Usage: "archive a share payload and print its content id",
				Flags: []cli.Flag{
					flagInput,
					flags.StorageFlag,
				},
				Action: runStore,
			},
		},
	}
}

func runRecover(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx)

	output := cCtx.String(flagOutput.Name)
	if output != "text" && output != "json" {
		return fmt.Errorf("unknown output format %q", output)
	}

	var (
		archive interfaces.StorageBackend
		err     error
	)
	if len(cCtx.StringSlice(flags.StorageFlag.Name)) > 0 {
		archive, err = openArchive(cCtx, logger)
		if err != nil {
			return err
		}
		defer closeArchive(archive)
	}

	var resp *api.ReconstructResponse
	if server := cCtx.String(flagServer.Name); server != "" {
		resp, err = recoverRemote(cCtx, server)
	} else {
		resp, err = recoverLocal(cCtx, logger, archive)
	}
	if err != nil {
		return err
	}

	if output == "json" {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cCtx.App.Writer, string(data))
		return err
	}

	_, err = io.WriteString(cCtx.App.Writer, resp.Text())
	return err
}

func recoverLocal(cCtx *cli.Context, logger *slog.Logger, archive interfaces.StorageBackend) (*api.ReconstructResponse, error) {
	ctx := cCtx.Context

	var (
		data []byte
		err  error
	)
	if rawID := cCtx.String(flagPayloadID.Name); rawID != "" {
		if archive == nil {
			return nil, errors.New("--payload-id needs --storage")
		}
		id, err := interfaces.NewContentIDFromHex(rawID)
		if err != nil {
			return nil, err
		}
		data, err = archive.Fetch(ctx, id, interfaces.PayloadType)
		if err != nil {
			return nil, fmt.Errorf("could not fetch payload %s: %w", id.Short(), err)
		}
	} else {
		data, err = readInput(cCtx)
		if err != nil {
			return nil, err
		}
	}

	payload, err := sharefile.Decode(data)
	if err != nil {
		return nil, err
	}
	if payload.N != len(payload.Shares) {
		logger.Warn("Declared share count differs from payload",
			slog.Int("declared", payload.N),
			slog.Int("actual", len(payload.Shares)))
	}

	res, err := flags.ConfigureReconstructor(cCtx, logger).Reconstruct(ctx, payload.Shares, payload.K)
	if err != nil {
		return nil, err
	}
	resp := api.NewReconstructResponse(res, payload.Shares, payload.K, int32(cCtx.Int(flagDecimalPlaces.Name)))

	if cCtx.Bool(flagSaveReport.Name) {
		if archive == nil {
			return nil, errors.New("--save-report needs --storage")
		}
		if err := saveReport(ctx, archive, data, resp); err != nil {
			return nil, err
		}
		logger.Info("Archived reconstruction", slog.String("payload_id", resp.PayloadID))
	}

	return resp, nil
}

func recoverRemote(cCtx *cli.Context, server string) (*api.ReconstructResponse, error) {
	client := clients.NewReconstructClient(server)
	client.DecimalPlaces = cCtx.Int(flagDecimalPlaces.Name)

	if rawID := cCtx.String(flagPayloadID.Name); rawID != "" {
		id, err := interfaces.NewContentIDFromHex(rawID)
		if err != nil {
			return nil, err
		}
		return client.ReconstructArchivedContext(cCtx.Context, id)
	}

	data, err := readInput(cCtx)
	if err != nil {
		return nil, err
	}
	return client.ReconstructContext(cCtx.Context, data)
}

func saveReport(ctx context.Context, archive interfaces.StorageBackend, payload []byte, resp *api.ReconstructResponse) error {
	id, err := archive.Store(ctx, payload, interfaces.PayloadType)
	if err != nil {
		return fmt.Errorf("could not archive payload: %w", err)
	}
	resp.PayloadID = id.String()

	report, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if _, err := archive.Store(ctx, report, interfaces.ReportType); err != nil {
		return fmt.Errorf("could not archive report: %w", err)
	}
	return nil
}

func runSplit(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx)

	secret, ok := new(big.Int).SetString(cCtx.String(flagSecret.Name), 10)
	if !ok {
		return fmt.Errorf("secret %q is not a decimal integer", cCtx.String(flagSecret.Name))
	}

	payload, err := split.Split(secret, cCtx.Int(flagTotal.Name), cCtx.Int(flagThreshold.Name), nil)
	if err != nil {
		return err
	}

	base := cCtx.Int(flagBase.Name)
	for i := range payload.Bases {
		payload.Bases[i] = base
	}

	if idx := cCtx.Int(flagCorrupt.Name); idx >= 0 {
		if err := split.Corrupt(payload, idx, big.NewInt(cCtx.Int64(flagCorruptDelta.Name))); err != nil {
			return err
		}
		logger.Info("Corrupted share", slog.String("label", payload.Shares[idx].Label.String()))
	}

	data, err := sharefile.Encode(payload)
	if err != nil {
		return err
	}

	if len(cCtx.StringSlice(flags.StorageFlag.Name)) > 0 {
		archive, err := openArchive(cCtx, logger)
		if err != nil {
			return err
		}
		defer closeArchive(archive)

		id, err := archive.Store(cCtx.Context, data, interfaces.PayloadType)
		if err != nil {
			return err
		}
		logger.Info("Archived payload", slog.String("payload_id", id.String()))
	}

	_, err = fmt.Fprintln(cCtx.App.Writer, string(data))
	return err
}

func runStore(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx)

	data, err := readInput(cCtx)
	if err != nil {
		return err
	}
	if _, err := sharefile.Decode(data); err != nil {
		return err
	}

	archive, err := openArchive(cCtx, logger)
	if err != nil {
		return err
	}
	defer closeArchive(archive)

	id, err := archive.Store(cCtx.Context, data, interfaces.PayloadType)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cCtx.App.Writer, id.String())
	return err
}

func openArchive(cCtx *cli.Context, logger *slog.Logger) (interfaces.StorageBackend, error) {
	uris := cCtx.StringSlice(flags.StorageFlag.Name)
	if len(uris) == 0 {
		return nil, errors.New("no --storage location given")
	}

	locations, err := storage.ParseLocations(uris)
	if err != nil {
		return nil, err
	}
	return storage.NewStorageBackendFactory(logger).CreateMultiBackend(locations)
}

func closeArchive(archive interfaces.StorageBackend) {
	if c, ok := archive.(io.Closer); ok {
		c.Close()
	}
}

func readInput(cCtx *cli.Context) ([]byte, error) {
	path := cCtx.String(flagInput.Name)
	if path == "-" {
		return io.ReadAll(cCtx.App.Reader)
	}
	return os.ReadFile(path)
}
