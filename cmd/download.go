package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/brogergvhs/revimg/internal/config"
	"github.com/brogergvhs/revimg/internal/downloader"
	"github.com/brogergvhs/revimg/internal/ui"
	"github.com/brogergvhs/revimg/internal/util"
	"github.com/brogergvhs/revimg/internal/validate"

	"github.com/spf13/cobra"
)

func init() {
	downloadCmd := &cobra.Command{
		Use:   "download <urls-file>",
		Short: "Download every URL listed in a file (one per line), e.g. a previous search --output",
		Args:  cobra.ExactArgs(1),
		RunE:  runDownload,
	}

	addDownloadFlags(downloadCmd)

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, usedPath, err := config.LoadMerged(config.Options{
		IgnoreConfig: flagIgnoreConfig,
		Debug:        flagDebug,
		DownloadsDir: flagDownloadsDir,
		UserAgent:    flagUserAgent,
		CFBypass:     flagCFBypass,
	})
	if err != nil {
		return err
	}

	logSvc := ui.NewLogger(cfg.Debug)
	defer logSvc.Sync()
	logSvc.Debugf("Config file: %s", usedPath)

	if err := util.RequireDir(cfg.DownloadsDir); err != nil {
		return fmt.Errorf("downloads folder: %w", err)
	}

	lines, err := util.ReadLines(args[0])
	if err != nil {
		return fmt.Errorf("cannot read URL list: %w", err)
	}

	urls := make([]string, 0, len(lines))
	for _, l := range lines {
		if !validate.IsURL(l) {
			logSvc.Warnf("Skipping invalid URL: %s", l)
			continue
		}
		urls = append(urls, l)
	}

	if len(urls) == 0 {
		logSvc.Infof("No images to download")
		return nil
	}

	ctx, cancel := util.InterruptContext(cmd.Context())
	defer cancel()

	return downloadAll(ctx, cmd, cfg, logSvc, urls, time.Now())
}

func downloadAll(ctx context.Context, cmd *cobra.Command, cfg *config.Config, log *ui.Logger, urls []string, start time.Time) error {
	client := util.NewHTTPClient(util.HTTPClientOptions{
		Timeout:     cfg.HTTPTimeout,
		UserAgent:   util.PickUserAgent(cfg.UserAgent),
		CFBypass:    cfg.CFBypass,
		DebugLogger: log,
	})

	pm := ui.NewProgressManager(cmd.ErrOrStderr())
	handle := pm.Register("Downloading")

	dl := downloader.New(client, log, cfg.DownloadsDir)
	res := dl.Download(ctx, urls, handle)
	pm.Close()

	stats := &ui.Stats{}
	stats.Found.Store(int64(len(urls)))
	stats.Downloaded.Store(int64(res.Downloaded))
	stats.Skipped.Store(int64(len(res.Skipped)))
	stats.TotalBytes.Store(res.Bytes)

	stats.Print(cmd.ErrOrStderr(), time.Since(start))

	return ctx.Err()
}
