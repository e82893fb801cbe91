package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/brogergvhs/revimg/internal/browser"
	"github.com/brogergvhs/revimg/internal/config"
	"github.com/brogergvhs/revimg/internal/search"
	"github.com/brogergvhs/revimg/internal/ui"
	"github.com/brogergvhs/revimg/internal/util"
	"github.com/brogergvhs/revimg/internal/validate"

	"github.com/spf13/cobra"
)

var (
	// results
	flagOutput       string
	flagExcludeStock bool
	flagNoDownload   bool

	// browser
	flagChromePath string
	flagHeadful    bool

	// downloads
	flagDownloadsDir string
	flagUserAgent    string
	flagCFBypass     bool
)

func init() {
	searchCmd := &cobra.Command{
		Use:   "search <image_url> <n>",
		Short: "Find about n images similar to image_url, print their URLs and download them",
		Args:  cobra.ExactArgs(2),
		RunE:  runSearch,
	}

	// results
	searchCmd.Flags().StringVar(&flagOutput, "output", search.Terminal, "file to write image URLs into (\"-\" prints them)")
	searchCmd.Flags().BoolVar(&flagExcludeStock, "exclude-stock", false, "skip images hosted by stock photo sites (a value needs \"=\": --exclude-stock=true)")
	searchCmd.Flags().BoolVar(&flagNoDownload, "no-download", false, "only collect URLs, don't download")

	// browser
	searchCmd.Flags().StringVar(&flagChromePath, "chrome-path", "", "path to the Chrome/Chromium binary")
	searchCmd.Flags().BoolVar(&flagHeadful, "headful", false, "show the browser window")

	addDownloadFlags(searchCmd)

	rootCmd.AddCommand(searchCmd)
}

func addDownloadFlags(c *cobra.Command) {
	c.Flags().StringVar(&flagDownloadsDir, "downloads-dir", "", "existing folder for downloaded images (default \"downloads\")")
	c.Flags().StringVar(&flagUserAgent, "user-agent", "", "override User-Agent")
	c.Flags().BoolVar(&flagCFBypass, "cf-bypass", false, "use a Cloudflare-friendly transport for downloads")
}

// parseSearchArgs returns the image URL exactly as it will be submitted and
// the requested image count.
func parseSearchArgs(args []string) (string, int, error) {
	imageURL := strings.TrimSpace(args[0])
	if err := validate.URL(imageURL); err != nil {
		return "", 0, err
	}

	n, err := strconv.Atoi(strings.TrimSpace(args[1]))
	if err != nil || n <= 0 {
		return "", 0, fmt.Errorf("n must be a positive integer, got %q", args[1])
	}

	return imageURL, n, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	imageURL, n, err := parseSearchArgs(args)
	if err != nil {
		return err
	}

	opts := config.Options{
		IgnoreConfig: flagIgnoreConfig,
		Debug:        flagDebug,
		DownloadsDir: flagDownloadsDir,
		ExcludeStock: flagExcludeStock,
		NoDownload:   flagNoDownload,
		ChromePath:   flagChromePath,
		Headful:      flagHeadful,
		UserAgent:    flagUserAgent,
		CFBypass:     flagCFBypass,
	}
	if cmd.Flags().Changed("output") {
		opts.Output = flagOutput
	}

	cfg, usedPath, err := config.LoadMerged(opts)
	if err != nil {
		return err
	}

	logSvc := ui.NewLogger(cfg.Debug)
	defer logSvc.Sync()
	logSvc.Debugf("Config file: %s", usedPath)

	if !cfg.NoDownload {
		if err := util.RequireDir(cfg.DownloadsDir); err != nil {
			return fmt.Errorf("downloads folder: %w", err)
		}
	}

	ctx, cancel := util.InterruptContext(cmd.Context())
	defer cancel()

	start := time.Now()

	urls, err := collectURLs(ctx, cfg, logSvc, imageURL, n)
	if err != nil {
		return err
	}

	if err := search.WriteResults(cfg.Output, cmd.OutOrStdout(), urls); err != nil {
		return err
	}

	if len(urls) == 0 {
		logSvc.Infof("No images to download")
		return nil
	}
	if cfg.NoDownload {
		return nil
	}

	return downloadAll(ctx, cmd, cfg, logSvc, urls, start)
}

// collectURLs owns the browser for the duration of the search. The session
// is closed on every return path.
func collectURLs(ctx context.Context, cfg *config.Config, log *ui.Logger, imageURL string, n int) ([]string, error) {
	sess, err := browser.NewSession(ctx, browser.Options{
		ExecPath:      cfg.ChromePath,
		Headless:      cfg.Headless,
		UserAgent:     util.PickUserAgent(cfg.UserAgent),
		ActionTimeout: cfg.ActionTimeout,
		Log:           log,
	})
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	orch := search.NewOrchestrator(search.Options{
		Locator:      cfg.Locator,
		Policy:       cfg.RetryPolicy(),
		ExcludeStock: cfg.ExcludeStock,
		StockHosts:   cfg.StockHosts,
		Log:          log,
	})

	urls, err := orch.Search(ctx, sess, imageURL, n)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	log.Infof("Collected %d image URLs", len(urls))
	return urls, nil
}
