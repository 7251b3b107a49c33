package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chat2md/internal/browser"
	"chat2md/internal/config"
	"chat2md/internal/fetcher"
	"chat2md/internal/formatter"
	"chat2md/internal/output"
	"chat2md/internal/scraper"
	_ "chat2md/internal/sites/claude"
	_ "chat2md/internal/sites/gemini"
	_ "chat2md/internal/sites/generic"
	_ "chat2md/internal/sites/jules"
	_ "chat2md/internal/sites/ptt"
	_ "chat2md/internal/sites/threads"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const genericSite = "generic"

// rootOptions holds the flag values of the root command.
type rootOptions struct {
	site                string
	file                string
	outputFile          string
	outputFormat        string
	outputDir           string
	headers             []string
	waitFor             string
	waitTarget          string
	timeout             time.Duration
	showUI              bool
	proxyURL            string
	selector            string
	indent              int
	listTrailingNewline bool
	noFrontMatter       bool
	verbose             bool
}

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
	}
	os.Exit(exitCode(err))
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:     "chat2md [URL]",
		Short:   "Save AI chats and forum threads as Markdown",
		Version: scraper.Version,
		Long: `chat2md renders a chat or forum page in a headless browser, extracts the
conversation and writes it as a Markdown document with front matter.

Claude, Gemini, Jules, PTT and Threads pages are recognized by host; any other
page falls back to generic main-content extraction.`,
		Example: `  # Save a shared Gemini conversation to the current directory
  chat2md https://gemini.google.com/share/abc123

  # Convert a page saved from the browser, printing to stdout
  chat2md --site claude --file chat.html -o -

  # Show the browser and wait for a selector before extracting
  chat2md --showui -w element -T ".chat-history" https://jules.google.com/task/1

  # Any page, restricted to a CSS selector, as JSON
  chat2md -s "article" -f json https://example.com/post`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && o.file == "" {
				return cmd.Help()
			}
			return run(cmd, args, o)
		},
	}

	f := rootCmd.Flags()
	f.StringVar(&o.site, "site", "", "Site adapter to use (see 'chat2md sites'); inferred from the URL by default")
	f.StringVar(&o.file, "file", "", "Convert a saved HTML file instead of fetching ('-' reads stdin)")
	f.StringVarP(&o.outputFile, "output", "o", "", "Output file path ('-' for stdout); named after the title by default")
	f.StringVarP(&o.outputFormat, "format", "f", "markdown", "Output format (markdown, html, text, json, csv)")
	f.StringVar(&o.outputDir, "dir", "", "Directory for generated file names (default from config, else .)")
	f.StringSliceVarP(&o.headers, "header", "H", []string{}, "Extra request headers (can be used multiple times)")
	f.StringVarP(&o.waitFor, "wait-for", "w", "", "Wait strategy (load, element, time); element for known sites, load otherwise")
	f.StringVarP(&o.waitTarget, "wait-target", "T", "", "Wait target (selector for 'element', milliseconds for 'time')")
	f.DurationVarP(&o.timeout, "timeout", "t", 0, "Page load timeout (default from config, else 30s)")
	f.BoolVar(&o.showUI, "showui", false, "Show browser UI (disable headless mode)")
	f.StringVarP(&o.proxyURL, "proxy", "p", "", "Proxy URL used to retry failed fetches (default from config or CHAT2MD_PROXY)")
	f.StringVarP(&o.selector, "selector", "s", "", "CSS selector of the content for the generic adapter")
	f.IntVar(&o.indent, "indent", 0, "Spaces per nested list level (default: site specific)")
	f.BoolVar(&o.listTrailingNewline, "list-trailing-newline", false, "End every list with an extra newline")
	f.BoolVar(&o.noFrontMatter, "no-front-matter", false, "Omit the front matter header")
	rootCmd.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "Verbose logging")

	rootCmd.AddCommand(newSitesCmd(), newConvertCmd())
	return rootCmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// settings merges the config file and environment with the flags the user
// set explicitly.
func settings(cmd *cobra.Command, o *rootOptions) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	f := cmd.Flags()
	if f.Changed("dir") {
		cfg.OutputDir = o.outputDir
	}
	if f.Changed("proxy") {
		cfg.Proxy = o.proxyURL
	}
	if f.Changed("timeout") {
		cfg.Timeout = o.timeout
	}
	if f.Changed("showui") {
		cfg.ShowUI = o.showUI
	}
	if f.Changed("indent") {
		cfg.IndentWidth = o.indent
	}
	if f.Changed("list-trailing-newline") {
		cfg.ListTrailingNewline = o.listTrailingNewline
	}
	if f.Changed("no-front-matter") {
		cfg.FrontMatter = !o.noFrontMatter
	}
	return cfg, nil
}

func run(cmd *cobra.Command, args []string, o *rootOptions) error {
	logger := newLogger(cmd.ErrOrStderr(), o.verbose)

	cfg, err := settings(cmd, o)
	if err != nil {
		return err
	}
	if cfg.Path != "" {
		logger.Debug("loaded config", "path", cfg.Path)
	}

	format := o.outputFormat
	if o.outputFile != "" && o.outputFile != "-" && !cmd.Flags().Changed("format") {
		if inferred := formatter.FromExtension(o.outputFile); inferred != "" {
			format = inferred
		}
	}
	if !formatter.Valid(format) {
		return invalidInput("invalid output format: %s", format)
	}
	if cfg.IndentWidth < 0 {
		return invalidInput("--indent must be >= 0 (0 = site default)")
	}

	target := ""
	if len(args) > 0 {
		target = normalizeURL(args[0])
	}
	site, err := resolveSite(o.site, target)
	if err != nil {
		return err
	}
	logger.Debug("using site adapter", "site", site.Name())

	var page *scraper.Page
	if o.file != "" {
		page, err = readPage(cmd.InOrStdin(), o.file, target)
	} else {
		page, err = fetchPage(cmd, logger, cfg, o, site, target)
	}
	if err != nil {
		return err
	}

	doc, err := site.Extract(page, scraper.Options{
		Selector:            o.selector,
		IndentWidth:         cfg.IndentWidth,
		ListTrailingNewline: cfg.ListTrailingNewline,
		OmitHeader:          !cfg.FrontMatter,
	})
	if err != nil {
		if errors.Is(err, scraper.ErrNoTurns) {
			logger.Warn("extraction root not found; nothing written", "site", site.Name(), "url", page.URL)
		}
		return fmt.Errorf("failed to extract %s: %w", site.Name(), err)
	}
	logger.Debug("extracted document", "title", doc.Title, "sections", len(doc.Sections))

	conv := output.NewConversation(doc)
	content, err := formatter.Format(conv, format)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if o.outputFile == "-" {
		fmt.Fprintln(cmd.OutOrStdout(), content)
		return nil
	}
	dir, name := cfg.OutputDir, conv.Filename(format)
	if o.outputFile != "" {
		dir, name = filepath.Dir(o.outputFile), filepath.Base(o.outputFile)
	}
	path, err := output.Save(dir, name, content)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s (%s)\n", color.GreenString("Saved"), path, formatter.MediaType(format))
	return nil
}

// resolveSite picks the adapter named by --site, else the one serving the
// URL's host, else the generic adapter.
func resolveSite(name, target string) (scraper.Site, error) {
	if name != "" {
		s, err := scraper.Lookup(name)
		if err != nil {
			return nil, fmt.Errorf("%w (%w)", errInvalidInput, err)
		}
		return s, nil
	}
	if s, ok := scraper.ForURL(target); ok {
		return s, nil
	}
	return scraper.Lookup(genericSite)
}

func readPage(stdin io.Reader, file, pageURL string) (*scraper.Page, error) {
	r := stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to open %s: %v", errInvalidInput, file, err)
		}
		defer f.Close()
		r = f
	}
	return scraper.NewPage(r, pageURL, "")
}

func fetchPage(cmd *cobra.Command, logger *slog.Logger, cfg config.Config, o *rootOptions, site scraper.Site, target string) (*scraper.Page, error) {
	if target == "" {
		return nil, invalidInput("a URL is required unless --file is given")
	}

	waitFor := o.waitFor
	if waitFor == "" && site.Name() != genericSite {
		waitFor = string(fetcher.WaitStrategyElement)
	}
	strategy, err := fetcher.ParseWaitStrategy(waitFor)
	if err != nil {
		return nil, err
	}
	opts := fetcher.Options{
		WaitFor:       strategy,
		WaitTarget:    o.waitTarget,
		ReadySelector: site.ReadySelector(),
		Timeout:       cfg.Timeout,
		Headers:       parseHeaders(o.headers),
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := fetchWith(ctx, logger, browser.Config{Headless: !cfg.ShowUI}, target, opts)
	if err != nil && cfg.Proxy != "" && !errors.Is(err, fetcher.ErrInvalidWait) {
		logger.Warn("first attempt failed, retrying with proxy", "error", err, "proxy", cfg.Proxy)
		result, err = fetchWith(ctx, logger, browser.Config{ProxyURL: cfg.Proxy, Headless: !cfg.ShowUI}, target, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page (even with proxy): %w", err)
		}
		logger.Info("fetched with proxy", "proxy", cfg.Proxy)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	logger.Info("page rendered", "url", result.Page.URL, "load_time", result.LoadTime.Round(time.Millisecond))
	return result.Page, nil
}

func fetchWith(ctx context.Context, logger *slog.Logger, bcfg browser.Config, target string, opts fetcher.Options) (*fetcher.Result, error) {
	b, err := browser.New(bcfg)
	if err != nil {
		return nil, err
	}
	defer b.Close()
	logger.Debug("browser launched", "headless", bcfg.Headless, "proxy", b.ProxyURL())
	return fetcher.New(b, logger).Fetch(ctx, target, opts)
}

// parseHeaders parses "Key: Value" request header flags.
func parseHeaders(headerSlice []string) map[string]string {
	headersMap := make(map[string]string)
	for _, h := range headerSlice {
		parts := strings.SplitN(h, ":", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			if key != "" {
				headersMap[key] = value
			}
		}
	}
	return headersMap
}

// normalizeURL adds https:// when rawURL has no scheme.
func normalizeURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return rawURL
	}
	lower := strings.ToLower(rawURL)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return "https://" + rawURL
	}
	return rawURL
}
