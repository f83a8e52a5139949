package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/marv1nnnnn/llmmin"
	"github.com/marv1nnnnn/llmmin/compact"
	"github.com/marv1nnnnn/llmmin/crawl"
	"github.com/marv1nnnnn/llmmin/duckduckgo"
	"github.com/marv1nnnnn/llmmin/fs"
	"github.com/marv1nnnnn/llmmin/gemini"
	"github.com/marv1nnnnn/llmmin/goquery"
	"github.com/marv1nnnnn/llmmin/htmltomarkdown"
	minhttp "github.com/marv1nnnnn/llmmin/http"
	minslog "github.com/marv1nnnnn/llmmin/slog"
	"github.com/marv1nnnnn/llmmin/sqlite"
	"github.com/marv1nnnnn/llmmin/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	CheckpointService *sqlite.CheckpointService
	SourceService     *sqlite.SourceService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("llmmin"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'llmmin --help' to see available commands")
	}

	first := args[0]
	if first == "help" || first == "--help" || first == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := commandName(kongCtx.Command())

	cfg := &Config{}
	if cli.Config != "" {
		cfg, err = LoadConfig(cli.Config)
		if err != nil {
			return err
		}
	}
	m.applyDefaults(cli, cfg)

	if cfg.DBPath != "" && os.Getenv("LLMMIN_DB") == "" {
		m.DBPath = cfg.DBPath
	}

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set LLMMIN_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	logger := slog.New(slog.NewTextHandler(stderr, nil))

	// Wire core services into dependencies
	m.CheckpointService = sqlite.NewCheckpointService(m.DB)
	m.SourceService = sqlite.NewSourceService(m.DB)
	deps.DB = m.DB
	deps.CheckpointAdmin = m.CheckpointService
	deps.Checkpoints = m.CheckpointService
	deps.Sources = m.SourceService
	if cli.Verbose {
		deps.Checkpoints = minslog.NewLoggingCheckpointStore(deps.Checkpoints, logger)
	}

	// Wire command-specific dependencies based on command
	if cmd == "generate" || cmd == "compact" {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set")
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		model := resolveString("", cfg.Model, gemini.DefaultModel)
		var completer llmmin.Completer = gemini.NewCompleter(client, model)
		completer = compact.NewRateLimitedCompleter(completer, resolveFloat(cfg.ModelRPS, defaultModelRPS))
		if cli.Verbose {
			completer = minslog.NewLoggingCompleter(completer, logger)
		}

		var logf compact.LogFunc
		if cli.Verbose {
			logf = func(format string, a ...any) {
				fmt.Fprintf(stderr, format+"\n", a...)
			}
		}

		budget := cli.Generate.TokenBudget
		force := cli.Generate.Force
		version := ""
		if cmd == "compact" {
			budget = cli.Compact.TokenBudget
			force = cli.Compact.Force
			version = cli.Compact.Version
		}

		deps.Compactor = &compact.Compactor{
			Completer:    completer,
			Checkpoints:  deps.Checkpoints,
			Chunker:      &llmmin.Chunker{TokenBudget: budget},
			ForceRestart: force,
			Version:      version,
			Log:          logf,
		}

		output := cli.Generate.Output
		if cmd == "compact" {
			output = cli.Compact.Output
		}
		deps.Writer = fs.NewWriter(output)

		if cmd == "generate" {
			deps.Search = duckduckgo.NewSearchService(nil)
			deps.Selector = gemini.NewURLSelector(completer)

			tokenCounter, err := gemini.NewTokenCounter(tokenizerModel)
			if err != nil {
				return fmt.Errorf("failed to create token counter: %w", err)
			}
			deps.Tokens = tokenCounter

			var fetcher llmmin.Fetcher = minhttp.NewFetcher()
			if cli.Verbose {
				fetcher = minslog.NewLoggingFetcher(fetcher, logger)
			}

			deps.Gatherer = &crawl.Gatherer{
				Sitemaps:     minhttp.NewSitemapService(nil),
				Fetcher:      fetcher,
				Extractor:    trafilatura.NewExtractor(),
				Converter:    htmltomarkdown.NewConverter(),
				LinkSelector: goquery.NewGenericSelector(),
				RateLimiter:  crawl.NewDomainLimiter(resolveFloat(cfg.CrawlRPS, defaultCrawlRPS)),
				MaxPages:     cli.Generate.MaxPages,
			}
		}
	}

	return kongCtx.Run(deps)
}

// applyDefaults resolves the flag → config → built-in fallback chain onto
// the parsed CLI values so commands read final values from their fields.
func (m *Main) applyDefaults(cli *CLI, cfg *Config) {
	cli.Generate.TokenBudget = resolve(cli.Generate.TokenBudget, cfg.TokenBudget, defaultTokenBudget)
	cli.Generate.Concurrency = resolve(cli.Generate.Concurrency, cfg.Concurrency, defaultConcurrency)
	cli.Generate.MaxPages = resolve(cli.Generate.MaxPages, cfg.MaxPages, 0)
	cli.Generate.Output = resolveString(cli.Generate.Output, cfg.Output, defaultOutput)

	cli.Compact.TokenBudget = resolve(cli.Compact.TokenBudget, cfg.TokenBudget, defaultTokenBudget)
	cli.Compact.Output = resolveString(cli.Compact.Output, cfg.Output, defaultOutput)
}

// commandName returns the leading word of a kong command string, e.g.
// "generate" from "generate <packages>".
func commandName(command string) string {
	if i := strings.IndexByte(command, ' '); i >= 0 {
		return command[:i]
	}
	return command
}

// tokenizerModel is used for token counting; the local tokenizer supports
// a narrower model list than the API.
const tokenizerModel = "gemini-2.5-flash"

func defaultDBPath() string {
	if path := os.Getenv("LLMMIN_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "llmmin.db"
	}
	dir := filepath.Join(home, ".llmmin")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "llmmin.db")
}
