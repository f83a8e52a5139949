package main

import (
	"context"
	"io"

	"github.com/marv1nnnnn/llmmin"
	"github.com/marv1nnnnn/llmmin/compact"
	"github.com/marv1nnnnn/llmmin/crawl"
	"github.com/marv1nnnnn/llmmin/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	DB     *sqlite.DB

	Checkpoints llmmin.CheckpointStore
	Sources     llmmin.SourceCache
	Writer      llmmin.ArtifactWriter
	Search      llmmin.SearchService
	Selector    llmmin.URLSelector
	Tokens      llmmin.TokenCounter
	Gatherer    *crawl.Gatherer
	Compactor   *compact.Compactor

	// CheckpointAdmin exposes listing, which is not part of the store
	// interface the pipeline itself depends on.
	CheckpointAdmin *sqlite.CheckpointService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"C" help:"Path to a YAML config file" type:"path"`
	Verbose bool   `short:"v" help:"Log service calls to stderr"`

	Generate    GenerateCmd    `cmd:"" help:"Search, crawl, and compact documentation for packages"`
	Compact     CompactCmd     `cmd:"" help:"Compact a local documentation file"`
	Checkpoints CheckpointsCmd `cmd:"" help:"Inspect and clear compaction checkpoints"`
}

// GenerateCmd is the "generate" subcommand.
type GenerateCmd struct {
	Packages    []string `arg:"" help:"Package names to generate llm-min.txt for"`
	Output      string   `short:"o" help:"Output directory"`
	TokenBudget int      `short:"t" help:"Token budget per model call"`
	Concurrency int      `short:"c" help:"Concurrent document pipelines"`
	MaxPages    int      `help:"Page limit per crawled site"`
	Force       bool     `short:"f" help:"Ignore existing checkpoints and restart"`
	Refresh     bool     `short:"r" help:"Re-crawl even when a cached source exists"`
	KeepRaw     bool     `help:"Write the raw gathered text alongside the compacted artifact"`
}

// CompactCmd is the "compact" subcommand.
type CompactCmd struct {
	Input       string `arg:"" help:"Path to a local documentation text file" type:"existingfile"`
	Name        string `short:"n" help:"Subject name for the output header (defaults to the file name)"`
	Version     string `help:"Subject version for the output header"`
	Output      string `short:"o" help:"Output directory"`
	TokenBudget int    `short:"t" help:"Token budget per model call"`
	Force       bool   `short:"f" help:"Ignore existing checkpoints and restart"`
}

// CheckpointsCmd groups checkpoint maintenance subcommands.
type CheckpointsCmd struct {
	List  CheckpointsListCmd  `cmd:"" help:"List stored checkpoints"`
	Clear CheckpointsClearCmd `cmd:"" help:"Remove the checkpoint for a document"`
}

// CheckpointsListCmd is the "checkpoints list" subcommand.
type CheckpointsListCmd struct{}

// CheckpointsClearCmd is the "checkpoints clear" subcommand.
type CheckpointsClearCmd struct {
	Document string `arg:"" help:"Document ID whose checkpoint to remove"`
}
