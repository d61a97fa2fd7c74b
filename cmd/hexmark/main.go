package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/hpungsan/hexmark/internal/config"
	"github.com/hpungsan/hexmark/internal/db"
	"github.com/hpungsan/hexmark/internal/docs"
	"github.com/hpungsan/hexmark/internal/logging"
	"github.com/hpungsan/hexmark/internal/mcp"
	"github.com/hpungsan/hexmark/internal/ops"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"add": true, "remove": true, "goto": true,
	"validate": true, "list": true, "history": true,
	"export": true, "import": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	// Known subcommand → CLI
	if cliCommands[arg] {
		return true
	}
	// --help or --version → CLI
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
  hexmark

  Named byte-offset bookmarks for binary files

  Usage: hexmark <command> [options]
         hexmark --help

  MCP server mode requires piped input.`)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fatal("%v", err)
		}
		return
	}

	// A .env file may set HEXMARK_HOME; it is optional.
	_ = godotenv.Load()

	baseDir, err := config.BaseDir()
	if err != nil {
		fatal("could not determine base directory: %v", err)
	}

	cwd, _ := os.Getwd()
	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		fatal("failed to load config: %v", err)
	}

	logger, logCloser, err := logging.New(logging.FromConfig(cfg, baseDir))
	if err != nil {
		fatal("failed to open log: %v", err)
	}
	defer logCloser.Close()

	database, err := db.Init(baseDir)
	if err != nil {
		fatal("failed to initialize database: %v", err)
	}
	defer database.Close()
	db.ConfigurePool(database, cfg)

	ctx := context.Background()
	opts := []ops.Option{ops.WithBaseDir(baseDir), ops.WithLogger(logger)}
	if !isCLIMode() {
		// The MCP server lives as long as the editor session and is told
		// about open documents; a CLI run sees none.
		opts = append(opts, ops.WithDocuments(docs.NewTable()))
	}
	env, err := ops.Open(ctx, database, cfg, opts...)
	if err != nil {
		fatal("failed to open bookmark store: %v", err)
	}
	defer env.Close(ctx)

	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		logger.Warn("unknown tools in disabled_tools", "tools", unknown)
	}

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(env)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'hexmark --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	logger.Info("starting MCP server", "version", Version, "base_dir", baseDir)
	if err := mcp.Run(env, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
