package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/hexmark/internal/errors"
	"github.com/hpungsan/hexmark/internal/ops"
	"github.com/hpungsan/hexmark/internal/present"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(env *ops.Env) *cli.App {
	app := &cli.App{
		Name:    "hexmark",
		Usage:   "Named byte-offset bookmarks for binary files",
		Version: Version,
		Commands: []*cli.Command{
			addCmd(env),
			removeCmd(env),
			gotoCmd(env),
			validateCmd(env),
			listCmd(env),
			historyCmd(env),
			exportCmd(env),
			importCmd(env),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// addCmd creates the add command.
func addCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Create a bookmark (offset accepts 0x hex)",
		ArgsUsage: "<name> <file> <offset>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "error", Usage: "Collision mode: error|replace"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 3 {
				return outputError(errors.NewInvalidRequest("add requires <name> <file> <offset>"))
			}
			offset, err := parseOffset(c.Args().Get(2))
			if err != nil {
				return outputError(err)
			}
			path, err := filepath.Abs(c.Args().Get(1))
			if err != nil {
				return outputError(errors.NewInvalidRequest(err.Error()))
			}

			output, err := ops.Add(c.Context, env, ops.AddInput{
				Name:     c.Args().Get(0),
				FilePath: path,
				Offset:   offset,
				Mode:     ops.AddMode(c.String("mode")),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// removeCmd creates the remove command.
func removeCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Usage:     "Delete bookmarks by name or index",
		ArgsUsage: "[name...]",
		Flags: []cli.Flag{
			&cli.IntSliceFlag{Name: "index", Aliases: []string{"i"}, Usage: "Bookmark index (repeatable)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.RemoveInput{
				Indices: c.IntSlice("index"),
				Names:   c.Args().Slice(),
			}
			if len(input.Indices) == 0 && len(input.Names) == 0 {
				return outputError(errors.NewInvalidRequest("name or --index is required"))
			}

			output, err := ops.Remove(c.Context, env, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// gotoCmd creates the goto command.
func gotoCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "goto",
		Usage:     "Resolve a bookmark to its file and offset",
		ArgsUsage: "[name]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "index", Aliases: []string{"i"}, Usage: "Bookmark index"},
		},
		Action: func(c *cli.Context) error {
			input := ops.NavigateInput{Name: c.Args().First()}
			if c.IsSet("index") {
				index := c.Int("index")
				input.Index = &index
			}

			output, err := ops.Navigate(c.Context, env, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// validateCmd creates the validate command.
func validateCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Delete bookmarks to missing files and clamp offsets past end of file",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "retain", Usage: "Keep bookmarks to missing files on removable or network drives (default from config)"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Print only the summary message"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ValidateInput{}
			if c.IsSet("retain") {
				retain := c.Bool("retain")
				input.Retain = &retain
			}

			output, err := ops.Validate(c.Context, env, input)
			if err != nil {
				return outputError(err)
			}

			if c.Bool("quiet") {
				_, err := fmt.Fprintln(c.App.Writer, output.Message)
				return err
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// listCmd creates the list command.
func listCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List bookmarks",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "sort", Aliases: []string{"s"}, Usage: "Sort column: name|file|folder|offset|modified|accessed"},
			&cli.BoolFlag{Name: "desc", Usage: "Sort descending"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "json", Usage: "Output format: json|md|html"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(c.Context, env, ops.ListInput{
				SortBy:     c.String("sort"),
				Descending: c.Bool("desc"),
			})
			if err != nil {
				return outputError(err)
			}

			switch c.String("format") {
			case "json":
				return outputJSON(c.App.Writer, output)
			case "md", "markdown":
				_, err := io.WriteString(c.App.Writer, present.Markdown(output.Rows))
				return err
			case "html":
				html, err := present.HTML(output.Rows)
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				_, err = io.WriteString(c.App.Writer, html)
				return err
			default:
				return outputError(errors.NewInvalidRequest("format must be one of: json, md, html"))
			}
		},
	}
}

// historyCmd creates the history command.
func historyCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recent validation runs",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultHistoryLimit, Usage: "Maximum runs to return"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.History(c.Context, env, ops.HistoryInput{Limit: c.Int("limit")})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export bookmarks to a .hexmark file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path; a bare name lands in ~/.hexmark/exports (default: bookmarks-<timestamp>.hexmark)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Export(c.Context, env, ops.ExportInput{Path: c.String("path")})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// importCmd creates the import command.
func importCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import bookmarks from a .hexmark file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Import file path; a bare name is read from ~/.hexmark/exports"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "error", Usage: "Collision mode: error|replace|skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Import(c.Context, env, ops.ImportInput{
				Path: c.String("path"),
				Mode: ops.ImportMode(c.String("mode")),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// Helper functions

// outputJSON marshals result to w as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var hexErr *errors.HexmarkError
	if stderrors.As(err, &hexErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", hexErr.Code, hexErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// parseOffset parses a decimal or 0x-prefixed hexadecimal byte offset.
// Leading zeros are decimal.
func parseOffset(s string) (int64, error) {
	digits, base := s, 10
	if rest, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		digits, base = rest, 16
	}
	n, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return 0, errors.NewInvalidRequest(fmt.Sprintf("invalid offset %q", s))
	}
	if n < 0 {
		return 0, errors.NewInvalidRequest("offset must not be negative")
	}
	return n, nil
}
