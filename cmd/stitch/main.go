package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/stitchkit/stitch/internal/config"
	"github.com/stitchkit/stitch/internal/doctor"
	"github.com/stitchkit/stitch/internal/docs"
	"github.com/stitchkit/stitch/internal/mcpserver"
	"github.com/stitchkit/stitch/internal/runner"
	"github.com/stitchkit/stitch/internal/scaffold"
	"github.com/stitchkit/stitch/internal/source"
	"github.com/stitchkit/stitch/internal/state"
	"github.com/stitchkit/stitch/internal/ux"
)

const version = "0.4.0"

func main() {
	app := &cli.Command{
		Name:        "stitch",
		Usage:       "Apply AI-generated edit blocks to files",
		Version:     version,
		Description: "Run 'stitch docs' for documentation on the edit block format, matching strategies, config, and more.",
		Commands: []*cli.Command{
			applyCmd(),
			scanCmd(),
			historyCmd(),
			doctorCmd(),
			serveCmd(),
			initCmd(),
			docsCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%serror:%s %v\n", ux.Red, ux.Reset, err)
		os.Exit(1)
	}
}

func applyCmd() *cli.Command {
	return &cli.Command{
		Name:      "apply",
		Usage:     "Apply edit blocks from a file, stdin, or the clipboard",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "Match blocks without writing files"},
			&cli.BoolFlag{Name: "strict", Usage: "Exit non-zero if any block fails"},
			&cli.BoolFlag{Name: "backup", Usage: "Keep a .bak copy of each file before overwriting"},
			&cli.StringFlag{Name: "root", Usage: "Resolve target paths against `DIR`"},
			&cli.BoolFlag{Name: "follow", Usage: "Keep reading stdin, applying blocks as they complete"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, stitchDir, err := loadProject()
			if err != nil {
				return err
			}
			applyOverrides(cfg, cmd)

			r := &runner.Runner{
				Config: cfg,
				Dir:    stitchDir,
				DryRun: cmd.Bool("dry-run"),
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
			defer stop()

			var report *state.Report
			if cmd.Bool("follow") {
				if cmd.Args().First() != "" {
					return fmt.Errorf("--follow reads stdin; drop the file argument")
				}
				lines := source.NewLineReader(os.Stdin)
				defer lines.Stop()
				report, err = r.Follow(ctx, lines, "stdin")
			} else {
				text, origin, rerr := source.Read(cmd.Args().First())
				if rerr != nil {
					return rerr
				}
				report, err = r.Run(ctx, text, origin)
			}
			if err != nil {
				return err
			}

			if cfg.Strict && report.Failed > 0 {
				return fmt.Errorf("%d block(s) failed to apply", report.Failed)
			}
			return nil
		},
	}
}

func scanCmd() *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "List the edit blocks in a response without applying them",
		ArgsUsage: "[file]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			text, _, err := source.Read(cmd.Args().First())
			if err != nil {
				return err
			}
			runner.ScanPrint(text)
			return nil
		},
	}
}

func historyCmd() *cli.Command {
	return &cli.Command{
		Name:      "history",
		Usage:     "Show recent runs, or one run in detail",
		ArgsUsage: "[run-id]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Value: 10, Usage: "Runs to list"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, stitchDir, err := loadProject()
			if err != nil {
				return err
			}
			if stitchDir == "" {
				return fmt.Errorf("no %s directory found (run 'stitch init')", config.DirName)
			}

			if id := cmd.Args().First(); id != "" {
				report, err := state.LoadReport(stitchDir, id)
				if err != nil {
					return err
				}
				ux.RenderReport(report)
				return nil
			}

			reports, err := state.LoadReports(stitchDir)
			if err != nil {
				return err
			}
			ux.RenderHistory(reports, int(cmd.Int("limit")))
			return nil
		},
	}
}

func doctorCmd() *cli.Command {
	return &cli.Command{
		Name:  "doctor",
		Usage: "Diagnose why the last failed run did not apply",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, stitchDir, err := loadProject()
			if err != nil {
				return err
			}
			if stitchDir == "" {
				return fmt.Errorf("no %s directory found (run 'stitch init')", config.DirName)
			}
			return doctor.Run(stitchDir, cfg.Root)
		},
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the MCP server on stdio",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Usage: "Resolve target paths against `DIR`"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Force every apply_edits call to preview only"},
			&cli.BoolFlag{Name: "quiet", Usage: "Suppress logging"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, stitchDir, err := loadProject()
			if err != nil {
				return err
			}
			if root := cmd.String("root"); root != "" {
				cfg.Root = root
			}

			// Logs go to stderr; stdout carries the protocol stream.
			var logger *zap.Logger
			if !cmd.Bool("quiet") {
				logger, err = zap.NewDevelopment()
				if err != nil {
					return fmt.Errorf("initializing logger: %w", err)
				}
				defer func() { _ = logger.Sync() }()
			}

			srv, err := mcpserver.NewServer(&mcpserver.Config{
				Version: version,
				Runner: &runner.Runner{
					Config: cfg,
					Dir:    stitchDir,
					DryRun: cmd.Bool("dry-run"),
				},
				Logger: logger,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
			defer stop()

			return srv.Run(ctx)
		},
	}
}

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize a new .stitch/ directory with a default config",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			return scaffold.Init(dir)
		},
	}
}

func docsCmd() *cli.Command {
	return &cli.Command{
		Name:      "docs",
		Usage:     "Show documentation",
		ArgsUsage: "[topic]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				fmt.Print("\nAvailable topics:\n\n")
				for _, t := range docs.All() {
					fmt.Printf("  %-14s %s\n", t.Name, t.Summary)
				}
				fmt.Println("\nRun 'stitch docs <topic>' to read a topic.")
				return nil
			}
			t, err := docs.Get(name)
			if err != nil {
				return err
			}
			fmt.Print(t.Content)
			return nil
		},
	}
}

// applyOverrides layers command-line flags over the loaded config.
func applyOverrides(cfg *config.Config, cmd *cli.Command) {
	if cmd.Bool("backup") {
		cfg.Backup = true
	}
	if cmd.Bool("strict") {
		cfg.Strict = true
	}
	if root := cmd.String("root"); root != "" {
		cfg.Root = root
	}
}

// loadProject walks up from cwd looking for a .stitch/ directory and loads
// its config. Without one, defaults apply relative to cwd and no history is
// recorded.
func loadProject() (*config.Config, string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", err
	}
	dir := cwd
	for {
		stitchDir := filepath.Join(dir, config.DirName)
		if info, err := os.Stat(stitchDir); err == nil && info.IsDir() {
			cfg, err := config.Load(filepath.Join(stitchDir, config.FileName))
			if err != nil {
				return nil, "", fmt.Errorf("loading config: %w", err)
			}
			if !filepath.IsAbs(cfg.Root) {
				cfg.Root = filepath.Join(dir, cfg.Root)
			}
			return cfg, stitchDir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			cfg := config.Default()
			cfg.Root = cwd
			return cfg, "", nil
		}
		dir = parent
	}
}
