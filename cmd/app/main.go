package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/ganttview/internal"
	"github.com/starford/ganttview/internal/gantt"
	"github.com/starford/ganttview/internal/models"
	"github.com/starford/ganttview/internal/msproject"
	"github.com/starford/ganttview/internal/projectservice"
	"github.com/starford/ganttview/internal/tui"
	pkgconfig "github.com/starford/ganttview/pkg/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithVersion(version),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithLogOutput(os.Stderr),
		internal.WithVersion(version),
	}

	if err := internal.RunMCP(ctx, opts...); err != nil {
		return fmt.Errorf("mcp run error: %w", err)
	}

	return nil
}

// readProject parses the FILE argument, or the bundled sample with --sample.
func readProject(cmd *cli.Command, svc *projectservice.Service) (*models.Project, error) {
	var data []byte
	switch {
	case cmd.Bool("sample"):
		data = []byte(msproject.Sample)
	case cmd.Args().Len() == 1:
		var err error
		data, err = os.ReadFile(cmd.Args().First())
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("expected exactly one FILE argument (or --sample)")
	}
	return svc.Parse(data)
}

func render(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	svc := projectservice.NewService(nil, nil, cfg.ServiceSettings())

	p, err := readProject(cmd, svc)
	if err != nil {
		return err
	}

	req := projectservice.ChartRequest{
		Collapsed:    gantt.ParseUIDSet(cmd.String("collapsed")),
		PixelsPerDay: cmd.Float("ppd"),
		Mode:         gantt.Mode(cmd.String("mode")),
	}
	if req.Mode != "" && req.Mode != gantt.ModeDay && req.Mode != gantt.ModeWeek {
		return fmt.Errorf("unsupported mode %q (allowed: day, week)", req.Mode)
	}
	v := svc.View(p, req)
	if v.OutlineErr != nil {
		slog.Warn("outline order", slog.String("error", v.OutlineErr.Error()))
	}

	var w io.Writer = os.Stdout
	if out := cmd.String("output"); out != "" && out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return svc.Render(v, req, w)
}

func view(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	svc := projectservice.NewService(nil, nil, cfg.ServiceSettings())

	p, err := readProject(cmd, svc)
	if err != nil {
		return err
	}
	return tui.Run(ctx, p, tui.Settings{
		DateLayout: cfg.Chart.DateFormat,
		Mode:       gantt.Mode(cfg.Chart.Mode),
	})
}

func sampleFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "sample",
		Usage: "Use the bundled sample project instead of FILE",
	}
}

func main() {
	cmd := &cli.Command{
		Name:    "ganttview",
		Usage:   "Read-only Gantt chart viewer for Microsoft Project XML exports",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the project library, charts and uploads over HTTP",
				Action: serve,
			},
			{
				Name:      "render",
				Usage:     "Write the SVG Gantt chart of a project file",
				ArgsUsage: "FILE",
				Action:    render,
				Flags: []cli.Flag{
					sampleFlag(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file (- for stdout)",
						Value:   "-",
					},
					&cli.StringFlag{
						Name:  "collapsed",
						Usage: "Comma-separated UIDs of collapsed summary tasks",
					},
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Header scale: day or week (default from config)",
					},
					&cli.FloatFlag{
						Name:  "ppd",
						Usage: "Pixels per day (default from config)",
					},
				},
			},
			{
				Name:      "tui",
				Usage:     "Browse a project file in the terminal",
				ArgsUsage: "FILE",
				Action:    view,
				Flags:     []cli.Flag{sampleFlag()},
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools over stdio",
				Action: serveMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
