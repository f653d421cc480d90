package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/libman/internal/managers"
	"github.com/desertthunder/libman/internal/services"
	"github.com/desertthunder/libman/internal/shared"
	"github.com/urfave/cli/v3"
)

// Version is reported by --version.
var Version = "0.1.0"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	client     services.CatalogService
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Client     services.CatalogService // overrides the client built from the configured base URL
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		client:     opts.Client,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// app builds the root command.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "libman",
		Usage:   "Manage the authors and books of a library catalog",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
				Sources: cli.EnvVars("LIBMAN_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "api",
				Usage:   "Base URL of the catalog API (overrides api.base_url)",
				Sources: cli.EnvVars("LIBMAN_API"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before:   r.configure,
		Commands: r.register(),
	}
}

// configure loads the config file named by --config and applies the global flag overrides.
//
// A missing file is only an error when --config was given explicitly.
func (r *Runner) configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	if path != "" {
		config, err := shared.LoadConfig(path)
		switch {
		case err == nil:
			r.config = config
			r.configPath = path
		case errors.Is(err, os.ErrNotExist) && !cmd.IsSet("config"):
			r.logger.Debug("config file not found, using defaults", "path", path)
		default:
			return ctx, err
		}
	}

	if base := cmd.String("api"); base != "" {
		r.config.API.BaseURL = base
		if err := r.config.Validate(); err != nil {
			return ctx, fmt.Errorf("%w: --api", err)
		}
	}

	level, err := shared.ParseLevel(r.config.Log.Level)
	if err != nil {
		return ctx, err
	}
	if cmd.Bool("debug") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)

	if r.client == nil || cmd.IsSet("api") {
		r.client = services.NewClient(r.config.API.BaseURL, r.httpClient)
	}

	return ctx, nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		authorsCommand, booksCommand, exportCommand, tuiCommand, serveCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) authorsManager() *managers.AuthorsManager {
	return managers.NewAuthorsManager(r.client, r.logger)
}

func (r *Runner) booksManager() *managers.BooksManager {
	return managers.NewBooksManager(r.client, r.logger)
}

// failure reports msg to the user and returns err annotated with it.
func (r *Runner) failure(msg string, err error) error {
	if msg == "" {
		return err
	}
	r.writePlain("✗ %s\n", msg)
	return fmt.Errorf("%s: %w", msg, err)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
