package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytlikes/internal/services"
	"github.com/desertthunder/ytlikes/internal/shared"
	"github.com/desertthunder/ytlikes/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Services are built from the resolved configuration the first time a command needs them.
type Runner struct {
	config     *shared.Config
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	getenv     func(string) string
	openURL    func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config      // Skips file and environment resolution when set
	HTTPClient *http.Client        // Base client for the proxy and Notion
	Logger     *log.Logger         // Defaults to stderr
	Output     io.Writer           // Defaults to stdout
	Getenv     func(string) string // Defaults to os.Getenv
	OpenURL    func(string) error  // Defaults to shared.OpenBrowser
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenBrowser
	}

	return &Runner{
		config:     opts.Config,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		getenv:     opts.Getenv,
		openURL:    opts.OpenURL,
	}
}

// SetLogger replaces the logger used by subsequent commands.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// loadConfig resolves configuration once: embedded defaults, then --config, then the environment.
//
// The log level comes from the configuration unless --verbose is set.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	if r.config == nil {
		config, err := shared.ResolveConfig(cmd.String("config"), r.getenv)
		if err != nil {
			return nil, err
		}
		r.config = config
	}

	level, err := shared.ParseLogLevel(r.config.Log.Level)
	if err != nil {
		return nil, err
	}
	if cmd.Bool("verbose") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)

	return r.config, nil
}

func (r *Runner) youtubeService(ctx context.Context, config *shared.Config) (*services.YouTubeService, error) {
	if err := config.ValidateYouTube(); err != nil {
		return nil, err
	}

	svc := services.NewYouTubeService(config.YouTube.ProxyURL, r.httpClient)
	if err := svc.Authenticate(ctx, config.Credentials()); err != nil {
		return nil, err
	}
	return svc, nil
}

func (r *Runner) notionService(config *shared.Config) (*services.NotionService, error) {
	if err := config.ValidateNotion(); err != nil {
		return nil, err
	}

	return services.NewNotionService(services.NotionOpts{
		APIKey:     config.Notion.APIKey,
		DatabaseID: config.Notion.DatabaseID,
		Version:    config.Notion.Version,
		BaseURL:    config.Notion.BaseURL,
		PageSize:   config.Notion.PageSize,
		HTTPClient: r.httpClient,
	}), nil
}

func (r *Runner) apiService(config *shared.Config) *services.APIService {
	return services.NewAPIService(config.YouTube.ProxyURL, r.httpClient)
}

// engine validates the full sync configuration and wires the liked-songs source to the database.
func (r *Runner) engine(ctx context.Context, cmd *cli.Command) (*tasks.Engine, *services.NotionService, error) {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, nil, err
	}

	youtube, err := r.youtubeService(ctx, config)
	if err != nil {
		return nil, nil, err
	}
	notion, err := r.notionService(config)
	if err != nil {
		return nil, nil, err
	}

	return tasks.NewEngine(youtube, notion, r.logger), notion, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
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
