package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ponyseeo/internal/services"
	"github.com/desertthunder/ponyseeo/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	google     services.OAuthService
	media      services.MediaService
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	open       func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Google and Media are built from Config by [Runner.Prepare] when left nil.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Google     services.OAuthService
	Media      services.MediaService
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
		google:     opts.Google,
		media:      opts.Media,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		open:       shared.OpenBrowser,
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// Prepare loads the file named by --config, when it exists, and builds any services not injected.
//
// A missing file keeps the defaults so `setup config` can run first.
func (r *Runner) Prepare(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}

	if r.configPath != "" {
		if _, err := os.Stat(r.configPath); err == nil {
			config, err := shared.LoadConfig(r.configPath)
			if err != nil {
				return ctx, err
			}
			r.config = config
		} else {
			r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		}
	}

	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if r.google == nil {
		if google, err := services.NewGoogleService(r.config.Credentials.Google.Map()); err == nil {
			r.google = google.WithHTTPClient(r.httpClient)
		} else {
			r.logger.Debug("google service unavailable", "error", err)
		}
	}

	if r.media == nil {
		r.media = newMediaService(r.config, r.httpClient)
	}

	return ctx, nil
}

// newMediaService returns the retrieval strategy selected by photos.strategy.
func newMediaService(config *shared.Config, client *http.Client) services.MediaService {
	if config.Photos.Strategy == shared.StrategyScrape {
		return services.NewAlbumScraper(config.Photos.AlbumURL, client)
	}
	return services.NewPhotosService(config.Photos.APIURL, config.Photos.PageSize, client)
}

// tokenSource returns a refreshing source for the token stored by `ponyseeo auth`.
func (r *Runner) tokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	token := r.config.Credentials.Google.Token()
	if token == nil {
		return nil, fmt.Errorf("%w: run `ponyseeo auth` first", shared.ErrNotAuthenticated)
	}
	if r.google == nil {
		return nil, fmt.Errorf("%w: google client_id and client_secret must be set in config.toml", shared.ErrMissingCredentials)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)
	return r.google.OAuthConfig().TokenSource(ctx, token), nil
}

// saveTokens stores token in the config and writes it to the config path when one is set.
func (r *Runner) saveTokens(token *oauth2.Token) error {
	if r.config == nil {
		return fmt.Errorf("%w: config is nil", shared.ErrMissingConfig)
	}

	if err := r.config.Credentials.Google.Update(token); err != nil {
		return fmt.Errorf("failed to update google configuration: %w", err)
	}

	if r.configPath == "" {
		return nil
	}

	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, serveCommand, videosCommand, usersCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
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

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
