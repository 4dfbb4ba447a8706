package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vowfolio/internal/models"
	"github.com/desertthunder/vowfolio/internal/repositories"
	"github.com/desertthunder/vowfolio/internal/services"
	"github.com/desertthunder/vowfolio/internal/shared"
	"github.com/desertthunder/vowfolio/internal/store"
	"github.com/desertthunder/vowfolio/internal/tasks"
	"github.com/urfave/cli/v3"
)

// noticeBuffer bounds the notices a single command can collect before they are printed.
const noticeBuffer = 64

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	mock       bool

	db    *sql.DB
	repos *repositories.Repositories
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	// HTTPClient replaces the bearer-token client built from the stored session.
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Mock       bool
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

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		mock:       opts.Mock,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, categoriesCommand, albumsCommand, imagesCommand, heroCommand,
		exportCommand, apiCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// before applies the global flags: an explicit --config replaces the loaded config, --mock
// switches to the in-memory dataset and --log-level overrides [log] level.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.IsSet("config") {
		path := cmd.String("config")
		config, err := shared.LoadConfig(path)
		if err != nil {
			return ctx, err
		}
		r.config = config
		r.configPath = path
	}
	if cmd.Bool("mock") {
		r.mock = true
	}

	level := r.config.Log.Level
	if cmd.IsSet("log-level") {
		level = cmd.String("log-level")
	}
	shared.SetLogLevel(r.logger, shared.ParseLogLevel(level))
	return ctx, nil
}

// after closes the database if a command opened it.
func (r *Runner) after(ctx context.Context, cmd *cli.Command) error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db, r.repos = nil, nil
	return err
}

// SetLogger replaces the logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// repositories opens the configured database on first use and runs pending migrations.
func (r *Runner) repositories() (*repositories.Repositories, error) {
	if r.repos != nil {
		return r.repos, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", r.config.Database.Path, err)
	}
	r.db = db
	r.repos = repositories.New(db)
	return r.repos, nil
}

// session returns the stored session, or nil when no one is logged in.
func (r *Runner) session() (*models.Session, error) {
	repos, err := r.repositories()
	if err != nil {
		return nil, err
	}

	s, err := repos.Sessions.Current()
	if errors.Is(err, shared.ErrNotAuthenticated) {
		return nil, nil
	}
	return s, err
}

// api builds the raw API client. Requests carry the stored bearer token when there is one.
func (r *Runner) api(ctx context.Context) (*services.APIService, error) {
	if r.httpClient != nil {
		return services.NewAPIService(r.config.API.BaseURL, r.httpClient), nil
	}

	token := ""
	s, err := r.session()
	if err != nil {
		return nil, err
	}
	if s != nil {
		token = s.Token
	}
	client := services.NewAuthorizedClient(ctx, token, r.config.API.Timeout())
	return services.NewAPIService(r.config.API.BaseURL, client), nil
}

// workspace is a refreshed store behind a sync adapter, plus the notices it produces.
type workspace struct {
	adapter *tasks.SyncAdapter
	notices chan tasks.Notice
}

// open builds the sync adapter a gallery command works through and loads the current state.
//
// In mock mode the store is seeded from the sample dataset and nothing is replicated or saved.
func (r *Runner) open(ctx context.Context) (*workspace, error) {
	notices := make(chan tasks.Notice, noticeBuffer)
	opts := tasks.SyncOpts{
		Logger:    r.logger,
		Notices:   notices,
		RateLimit: r.config.API.RateLimit,
		Burst:     r.config.API.Burst,
		Context:   ctx,
	}

	if r.mock {
		s, err := store.NewWithDataset(r.logger, store.MockDataset())
		if err != nil {
			return nil, err
		}
		opts.Store = s
	} else {
		api, err := r.api(ctx)
		if err != nil {
			return nil, err
		}
		repos, err := r.repositories()
		if err != nil {
			return nil, err
		}
		opts.Store = store.New(r.logger)
		opts.Remote = services.NewGalleryService(api)
		opts.Heroes = repos.Heroes
	}

	adapter, err := tasks.NewSyncAdapter(opts)
	if err != nil {
		return nil, err
	}
	if err := adapter.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("failed to load gallery: %w", err)
	}
	return &workspace{adapter: adapter, notices: notices}, nil
}

// finish waits for replication and prints every notice. Replication failures are returned
// so the command exits non-zero even though the local edit was applied, including failures
// whose notices were dropped from a full buffer.
func (r *Runner) finish(ctx context.Context, ws *workspace) error {
	if err := ws.adapter.Flush(ctx); err != nil {
		return fmt.Errorf("failed to flush replication: %w", err)
	}

	var errs []error
	for {
		select {
		case n := <-ws.notices:
			mark := "✓"
			if n.Level == tasks.LevelError {
				mark = "✗"
				errs = append(errs, n.Err)
			}
			r.writePlain("%s %s\n", mark, n)
		default:
			if missed := ws.adapter.Failures() - len(errs); missed > 0 {
				errs = append(errs, fmt.Errorf("%w: %d more failures not shown", shared.ErrRemoteRequest, missed))
			}
			return errors.Join(errs...)
		}
	}
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
