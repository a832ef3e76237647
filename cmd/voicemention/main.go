// Command voicemention serves the voice transcription API.
//
//	voicemention                    run the server
//	voicemention -migrate           create or update the database tables
//	voicemention -issue-token gw    print a bearer token for client "gw"
//	voicemention -version
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kbukum/voicemention/api"
	"github.com/kbukum/voicemention/auth"
	"github.com/kbukum/voicemention/auth/jwt"
	"github.com/kbukum/voicemention/bootstrap"
	"github.com/kbukum/voicemention/config"
	"github.com/kbukum/voicemention/database"
	"github.com/kbukum/voicemention/directory"
	"github.com/kbukum/voicemention/llm"
	"github.com/kbukum/voicemention/logger"
	"github.com/kbukum/voicemention/mention"
	"github.com/kbukum/voicemention/observability"
	"github.com/kbukum/voicemention/provider"
	"github.com/kbukum/voicemention/redis"
	"github.com/kbukum/voicemention/server"
	"github.com/kbukum/voicemention/server/middleware"
	"github.com/kbukum/voicemention/transcription/gladia"
	"github.com/kbukum/voicemention/util"
	"github.com/kbukum/voicemention/version"
	"github.com/kbukum/voicemention/voice"
)

const serviceName = "voicemention"

func main() {
	configPath := flag.String("config", "", "path to config.yml (default: searched)")
	migrate := flag.Bool("migrate", false, "migrate the database and exit")
	issueToken := flag.String("issue-token", "", "print an API token for the named client and exit")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Get().String())
		return
	}

	cfg := &Config{}
	opts := []config.LoaderOption{config.WithEnvAliases(envAliases)}
	if *configPath != "" {
		opts = append(opts, config.WithConfigFile(*configPath))
	}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		fatal("load config", err)
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().Version
	}

	if *issueToken != "" {
		token, err := newToken(cfg.Auth.JWT, *issueToken)
		if err != nil {
			fatal("issue token", err)
		}
		fmt.Println(token)
		return
	}

	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		fatal("bootstrap", err)
	}
	infra, err := registerInfrastructure(app)
	if err != nil {
		fatal("register components", err)
	}

	ctx := context.Background()
	if *migrate {
		err = app.RunTask(ctx, func(ctx context.Context) error {
			if err := infra.db.DB().AutoMigrate(directory.Models()...); err != nil {
				return err
			}
			logger.Get("migrate").Info("Database migrated", logger.Fields("dsn", cfg.Database.DSN))
			return nil
		})
	} else {
		wire(app, infra)
		err = app.Run(ctx)
	}
	if err != nil {
		app.Logger.Error("Application stopped with error", logger.ErrorFields("run", err))
		os.Exit(1)
	}
}

type infrastructure struct {
	db    *database.Component
	redis *redis.Component
}

func registerInfrastructure(app *bootstrap.App[*Config]) (*infrastructure, error) {
	cfg := app.Cfg
	infra := &infrastructure{
		db: database.NewComponent(cfg.Database, app.Logger).WithAutoMigrate(directory.Models()...),
	}
	if err := app.RegisterComponent(infra.db); err != nil {
		return nil, err
	}
	if cfg.Redis.Enabled {
		infra.redis = redis.NewComponent(cfg.Redis, app.Logger)
		if err := app.RegisterComponent(infra.redis); err != nil {
			return nil, err
		}
	}
	return infra, nil
}

// wire builds the pipeline and API once infrastructure is up and registers
// the HTTP server, which then starts last.
func wire(app *bootstrap.App[*Config], infra *infrastructure) {
	var shutdownTelemetry observability.Shutdown
	app.OnStart(func(ctx context.Context) error {
		var err error
		shutdownTelemetry, err = observability.Setup(ctx, app.Cfg.Observability, observability.Service{
			Name:        app.Name,
			Version:     app.Version,
			Environment: app.Cfg.Environment,
		})
		return err
	})
	app.OnStop(func(ctx context.Context) error {
		if shutdownTelemetry == nil {
			return nil
		}
		return shutdownTelemetry(ctx)
	})

	app.OnConfigure(func(_ context.Context, app *bootstrap.App[*Config]) error {
		cfg, log := app.Cfg, app.Logger

		store := directory.NewStore(infra.db.DB(), log)
		var choices mention.ChoiceStore = provider.NewMemoryStore[mention.PendingChoice]()
		if infra.redis != nil {
			choices = redis.NewTypedStore[mention.PendingChoice](infra.redis.Client(), cfg.Redis.KeyPrefix)
		}

		transcriber, err := gladia.New(cfg.Transcription, log)
		if err != nil {
			return err
		}
		metrics, err := observability.NewMetrics(observability.Meter(serviceName))
		if err != nil {
			return err
		}
		adapter, err := llm.New(cfg.LLM)
		if err != nil {
			return err
		}
		completer := provider.Chain(
			provider.WithLogging[llm.CompletionRequest, llm.CompletionResponse](log.WithComponent("llm")),
			provider.WithMetrics[llm.CompletionRequest, llm.CompletionResponse](metrics),
			provider.WithTracing[llm.CompletionRequest, llm.CompletionResponse](serviceName),
		)(adapter)
		pipeline, err := voice.New(cfg.Voice, voice.Deps{
			Transcriber: transcriber,
			Submit:      cfg.Transcription.SubmitOptions(),
			Matcher:     mention.NewMatcher(completer, log),
			Engine:      mention.NewEngine(choices, log, mention.WithChoiceTTL(cfg.Mention.ChoiceTTL)),
			Roster:      store,
			Usage:       store,
			Members:     store,
			Metrics:     metrics,
			Log:         log,
		})
		if err != nil {
			return err
		}

		opts := api.Options{VoicePerMinute: cfg.API.VoicePerMinute}
		if cfg.Auth.Enabled {
			tokens, err := jwt.NewService(cfg.Auth.JWT, newClaims)
			if err != nil {
				return err
			}
			opts.Validator = auth.TokenValidatorFunc(tokens.ValidatorFunc())
		}

		srv := server.New(cfg.Server, log)
		srv.GinEngine().Use(middleware.RequestMetrics(app.Name, metrics))
		srv.RegisterDefaultEndpoints(app.Name, app.Components.HealthAll)
		handler := api.NewHandler(pipeline, mention.NewSelector(choices, log), store, log)
		api.Mount(srv.GinEngine(), handler, opts)

		app.Summary.TrackClient("gladia", cfg.Transcription.BaseURL, "key "+util.MaskSecret(cfg.Transcription.APIKey, 4))
		app.Summary.TrackClient(cfg.LLM.Name, cfg.LLM.BaseURL, cfg.LLM.Model+", key "+util.MaskSecret(cfg.LLM.APIKey, 4))
		app.Summary.TrackClient("auth", "bearer", cfg.Auth.Describe())
		return app.RegisterComponent(server.NewComponent(srv))
	})
}

func newClaims() *auth.Claims { return &auth.Claims{} }

func newToken(cfg jwt.Config, client string) (string, error) {
	tokens, err := jwt.NewService(cfg, newClaims)
	if err != nil {
		return "", err
	}
	return tokens.GenerateAccess(&auth.Claims{Client: client})
}

func fatal(step string, err error) {
	fmt.Fprintf(os.Stderr, "voicemention: %s: %v\n", step, err)
	os.Exit(1)
}
