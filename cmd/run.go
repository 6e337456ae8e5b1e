package cmd

import (
	"fmt"
	"time"

	"github.com/abhisek/mathmood/internal/app"
	"github.com/abhisek/mathmood/internal/difficulty"
	"github.com/abhisek/mathmood/internal/events"
	"github.com/abhisek/mathmood/internal/llm"
	"github.com/abhisek/mathmood/internal/logger"
	"github.com/abhisek/mathmood/internal/motivation"
	"github.com/abhisek/mathmood/internal/problemgen"
	"github.com/abhisek/mathmood/internal/reflection"
	"github.com/abhisek/mathmood/internal/session"
	"github.com/abhisek/mathmood/internal/store"
	"github.com/spf13/cobra"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Start a practice quiz (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func init() {
	quizCmd.Flags().Bool("skip-welcome", false, "Go straight to the setup screen")
}

// services holds everything a command needs to run quiz sessions.
type services struct {
	store   store.Repository
	events  events.Publisher
	engine  *session.Engine
	offline bool
}

func (r *services) Close() {
	r.events.Close()
	r.store.Close()
}

// buildServices validates configuration and wires the engine. The mock
// provider switches question generation to the built-in generator; the
// other LLM features then fall back to their local defaults.
func buildServices(cmd *cobra.Command, log *logger.Logger) (*services, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	st, err := openStore(cmd)
	if err != nil {
		return nil, err
	}

	provider, err := llm.NewProvider(ctx, cfg.LLM, st, log)
	if err != nil {
		st.Close()
		return nil, err
	}

	offline := cfg.LLM.Provider == llm.ProviderMock
	var questions problemgen.Generator = problemgen.New(provider, problemgen.DefaultConfig())
	if offline {
		questions = problemgen.NewLocalGenerator(uint64(time.Now().UnixNano()))
	}

	pub, err := events.New(cfg.NATSURL, cfg.NATSToken, log)
	if err != nil {
		st.Close()
		return nil, err
	}

	engine, err := session.NewEngine(session.Config{
		Strategy:  cfg.Adjuster,
		Questions: cfg.Questions,
		Window:    cfg.Window,
	}, session.Deps{
		Store:     st,
		Questions: questions,
		Motivator: motivation.New(provider, motivation.DefaultConfig()),
		AI:        difficulty.NewAIAdjuster(provider, difficulty.DefaultAIConfig()),
		Narrator:  reflection.NewLLMNarrator(provider, reflection.DefaultNarratorConfig()),
		Events:    pub,
		Log:       log,
	})
	if err != nil {
		pub.Close()
		st.Close()
		return nil, fmt.Errorf("build session engine: %w", err)
	}

	log.Info("services ready",
		"provider", cfg.LLM.Provider,
		"adjuster", cfg.Adjuster,
		"questions", cfg.Questions,
		"offline", offline,
		"events", cfg.NATSURL != "",
	)
	return &services{store: st, events: pub, engine: engine, offline: offline}, nil
}

func runApp(cmd *cobra.Command) error {
	log, err := newLogger(true)
	if err != nil {
		return err
	}
	defer log.Sync()

	svc, err := buildServices(cmd, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	skip, _ := cmd.Flags().GetBool("skip-welcome")
	return app.Run(app.Options{
		Engine:      svc.engine,
		History:     svc.store,
		Offline:     svc.offline,
		SkipWelcome: skip,
		Log:         log,
	})
}
