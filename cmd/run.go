package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/visiq/internal/app"
	"github.com/abhisek/visiq/internal/imagegen"
	"github.com/abhisek/visiq/internal/llm"
	"github.com/abhisek/visiq/internal/logging"
	"github.com/abhisek/visiq/internal/quiz"
	"github.com/abhisek/visiq/internal/quizgen"
	"github.com/abhisek/visiq/internal/screens/start"
	"github.com/abhisek/visiq/internal/store"
)

// deps holds the wired dependencies for one command invocation.
type deps struct {
	logger  *logrus.Logger
	store   *store.Store
	machine *quiz.Machine
	info    start.Info
	closers []io.Closer
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		_ = d.closers[i].Close()
	}
}

// newDeps resolves configuration from env and flags, then builds the
// logger, usage store, providers and quiz machine.
func newDeps(cmd *cobra.Command) (*deps, error) {
	d := &deps{}
	ok := false
	defer func() {
		if !ok {
			d.Close()
		}
	}()

	logger, closer, err := logging.New(logConfig(cmd))
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	d.logger = logger
	d.closers = append(d.closers, closer)

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	d.store = st
	d.closers = append(d.closers, st)

	total, _ := cmd.Flags().GetInt("questions")
	if total <= 0 {
		return nil, fmt.Errorf("--questions must be positive, got %d", total)
	}

	textCfg, err := textConfig(cmd, total)
	if err != nil {
		return nil, err
	}
	imageCfg, err := imageConfig(cmd)
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	repo := st.EventRepo()
	textProvider, err := llm.NewProvider(ctx, textCfg, repo, logger)
	if err != nil {
		return nil, fmt.Errorf("text provider: %w", err)
	}
	imageProvider, err := imagegen.NewProvider(ctx, imageCfg, repo, logger)
	if err != nil {
		return nil, fmt.Errorf("image provider: %w", err)
	}

	gen := quizgen.New(textProvider, quizgen.DefaultConfig(), logger)
	machine, err := quiz.New(quiz.Config{Total: total}, gen, imagegen.NewSource(imageProvider), logger)
	if err != nil {
		return nil, err
	}
	d.machine = machine
	d.info = start.Info{
		Questions:     total,
		TextModel:     textProvider.ModelID(),
		ImageProvider: imageCfg.Provider,
	}

	logger.WithFields(logrus.Fields{
		"text_provider":  textCfg.Provider,
		"text_model":     textProvider.ModelID(),
		"image_provider": imageCfg.Provider,
		"image_model":    imageProvider.ModelID(),
		"questions":      total,
	}).Info("visiq ready")

	ok = true
	return d, nil
}

func logConfig(cmd *cobra.Command) logging.Config {
	cfg := logging.ConfigFromEnv()
	if f, _ := cmd.Flags().GetString("log-file"); f != "" {
		cfg.File = f
	}
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		cfg.Level = l
	}
	return cfg
}

// textConfig builds the text provider config: VISIQ_* variables first, then
// the bare vendor API key variables, then flags.
func textConfig(cmd *cobra.Command, total int) (llm.Config, error) {
	cfg := llm.ConfigFromEnv()
	if !cfg.HasKey() {
		if found, ok := llm.DiscoverConfig(); ok {
			found.Retry = cfg.Retry
			cfg = found
		}
	}

	if p, _ := cmd.Flags().GetString("provider"); p != "" {
		cfg.Provider = p
	}
	if n, _ := cmd.Flags().GetInt("retries"); n > 0 {
		cfg.Retry.MaxAttempts = n
	}
	if offline, _ := cmd.Flags().GetBool("offline"); offline {
		cfg.Provider = llm.ProviderMock
	}
	if cfg.Provider == llm.ProviderMock {
		cfg.MockResponder = quizgen.SampleResponder(total)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("text provider config: %w (or run with --offline)", err)
	}
	return cfg, nil
}

func imageConfig(cmd *cobra.Command) (imagegen.Config, error) {
	cfg := imagegen.ConfigFromEnv()
	if p, _ := cmd.Flags().GetString("image-provider"); p != "" {
		cfg.Provider = p
	}
	if offline, _ := cmd.Flags().GetBool("offline"); offline {
		cfg.Provider = "mock"
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("image provider config: %w (or run with --offline)", err)
	}
	return cfg, nil
}

// runApp wires dependencies and launches the TUI.
func runApp(cmd *cobra.Command, skipStart bool) error {
	d, err := newDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	return app.Run(cmd.Context(), app.Options{
		Machine:   d.machine,
		Info:      d.info,
		SkipStart: skipStart,
	})
}
