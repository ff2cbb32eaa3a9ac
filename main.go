package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"art_academy_writer/config"
	"art_academy_writer/generator"
	"art_academy_writer/server"
)

const shutdownTimeout = 15 * time.Second

var (
	configPath string
	verbose    bool
	listenAddr string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "artwriter",
	Short:         "AI writing assistant for art academy teachers",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger(verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the assembled prompt without calling the model",
}

var previewDaily generator.DailyMessageRequest

var previewDailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Preview the daily parent message prompt",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := generator.BuildDailyPrompt(previewDaily, previewPromptOptions())
		return printPrompt(cmd.OutOrStdout(), p)
	},
}

var previewReport generator.ReportRequest

var previewReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Preview the growth report prompt",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := generator.BuildReportPrompt(previewReport, previewPromptOptions())
		return printPrompt(cmd.OutOrStdout(), p)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (yaml/json/toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logs")

	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "listen address (overrides server.addr)")

	df := previewDailyCmd.Flags()
	df.StringVar(&previewDaily.StudentName, "name", "", "student full name")
	df.StringVar((*string)(&previewDaily.StudentAge), "age", "", "student age")
	df.StringVar(&previewDaily.Subject, "subject", "", "class subject")
	df.StringVar(&previewDaily.Materials, "materials", "", "materials used")
	df.StringVar(&previewDaily.ProgressStatus, "progress", "", "started|none|completed")
	df.StringVar(&previewDaily.TeacherMemo, "memo", "", "teacher memo")

	rf := previewReportCmd.Flags()
	rf.StringVar(&previewReport.StudentName, "name", "", "student full name")
	rf.StringVar((*string)(&previewReport.StudentAge), "age", "", "student age")
	rf.StringVar(&previewReport.ClassName, "class", "", "class name")
	rf.StringVar(&previewReport.TeacherMemo, "memo", "", "teacher observation memo")
	rf.StringVar(&previewReport.ParentRequest, "parent-request", "", "parent request")

	previewCmd.AddCommand(previewDailyCmd, previewReportCmd)
	rootCmd.AddCommand(serveCmd, previewCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "initializing logger")
	}
	return l, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Debug && !verbose {
		l, err := newLogger(true)
		if err != nil {
			return err
		}
		_ = logger.Sync()
		logger = l
	}

	llm, err := buildLLM(cfg.LLM)
	if err != nil {
		return err
	}
	agent, err := generator.NewAgent(llm, agentOptions(cfg), logger.Named("generator"))
	if err != nil {
		return err
	}
	srv, err := server.New(agent, server.Options{
		AcademyName:        cfg.AcademyName,
		DraftsTTL:          cfg.DraftsTTL,
		DisableRequestLogs: cfg.Server.DisableRequestLogs,
	}, logger.Named("http"))
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if listenAddr != "" {
		addr = listenAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(addr) }()

	logger.Info("artwriter started",
		zap.String("env", cfg.Env),
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down")
	}
	return <-errCh
}

func agentOptions(cfg config.Config) generator.Options {
	return generator.Options{
		Prompt:        generator.PromptOptions{AcademyName: cfg.AcademyName},
		DailyTimeout:  cfg.Daily.Timeout,
		ReportTimeout: cfg.Report.Timeout,
		Daily:         generator.ModelParams{Temperature: cfg.Daily.Temperature, MaxTokens: cfg.Daily.MaxTokens},
		Report:        generator.ModelParams{Temperature: cfg.Report.Temperature, MaxTokens: cfg.Report.MaxTokens},
	}
}

func buildLLM(cfg config.LLM) (generator.LLMClient, error) {
	switch cfg.Provider {
	case "openai":
		return generator.NewOpenAILLMFromConfig(&generator.LLMSettings{
			Provider: cfg.Provider,
			Model:    cfg.Model,
			APIKey:   cfg.APIKey,
			BaseURL:  cfg.BaseURL,
		})
	case "mock":
		// 로컬 확인용. 외부 호출 없음
		return generator.MockLLM{}, nil
	default:
		return nil, errors.Errorf("llm provider %s not supported", cfg.Provider)
	}
}

// previewPromptOptions reads the academy name from config when it loads;
// preview never needs an API key, so load errors are only logged.
func previewPromptOptions() generator.PromptOptions {
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Debug("preview without config", zap.Error(err))
		return generator.PromptOptions{}
	}
	return generator.PromptOptions{AcademyName: cfg.AcademyName}
}

func printPrompt(w io.Writer, p generator.Prompt) error {
	_, err := fmt.Fprintf(w, "=== system ===\n%s\n=== user ===\n%s", p.System, p.User)
	if err != nil {
		return err
	}
	if len(p.Images) > 0 {
		_, err = fmt.Fprintf(w, "=== images: %d ===\n", len(p.Images))
	}
	return err
}
