package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/edusight/reportgen/internal/embedding"
	"github.com/edusight/reportgen/internal/handler"
	"github.com/edusight/reportgen/internal/model"
	"github.com/edusight/reportgen/internal/report"
	"github.com/edusight/reportgen/internal/similarity"
	"github.com/edusight/reportgen/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "reportgen",
		Short: "Student report and text similarity HTTP service",
	}

	serve := serveCmd()
	root.AddCommand(serve, reportCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `reportgen --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP report server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "reportgen.db", "SQLite database path for stored reports")
	f.String("embed-url", "http://localhost:11434/v1", "OpenAI-compatible API base URL")
	f.String("embed-key", "ollama", "API key for the embeddings endpoint")
	f.String("embed-model", "nomic-embed-text", "Embedding model name")
	f.StringSlice("cors-origins", nil, "Allowed CORS origins (empty disables cross-origin access)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a student report PDF from a JSON file",
		RunE:  runReport,
	}
	f := cmd.Flags()
	f.StringP("input", "i", "", "Path to a report request JSON file (required)")
	f.StringP("output", "o", "", "Output PDF path (default <id>-report.pdf)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("REPORTGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("reportgen")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/reportgen")
	v.AddConfigPath("/etc/reportgen")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	// Open the artifact store.
	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	// Create the embedding client once at startup and verify the endpoint
	// before accepting traffic.
	embedder := embedding.NewClient(
		v.GetString("embed-url"),
		v.GetString("embed-key"),
		v.GetString("embed-model"),
	)
	if err := embedder.Ping(context.Background()); err != nil {
		return fmt.Errorf("embeddings health check: %w", err)
	}
	slog.Info("embeddings endpoint OK",
		"url", v.GetString("embed-url"),
		"model", v.GetString("embed-model"))

	cfg := model.ServerConfig{
		Addr:           v.GetString("addr"),
		AllowedOrigins: v.GetStringSlice("cors-origins"),
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}

	h := handler.New(similarity.New(embedder), db)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// Cross-origin access stays off unless origins were configured explicitly.
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: cfg.AllowedMethods,
			AllowedHeaders: cfg.AllowedHeaders,
			MaxAge:         300,
		}))
	}
	h.Routes(r)

	slog.Info("starting server",
		"addr", cfg.Addr,
		"db", v.GetString("db"),
		"cors_origins", cfg.AllowedOrigins,
	)
	return http.ListenAndServe(cfg.Addr, r)
}

func runReport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	data, err := os.ReadFile(v.GetString("input"))
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	req, err := report.ParseRequest(data)
	if err != nil {
		return fmt.Errorf("parse request: %w", err)
	}

	result, err := report.Generate(*req)
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	outPath := v.GetString("output")
	if outPath == "" {
		outPath = result.Filename
	}
	if err := os.WriteFile(outPath, result.PDF, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	slog.Info("report written", "path", outPath, "student_id", result.StudentID, "bytes", len(result.PDF))
	return nil
}
