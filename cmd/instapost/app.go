package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/Deepak-ai-93/instapost/pkg/adapters"
	"github.com/Deepak-ai-93/instapost/pkg/config"
	"github.com/Deepak-ai-93/instapost/pkg/generator"
	"github.com/Deepak-ai-93/instapost/pkg/prompt"
	"github.com/Deepak-ai-93/instapost/pkg/server"
)

// app はコマンド間で共有する設定と依存関係の組み立て方です。
type app struct {
	configPath string
	verbose    bool

	cfg       *config.Config
	logOutput io.Writer

	// reader と writer は画像・テンプレートの入出力先です。既定ではローカルファイルのみを扱い、
	// gs:// のパスが指定されたときに GCS クライアント付きのものへ切り替えます。
	reader remoteio.InputReader
	writer remoteio.OutputWriter
	gcs    remoteio.IOFactory

	// newGCSFactory と newGenerator はテストで差し替えます。
	newGCSFactory func(ctx context.Context) (remoteio.IOFactory, error)
	newGenerator  func(ctx context.Context, cfg *config.Config, reader remoteio.InputReader) (generator.Generator, error)
}

func newApp() *app {
	return &app{
		logOutput:     os.Stderr,
		reader:        remoteio.NewUniversalInputReader(nil, nil),
		writer:        remoteio.NewUniversalIOWriter(nil, nil),
		newGCSFactory: gcsfactory.New,
		newGenerator:  buildGenerator,
	}
}

// load は設定を読み込み、既定のロガーを設定します。
func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	slog.SetDefault(newLogger(a.logOutput, cfg.Logging, a.verbose))
	return nil
}

func (a *app) generator(ctx context.Context) (generator.Generator, error) {
	reader, _, err := a.storage(ctx, a.cfg.Templates.Path)
	if err != nil {
		return nil, err
	}
	return a.newGenerator(ctx, a.cfg, reader)
}

// storage は paths に gs:// が含まれていれば GCS クライアントを一度だけ初期化し、入出力先を返します。
func (a *app) storage(ctx context.Context, paths ...string) (remoteio.InputReader, remoteio.OutputWriter, error) {
	if a.gcs != nil || !slices.ContainsFunc(paths, remoteio.IsGCSURI) {
		return a.reader, a.writer, nil
	}

	f, err := a.newGCSFactory(ctx)
	if err != nil {
		return nil, nil, err
	}
	reader, err := f.InputReader()
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	writer, err := f.OutputWriter()
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	a.gcs, a.reader, a.writer = f, reader, writer
	return reader, writer, nil
}

// close は初期化済みの GCS クライアントを閉じます。
func (a *app) close() error {
	if a.gcs == nil {
		return nil
	}
	return a.gcs.Close()
}

func newLogger(w io.Writer, lc config.LoggingConfig, verbose bool) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(lc.Level)); err != nil {
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if strings.EqualFold(lc.Format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(server.ContextHandler{Handler: h})
}

// buildGenerator は設定から GeminiGenerator を組み立てます。
func buildGenerator(ctx context.Context, cfg *config.Config, reader remoteio.InputReader) (generator.Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client, err := adapters.NewGeminiClient(ctx, adapters.GeminiConfig{
		APIKey:   cfg.Gemini.APIKey,
		Backend:  cfg.Gemini.Backend,
		Project:  cfg.Gemini.Project,
		Location: cfg.Gemini.Location,
	})
	if err != nil {
		return nil, err
	}

	fetcher := adapters.NewReferenceFetcher(
		adapters.NewHTTPClient(cfg.GetFetchTimeout()),
		cfg.Reference.MaxBytes,
	)
	core, err := generator.NewGeminiCore(adapters.NewLoggingGenerator(client.Models, nil), fetcher, generator.Options{
		TextModel:         cfg.Gemini.TextModel,
		ImageModel:        cfg.Gemini.ImageModel,
		MaxRetries:        cfg.Retry.MaxRetries,
		Backoff:           cfg.GetRetryBackoff(),
		CompressInline:    cfg.Reference.Compress,
		CompressQuality:   cfg.Reference.CompressQuality,
		CompressThreshold: cfg.Reference.CompressThresholdBytes,
	})
	if err != nil {
		return nil, err
	}

	tmpl, err := prompt.LoadTemplates(ctx, reader, cfg.Templates.Path)
	if err != nil {
		return nil, err
	}
	assembler, err := prompt.NewAssembler(tmpl)
	if err != nil {
		return nil, err
	}
	return generator.NewGeminiGenerator(core, assembler)
}
