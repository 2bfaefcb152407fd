package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/Deepak-ai-93/instapost/pkg/generator"
)

const (
	BackendGemini = "gemini"
	BackendVertex = "vertex"
)

// GeminiConfig は genai クライアントの接続設定です。
type GeminiConfig struct {
	APIKey   string
	Backend  string
	Project  string
	Location string
}

// NewGeminiClient は設定に応じて Gemini API または Vertex AI のクライアントを生成します。
// 返されたクライアントの Models は generator.ContentGenerator を満たします。
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*genai.Client, error) {
	cc := &genai.ClientConfig{}
	switch cfg.Backend {
	case "", BackendGemini:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini backend requires an API key")
		}
		cc.APIKey = cfg.APIKey
		cc.Backend = genai.BackendGeminiAPI
	case BackendVertex:
		if cfg.Project == "" || cfg.Location == "" {
			return nil, fmt.Errorf("vertex backend requires project and location")
		}
		cc.Project = cfg.Project
		cc.Location = cfg.Location
		cc.Backend = genai.BackendVertexAI
	default:
		return nil, fmt.Errorf("unknown gemini backend: %q", cfg.Backend)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return client, nil
}

// LoggingGenerator は呼び出しごとにモデル名、所要時間、終了理由、トークン数を記録するデコレーターです。
type LoggingGenerator struct {
	next   generator.ContentGenerator
	logger *slog.Logger
}

// NewLoggingGenerator は next をラップします。logger が nil の場合は slog.Default を使います。
func NewLoggingGenerator(next generator.ContentGenerator, logger *slog.Logger) *LoggingGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingGenerator{next: next, logger: logger}
}

func (l *LoggingGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	start := time.Now()
	resp, err := l.next.GenerateContent(ctx, model, contents, config)
	elapsed := time.Since(start)

	if err != nil {
		l.logger.WarnContext(ctx, "Gemini API 呼び出し失敗", "model", model, "elapsed", elapsed, "error", err)
		return nil, err
	}

	attrs := []any{"model", model, "elapsed", elapsed}
	if resp != nil {
		attrs = append(attrs, "candidates", len(resp.Candidates))
		if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
			attrs = append(attrs, "finish_reason", string(resp.Candidates[0].FinishReason))
		}
		if u := resp.UsageMetadata; u != nil {
			attrs = append(attrs,
				"prompt_tokens", u.PromptTokenCount,
				"candidate_tokens", u.CandidatesTokenCount,
				"total_tokens", u.TotalTokenCount,
			)
		}
	}
	l.logger.InfoContext(ctx, "Gemini API 呼び出し完了", attrs...)
	return resp, nil
}
