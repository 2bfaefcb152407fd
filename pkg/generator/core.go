package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/Deepak-ai-93/instapost/pkg/domain"
	"github.com/Deepak-ai-93/instapost/pkg/imgutil"
	"github.com/Deepak-ai-93/instapost/pkg/prompt"
)

// GeminiCore は Payload の変換、Gemini 呼び出し、再試行、出力抽出を担う基盤クラスです。
type GeminiCore struct {
	aiClient   ContentGenerator
	httpClient HTTPClient
	opts       Options
	retrier    Retrier

	urlGuard func(rawURL string) (bool, error)
}

// NewGeminiCore は依存関係を注入して GeminiCore を初期化します。
func NewGeminiCore(aiClient ContentGenerator, httpClient HTTPClient, opts Options) (*GeminiCore, error) {
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient is required")
	}
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}

	opts = opts.withDefaults()
	return &GeminiCore{
		aiClient:   aiClient,
		httpClient: httpClient,
		opts:       opts,
		retrier: Retrier{
			MaxRetries: opts.MaxRetries,
			Interval:   opts.Backoff,
			Sleep:      opts.Sleep,
		},
		urlGuard: IsSafeURL,
	}, nil
}

// generateText はテキストモデルを1回だけ呼び出し、JSON 出力を out にデコードします。
// 呼び出し失敗は再試行せず ExternalCallError として返します。
func (c *GeminiCore) generateText(ctx context.Context, flow string, payload prompt.Payload, schema *genai.Schema, out any) error {
	contents, err := c.buildContents(ctx, payload)
	if err != nil {
		return err
	}

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: mimeJSON,
		ResponseSchema:   schema,
	}

	start := time.Now()
	resp, err := c.aiClient.GenerateContent(ctx, c.opts.TextModel, contents, cfg)
	if err != nil {
		return &domain.ExternalCallError{Model: c.opts.TextModel, Attempts: 1, Err: err}
	}

	text, strategy, ok := Extract(resp, TextStrategies)
	if !ok {
		return &domain.GenerationFailedError{Flow: flow, Reason: describeEmptyResponse(resp, "text")}
	}
	slog.DebugContext(ctx, "テキスト出力を抽出しました",
		"flow", flow, "strategy", strategy, "elapsed", time.Since(start))

	if err := json.Unmarshal([]byte(stripCodeFence(text)), out); err != nil {
		return &domain.GenerationFailedError{Flow: flow, Reason: "model output is not valid JSON", Err: err}
	}
	return nil
}

// generateImage は画像モデルを呼び出し、最初の画像を data URI で返します。
// 呼び出し失敗は Retrier の上限まで再試行し、尽きた場合は GenerationFailedError になります。
func (c *GeminiCore) generateImage(ctx context.Context, flow string, payload prompt.Payload, imageCfg *genai.ImageConfig) (string, error) {
	contents, err := c.buildContents(ctx, payload)
	if err != nil {
		return "", err
	}

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{modalityText, modalityImage},
		ImageConfig:        imageCfg,
	}

	start := time.Now()
	resp, outcome := DoWithRetry(ctx, c.retrier, func(ctx context.Context) (*genai.GenerateContentResponse, error) {
		return c.aiClient.GenerateContent(ctx, c.opts.ImageModel, contents, cfg)
	})
	if resp == nil {
		slog.ErrorContext(ctx, "画像生成の呼び出しがすべて失敗しました",
			"flow", flow, "model", c.opts.ImageModel, "attempts", outcome.Attempts, "error", outcome.LastErr)
		return "", &domain.GenerationFailedError{
			Flow:   flow,
			Reason: fmt.Sprintf("model returned no response after %d attempt(s)", outcome.Attempts),
			Err:    outcome.LastErr,
		}
	}

	blob, strategy, ok := Extract(resp, ImageStrategies)
	if !ok {
		return "", &domain.GenerationFailedError{Flow: flow, Reason: describeEmptyResponse(resp, "image")}
	}
	slog.InfoContext(ctx, "画像出力を抽出しました",
		"flow", flow, "strategy", strategy, "mime_type", blob.MIMEType,
		"bytes", len(blob.Data), "attempts", outcome.Attempts, "elapsed", time.Since(start))

	return imgutil.EncodeDataURI(blob.MIMEType, blob.Data), nil
}
