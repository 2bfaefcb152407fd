package generator

import (
	"context"

	"google.golang.org/genai"

	"github.com/Deepak-ai-93/instapost/pkg/domain"
)

// ContentGenerator は Gemini の生成APIを抽象化するインターフェースです。
// *genai.Models がそのまま満たします。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// HTTPClient は、HTTPリクエストを実行し、URLからデータを取得するためのインターフェースです。
type HTTPClient interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// Generator はサーバーや CLI が利用する統合窓口です。
type Generator interface {
	GenerateCaption(ctx context.Context, req domain.CaptionRequest) (*domain.CaptionResult, error)
	GenerateLogo(ctx context.Context, req domain.LogoRequest) (*domain.LogoResult, error)
	GenerateImage(ctx context.Context, req domain.ImageRequest) (*domain.ImageResult, error)
	GeneratePostDetails(ctx context.Context, req domain.PostDetailsRequest) (*domain.PostDetails, error)
	GeneratePost(ctx context.Context, req domain.PostDetailsRequest) (*domain.PostResult, error)
}
