package generator

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/Deepak-ai-93/instapost/pkg/domain"
	"github.com/Deepak-ai-93/instapost/pkg/prompt"
)

var captionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"caption": {Type: genai.TypeString, Description: "Instagram caption for the photo, including hashtags"},
	},
	Required: []string{"caption"},
}

var postCopySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"engagingCaption":     {Type: genai.TypeString},
		"professionalCaption": {Type: genai.TypeString},
		"hashtags":            {Type: genai.TypeString},
		"suggestedPostTime":   {Type: genai.TypeString},
		"headlineText":        {Type: genai.TypeString},
		"category":            {Type: genai.TypeString},
	},
	Required: []string{
		"engagingCaption", "professionalCaption", "hashtags",
		"suggestedPostTime", "headlineText", "category",
	},
}

// GeminiGenerator はキャプション、ロゴ、画像、投稿文面の各フローをまとめた統合ジェネレーターです。
type GeminiGenerator struct {
	core      *GeminiCore
	assembler *prompt.Assembler
}

var _ Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator は GeminiGenerator を初期化するのだ。
func NewGeminiGenerator(core *GeminiCore, assembler *prompt.Assembler) (*GeminiGenerator, error) {
	if core == nil {
		return nil, fmt.Errorf("core (GeminiCore) is required")
	}
	if assembler == nil {
		return nil, fmt.Errorf("assembler (prompt.Assembler) is required")
	}
	return &GeminiGenerator{core: core, assembler: assembler}, nil
}

// GenerateCaption はアップロードされた写真に合うキャプションを生成するのだ。
func (g *GeminiGenerator) GenerateCaption(ctx context.Context, req domain.CaptionRequest) (*domain.CaptionResult, error) {
	if err := req.Normalize(ctx); err != nil {
		return nil, err
	}
	payload, err := g.assembler.BuildCaption(req)
	if err != nil {
		return nil, err
	}

	var out domain.CaptionResult
	if err := g.core.generateText(ctx, FlowCaption, payload, captionSchema, &out); err != nil {
		return nil, err
	}
	if err := domain.ValidateResult(FlowCaption, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateLogo は正方形のロゴ画像を1枚生成するのだ。
func (g *GeminiGenerator) GenerateLogo(ctx context.Context, req domain.LogoRequest) (*domain.LogoResult, error) {
	if err := req.Normalize(ctx); err != nil {
		return nil, err
	}
	payload, err := g.assembler.BuildLogo(req)
	if err != nil {
		return nil, err
	}

	uri, err := g.core.generateImage(ctx, FlowLogo, payload, &genai.ImageConfig{AspectRatio: logoAspectRatio})
	if err != nil {
		return nil, err
	}
	out := &domain.LogoResult{LogoImageDataURI: uri}
	if err := domain.ValidateResult(FlowLogo, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GenerateImage はプロンプトからの生成、またはベース画像の編集を行うのだ。
// ロゴは取得に失敗しても破棄して続行するのだ。
func (g *GeminiGenerator) GenerateImage(ctx context.Context, req domain.ImageRequest) (*domain.ImageResult, error) {
	if _, err := req.Normalize(ctx); err != nil {
		return nil, err
	}
	req.LogoImageURL = g.core.resolveOptionalReference(ctx, "logo_image_url", req.LogoImageURL)

	payload, err := g.assembler.BuildImage(req)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "画像生成リクエスト準備中",
		"model", g.core.opts.ImageModel, "mode", req.Mode().String(), "has_logo", req.LogoImageURL != "")

	uri, err := g.core.generateImage(ctx, FlowImage, payload, nil)
	if err != nil {
		return nil, err
	}
	out := &domain.ImageResult{ImageDataURIs: []string{uri}}
	if err := domain.ValidateResult(FlowImage, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GeneratePostDetails は投稿文面を生成し、その見出しから画像生成プロンプトを組み立てるのだ。
func (g *GeminiGenerator) GeneratePostDetails(ctx context.Context, req domain.PostDetailsRequest) (*domain.PostDetails, error) {
	if _, err := req.Normalize(ctx); err != nil {
		return nil, err
	}
	payload, err := g.assembler.BuildPostDetails(req)
	if err != nil {
		return nil, err
	}

	var pc postCopy
	if err := g.core.generateText(ctx, FlowPostDetails, payload, postCopySchema, &pc); err != nil {
		return nil, err
	}
	if err := domain.ValidateResult(FlowPostDetails, &pc); err != nil {
		return nil, err
	}

	imagePrompt, err := g.assembler.BuildPostImagePrompt(prompt.PostImageData{
		Niche:            req.Niche,
		Headline:         pc.HeadlineText,
		ImageDescription: req.ImageDescription,
		ContactInfo:      req.ContactInfo,
	})
	if err != nil {
		return nil, &domain.GenerationFailedError{Flow: FlowPostDetails, Reason: "cannot build image prompt", Err: err}
	}

	out := &domain.PostDetails{
		EngagingCaption:       pc.EngagingCaption,
		ProfessionalCaption:   pc.ProfessionalCaption,
		Hashtags:              pc.Hashtags,
		SuggestedPostTime:     pc.SuggestedPostTime,
		HeadlineText:          pc.HeadlineText,
		Category:              pc.Category,
		ImageGenerationPrompt: imagePrompt,
		LogoURL:               req.LogoURL,
	}
	if err := domain.ValidateResult(FlowPostDetails, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GeneratePost は投稿文面と、それに合わせた投稿画像をまとめて生成するのだ。
func (g *GeminiGenerator) GeneratePost(ctx context.Context, req domain.PostDetailsRequest) (*domain.PostResult, error) {
	details, err := g.GeneratePostDetails(ctx, req)
	if err != nil {
		return nil, err
	}

	img, err := g.GenerateImage(ctx, domain.ImageRequest{
		Prompt:       details.ImageGenerationPrompt,
		LogoImageURL: details.LogoURL,
	})
	if err != nil {
		return nil, err
	}

	out := &domain.PostResult{Details: *details, ImageDataURIs: img.ImageDataURIs}
	if err := domain.ValidateResult(FlowPost, out); err != nil {
		return nil, err
	}
	return out, nil
}
