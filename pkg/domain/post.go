package domain

import (
	"context"
	"log/slog"
	"strings"
)

// CaptionRequest はアップロード画像へのキャプション生成要求です。
type CaptionRequest struct {
	PhotoDataURI string `json:"photo_data_uri" validate:"required,datauri"`
}

// Normalize は入力を整形・検証します。
func (r *CaptionRequest) Normalize(_ context.Context) error {
	r.PhotoDataURI = strings.TrimSpace(r.PhotoDataURI)
	if err := validateInput(r); err != nil {
		return err
	}
	return requireImageDataURI("photo_data_uri", r.PhotoDataURI)
}

// CaptionResult は生成されたキャプションです。
type CaptionResult struct {
	Caption string `json:"caption" validate:"required"`
}

// PostDetailsRequest はニッチから投稿一式の文面を生成する要求です。
// Niche 以外はプロンプトの条件節としてのみ使われます。
type PostDetailsRequest struct {
	Niche            string `json:"niche" validate:"required,max=300"`
	Category         string `json:"category,omitempty" validate:"max=100"`
	ImageDescription string `json:"image_description,omitempty" validate:"max=4000"`
	LogoURL          string `json:"logo_url,omitempty"`
	ContactInfo      string `json:"contact_info,omitempty" validate:"max=500"`
	HookStyle        string `json:"hook_style,omitempty" validate:"max=1000"`
}

// Normalize は入力を整形・検証します。不正なロゴ URL は破棄されます。
func (r *PostDetailsRequest) Normalize(ctx context.Context) ([]*SoftFieldError, error) {
	r.Niche = strings.TrimSpace(r.Niche)
	r.Category = strings.TrimSpace(r.Category)
	r.ImageDescription = strings.TrimSpace(r.ImageDescription)
	r.LogoURL = strings.TrimSpace(r.LogoURL)
	r.ContactInfo = strings.TrimSpace(r.ContactInfo)
	r.HookStyle = strings.TrimSpace(r.HookStyle)

	var dropped []*SoftFieldError
	if soft := dropInvalidReference("logo_url", &r.LogoURL); soft != nil {
		slog.WarnContext(ctx, "不正なロゴURLを破棄して続行します", "field", soft.Field, "value", soft.Value, "error", soft.Err)
		dropped = append(dropped, soft)
	}
	return dropped, validateInput(r)
}

// PostDetails は投稿の文面一式と、画像生成用に組み立てたプロンプトです。
type PostDetails struct {
	EngagingCaption       string `json:"engaging_caption" validate:"required"`
	ProfessionalCaption   string `json:"professional_caption" validate:"required"`
	Hashtags              string `json:"hashtags" validate:"required"`
	SuggestedPostTime     string `json:"suggested_post_time" validate:"required"`
	HeadlineText          string `json:"headline_text" validate:"required"`
	Category              string `json:"category" validate:"required"`
	ImageGenerationPrompt string `json:"image_generation_prompt" validate:"required"`
	LogoURL               string `json:"logo_url,omitempty"`
}

// PostResult は文面と投稿画像をまとめた成果物です。
type PostResult struct {
	Details       PostDetails `json:"details"`
	ImageDataURIs []string    `json:"image_data_uris" validate:"min=1,dive,required,datauri"`
}
