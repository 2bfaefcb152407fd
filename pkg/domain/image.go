package domain

import (
	"context"
	"log/slog"
	"strings"
)

// ImageMode は画像フローがどちらの経路で実行されるかを表します。
type ImageMode int

const (
	ImageModeInvalid ImageMode = iota
	ImageModeGenerate
	ImageModeEdit
)

func (m ImageMode) String() string {
	switch m {
	case ImageModeGenerate:
		return "generate"
	case ImageModeEdit:
		return "edit"
	default:
		return "invalid"
	}
}

// ImageRequest は投稿画像の生成、または既存画像の編集要求です。
// Prompt か、BaseImageDataURI と EditInstruction の組のどちらかが必須です。
type ImageRequest struct {
	Prompt           string `json:"prompt,omitempty" validate:"max=8000"`
	BaseImageDataURI string `json:"base_image_data_uri,omitempty" validate:"omitempty,datauri"`
	EditInstruction  string `json:"edit_instruction,omitempty" validate:"max=4000"`
	LogoImageURL     string `json:"logo_image_url,omitempty"`
}

// Mode は入力の組み合わせから実行経路を決定します。
// 編集用の組が揃っていれば、プロンプトより優先されます。
func (r *ImageRequest) Mode() ImageMode {
	switch {
	case r.BaseImageDataURI != "" && r.EditInstruction != "":
		return ImageModeEdit
	case r.Prompt != "":
		return ImageModeGenerate
	default:
		return ImageModeInvalid
	}
}

// Normalize は入力を整形・検証します。
// 不正なロゴ URL は破棄して警告ログを残し、その内容を戻り値で返します。
func (r *ImageRequest) Normalize(ctx context.Context) ([]*SoftFieldError, error) {
	r.Prompt = strings.TrimSpace(r.Prompt)
	r.BaseImageDataURI = strings.TrimSpace(r.BaseImageDataURI)
	r.EditInstruction = strings.TrimSpace(r.EditInstruction)
	r.LogoImageURL = strings.TrimSpace(r.LogoImageURL)

	var dropped []*SoftFieldError
	if soft := dropInvalidReference("logo_image_url", &r.LogoImageURL); soft != nil {
		slog.WarnContext(ctx, "不正なロゴURLを破棄して続行します", "field", soft.Field, "value", soft.Value, "error", soft.Err)
		dropped = append(dropped, soft)
	}

	if err := validateInput(r); err != nil {
		return dropped, err
	}

	switch r.Mode() {
	case ImageModeEdit:
		if err := requireImageDataURI("base_image_data_uri", r.BaseImageDataURI); err != nil {
			return dropped, err
		}
	case ImageModeInvalid:
		return dropped, &InvalidInputError{
			Reason: "either a prompt or a base image with an edit instruction must be provided",
		}
	}
	return dropped, nil
}

// ImageResult は生成・編集された画像です。
// 現在は常に1枚を返しますが、形式は配列で固定しています。
type ImageResult struct {
	ImageDataURIs []string `json:"image_data_uris" validate:"len=1,dive,required,datauri"`
}

// LogoRequest はロゴ生成の要求です。
type LogoRequest struct {
	Niche           string `json:"niche" validate:"required,max=300"`
	LogoDescription string `json:"logo_description" validate:"required,max=4000"`
	CompanyName     string `json:"company_name,omitempty" validate:"max=200"`
}

// Normalize は入力を整形・検証します。
func (r *LogoRequest) Normalize(_ context.Context) error {
	r.Niche = strings.TrimSpace(r.Niche)
	r.LogoDescription = strings.TrimSpace(r.LogoDescription)
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	return validateInput(r)
}

// LogoResult は生成されたロゴ画像です。
type LogoResult struct {
	LogoImageDataURI string `json:"logo_image_data_uri" validate:"required,datauri"`
}
