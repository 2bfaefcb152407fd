package generator

import (
	"time"
)

const (
	DefaultTextModel         = "gemini-2.5-flash"
	DefaultImageModel        = "gemini-2.5-flash-image"
	DefaultMaxRetries        = 1
	DefaultBackoff           = time.Second
	DefaultCompressQuality   = 75
	DefaultCompressThreshold = 4 << 20

	modalityText    = "TEXT"
	modalityImage   = "IMAGE"
	mimeJSON        = "application/json"
	logoAspectRatio = "1:1"
)

// フロー名（ログとエラーで使用）
const (
	FlowCaption     = "caption"
	FlowLogo        = "logo"
	FlowImage       = "image"
	FlowPostDetails = "post_details"
	FlowPost        = "post"
)

// Options は GeminiCore の動作設定です。
type Options struct {
	TextModel  string
	ImageModel string

	// MaxRetries は画像生成呼び出しの再試行回数で、0 か 1 です。テキスト生成は再試行しません。
	MaxRetries int
	Backoff    time.Duration
	Sleep      SleepFunc

	// CompressInline が true の場合、CompressThreshold を超える入力画像を JPEG に再圧縮します。
	CompressInline    bool
	CompressQuality   int
	CompressThreshold int
}

func (o Options) withDefaults() Options {
	if o.TextModel == "" {
		o.TextModel = DefaultTextModel
	}
	if o.ImageModel == "" {
		o.ImageModel = DefaultImageModel
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.MaxRetries > DefaultMaxRetries {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.Backoff <= 0 {
		o.Backoff = DefaultBackoff
	}
	if o.Sleep == nil {
		o.Sleep = SleepContext
	}
	if o.CompressQuality <= 0 || o.CompressQuality > 100 {
		o.CompressQuality = DefaultCompressQuality
	}
	if o.CompressThreshold <= 0 {
		o.CompressThreshold = DefaultCompressThreshold
	}
	return o
}

// postCopy はテキストモデルが JSON で返す投稿文面です。
type postCopy struct {
	EngagingCaption     string `json:"engagingCaption" validate:"required"`
	ProfessionalCaption string `json:"professionalCaption" validate:"required"`
	Hashtags            string `json:"hashtags" validate:"required"`
	SuggestedPostTime   string `json:"suggestedPostTime" validate:"required"`
	HeadlineText        string `json:"headlineText" validate:"required"`
	Category            string `json:"category" validate:"required"`
}
