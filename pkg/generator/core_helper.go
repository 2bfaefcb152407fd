package generator

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/Deepak-ai-93/instapost/pkg/domain"
	"github.com/Deepak-ai-93/instapost/pkg/imgutil"
	"github.com/Deepak-ai-93/instapost/pkg/prompt"
)

// buildContents は Payload を1つのユーザーコンテンツに変換します。パーツの順序は保たれます。
// Optional なメディアが変換できない場合は破棄して続行します。
func (c *GeminiCore) buildContents(ctx context.Context, payload prompt.Payload) ([]*genai.Content, error) {
	parts := make([]*genai.Part, 0, len(payload))
	for _, p := range payload {
		if !p.IsMedia() {
			parts = append(parts, genai.NewPartFromText(p.Text))
			continue
		}

		part, err := c.prepareImagePart(p.Media)
		if err != nil {
			if p.Media.Optional {
				slog.WarnContext(ctx, "任意画像を変換できないため破棄します", "role", p.Media.Role, "error", err)
				continue
			}
			return nil, &domain.InvalidInputError{Field: string(p.Media.Role), Reason: err.Error()}
		}
		parts = append(parts, part)
	}

	if len(parts) == 0 {
		return nil, &domain.InvalidInputError{Reason: "empty prompt payload"}
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, nil
}

// prepareImagePart は data URI をインラインデータのパーツに変換します。
// リモート URL はここに届く前に resolveReference で data URI に変換されている必要があります。
func (c *GeminiCore) prepareImagePart(m *prompt.Media) (*genai.Part, error) {
	if !imgutil.IsDataURI(m.URL) {
		return nil, fmt.Errorf("未解決の参照です: %s", m.URL)
	}
	d, err := imgutil.ParseImageDataURI(m.URL)
	if err != nil {
		return nil, err
	}

	data, mimeType := d.Data, d.MIMEType
	if c.opts.CompressInline && m.Role != prompt.RoleLogo {
		var shrunk bool
		data, mimeType, shrunk = imgutil.ShrinkForInline(data, mimeType, c.opts.CompressThreshold, c.opts.CompressQuality)
		if shrunk {
			slog.Debug("インライン画像を再圧縮しました", "role", m.Role, "from", len(d.Data), "to", len(data))
		}
	}
	return c.toPart(data, mimeType)
}

func (c *GeminiCore) toPart(data []byte, mimeType string) (*genai.Part, error) {
	detected := http.DetectContentType(data)
	if !strings.HasPrefix(detected, "image/") {
		return nil, fmt.Errorf("画像ではないデータです: %s", detected)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = detected
	}
	return genai.NewPartFromBytes(data, mimeType), nil
}

// resolveReference は任意の参照画像を data URI に揃えます。
// data URI はそのまま返し、http(s) URL は安全性を確認してから取得します。
func (c *GeminiCore) resolveReference(ctx context.Context, rawURL string) (string, error) {
	if imgutil.IsDataURI(rawURL) {
		return rawURL, nil
	}

	data, err := c.fetchImageData(ctx, rawURL)
	if err != nil {
		return "", err
	}
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("取得したデータが画像ではありません: %s", mimeType)
	}
	return imgutil.EncodeDataURI(mimeType, data), nil
}

// resolveOptionalReference は resolveReference の失敗を警告ログに留め、空文字を返します。
func (c *GeminiCore) resolveOptionalReference(ctx context.Context, field, rawURL string) string {
	if rawURL == "" {
		return ""
	}
	resolved, err := c.resolveReference(ctx, rawURL)
	if err != nil {
		soft := &domain.SoftFieldError{Field: field, Value: rawURL, Err: err}
		slog.WarnContext(ctx, "参照画像を取得できないため破棄して続行します", "field", soft.Field, "value", soft.Value, "error", soft.Err)
		return ""
	}
	return resolved
}

func (c *GeminiCore) fetchImageData(ctx context.Context, rawURL string) ([]byte, error) {
	if safe, err := c.urlGuard(rawURL); err != nil || !safe {
		return nil, fmt.Errorf("安全ではないURLが指定されました: %w", err)
	}

	data, err := c.httpClient.FetchBytes(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("画像の取得に失敗しました: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("取得した画像が空です: %s", rawURL)
	}
	return data, nil
}
