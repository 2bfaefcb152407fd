package prompt

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Deepak-ai-93/instapost/pkg/domain"
)

// imageData は画像生成・編集テンプレートに渡すデータです。
type imageData struct {
	Prompt          string
	EditInstruction string
	HasLogo         bool
}

// PostImageData は投稿画像プロンプト（2段目）のテンプレートに渡すデータです。
// ロゴの節は含めません。ロゴは画像生成時に取得できた場合だけ image_generate の節として加わります。
type PostImageData struct {
	Niche            string
	Headline         string
	ImageDescription string
	ContactInfo      string
}

// Assembler はテンプレートと入力レコードから Payload を組み立てます。
// ネットワークアクセスや副作用は持ちません。
type Assembler struct {
	caption       *template.Template
	logo          *template.Template
	imageGenerate *template.Template
	imageEdit     *template.Template
	postDetails   *template.Template
	postImage     *template.Template
}

// NewAssembler はすべてのテンプレートを事前に解析します。
func NewAssembler(t Templates) (*Assembler, error) {
	a := &Assembler{}
	for _, f := range []struct {
		name string
		text string
		dst  **template.Template
	}{
		{"caption", t.Caption, &a.caption},
		{"logo", t.Logo, &a.logo},
		{"image_generate", t.ImageGenerate, &a.imageGenerate},
		{"image_edit", t.ImageEdit, &a.imageEdit},
		{"post_details", t.PostDetails, &a.postDetails},
		{"post_image", t.PostImage, &a.postImage},
	} {
		if strings.TrimSpace(f.text) == "" {
			return nil, fmt.Errorf("テンプレート %s が空です", f.name)
		}
		tmpl, err := template.New(f.name).Option("missingkey=error").Parse(f.text)
		if err != nil {
			return nil, fmt.Errorf("テンプレート %s の解析に失敗しました: %w", f.name, err)
		}
		*f.dst = tmpl
	}
	return a, nil
}

func render(tmpl *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("テンプレート %s の展開に失敗しました: %w", tmpl.Name(), err)
	}
	return strings.TrimSpace(sb.String()), nil
}

// BuildCaption は [写真, 指示] の順で Payload を組み立てます。
func (a *Assembler) BuildCaption(req domain.CaptionRequest) (Payload, error) {
	text, err := render(a.caption, req)
	if err != nil {
		return nil, err
	}
	return Payload{
		mediaPart(req.PhotoDataURI, RolePhoto, false),
		textPart(text),
	}, nil
}

// BuildLogo はロゴ生成用のテキストのみの Payload を組み立てます。
// 会社名の節は CompanyName がある場合だけ現れます。
func (a *Assembler) BuildLogo(req domain.LogoRequest) (Payload, error) {
	text, err := render(a.logo, req)
	if err != nil {
		return nil, err
	}
	return Payload{textPart(text)}, nil
}

// BuildImage は画像生成・編集の Payload を組み立てます。
// 生成: [ロゴ?] [プロンプト]、編集: [ロゴ?] [ベース画像] [編集指示]。
func (a *Assembler) BuildImage(req domain.ImageRequest) (Payload, error) {
	data := imageData{
		Prompt:          req.Prompt,
		EditInstruction: req.EditInstruction,
		HasLogo:         req.LogoImageURL != "",
	}

	var payload Payload
	if data.HasLogo {
		payload = append(payload, mediaPart(req.LogoImageURL, RoleLogo, true))
	}

	switch req.Mode() {
	case domain.ImageModeEdit:
		text, err := render(a.imageEdit, data)
		if err != nil {
			return nil, err
		}
		payload = append(payload, mediaPart(req.BaseImageDataURI, RoleBaseImage, false), textPart(text))
	case domain.ImageModeGenerate:
		text, err := render(a.imageGenerate, data)
		if err != nil {
			return nil, err
		}
		payload = append(payload, textPart(text))
	default:
		return nil, &domain.InvalidInputError{
			Reason: "either a prompt or a base image with an edit instruction must be provided",
		}
	}
	return payload, nil
}

// BuildPostDetails は投稿文面生成（1段目）の Payload を組み立てます。
func (a *Assembler) BuildPostDetails(req domain.PostDetailsRequest) (Payload, error) {
	text, err := render(a.postDetails, req)
	if err != nil {
		return nil, err
	}
	return Payload{textPart(text)}, nil
}

// BuildPostImagePrompt は1段目で得た見出しを使って投稿画像のプロンプト（2段目）を作ります。
func (a *Assembler) BuildPostImagePrompt(data PostImageData) (string, error) {
	if strings.TrimSpace(data.Headline) == "" {
		return "", fmt.Errorf("見出しが空のため投稿画像プロンプトを組み立てられません")
	}
	return render(a.postImage, data)
}
