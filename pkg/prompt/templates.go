package prompt

import (
	"context"
	_ "embed"
	"fmt"
	"io"

	"github.com/shouni/go-remote-io/pkg/remoteio"
	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var defaultTemplatesYAML []byte

// Templates はフローごとのプロンプトテンプレート本文です。
// ロジックではなく設定データとして外部から注入します。
type Templates struct {
	Caption       string `yaml:"caption"`
	Logo          string `yaml:"logo"`
	ImageGenerate string `yaml:"image_generate"`
	ImageEdit     string `yaml:"image_edit"`
	PostDetails   string `yaml:"post_details"`
	PostImage     string `yaml:"post_image"`
}

// DefaultTemplates は埋め込みの既定テンプレートを返します。
func DefaultTemplates() (Templates, error) {
	var t Templates
	if err := yaml.Unmarshal(defaultTemplatesYAML, &t); err != nil {
		return Templates{}, fmt.Errorf("既定テンプレートの解析に失敗しました: %w", err)
	}
	return t, nil
}

// LoadTemplates は既定テンプレートに、path の YAML で指定された項目を上書きします。
// path はローカルパスのほか gs:// や s3:// も指定できます。空の場合は既定値のみを返します。
func LoadTemplates(ctx context.Context, reader remoteio.InputReader, path string) (Templates, error) {
	t, err := DefaultTemplates()
	if err != nil {
		return Templates{}, err
	}
	if path == "" {
		return t, nil
	}

	rc, err := reader.Open(ctx, path)
	if err != nil {
		return Templates{}, fmt.Errorf("テンプレートファイルを開けませんでした: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return Templates{}, fmt.Errorf("テンプレートファイルの読み込みに失敗しました: %w", err)
	}
	var override Templates
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Templates{}, fmt.Errorf("テンプレートファイルの解析に失敗しました: %w", err)
	}
	t.merge(override)
	return t, nil
}

func (t *Templates) merge(o Templates) {
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&t.Caption, o.Caption},
		{&t.Logo, o.Logo},
		{&t.ImageGenerate, o.ImageGenerate},
		{&t.ImageEdit, o.ImageEdit},
		{&t.PostDetails, o.PostDetails},
		{&t.PostImage, o.PostImage},
	} {
		if f.src != "" {
			*f.dst = f.src
		}
	}
}
