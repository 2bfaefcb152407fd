package prompt

// MediaRole はメディアパーツが何を表すかを示します。
type MediaRole string

const (
	RoleLogo      MediaRole = "logo"
	RoleBaseImage MediaRole = "base_image"
	RolePhoto     MediaRole = "photo"
)

// Media は画像への参照です。URL は data URI か http(s) URL です。
// Optional なメディアは読み込みに失敗した場合に破棄されます。
type Media struct {
	URL      string
	Role     MediaRole
	Optional bool
}

// Part はテキスト断片かメディア参照のどちらか一方を持ちます。
type Part struct {
	Text  string
	Media *Media
}

// IsMedia はメディアパーツかどうかを返します。
func (p Part) IsMedia() bool { return p.Media != nil }

// Payload は生成APIに渡すパーツの順序付きリストです。
// メディアパーツは指示テキストより前に置きます。
type Payload []Part

// MediaParts はメディアパーツだけを順序通りに返します。
func (p Payload) MediaParts() []*Media {
	var out []*Media
	for _, part := range p {
		if part.Media != nil {
			out = append(out, part.Media)
		}
	}
	return out
}

// Last は最後のパーツを返します。空の場合は false です。
func (p Payload) Last() (Part, bool) {
	if len(p) == 0 {
		return Part{}, false
	}
	return p[len(p)-1], true
}

func textPart(s string) Part {
	return Part{Text: s}
}

func mediaPart(url string, role MediaRole, optional bool) Part {
	return Part{Media: &Media{URL: url, Role: role, Optional: optional}}
}
