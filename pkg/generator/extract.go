package generator

import (
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// Strategy はレスポンスから出力を取り出す方法の1つです。
// 見つからなければ false を返し、次の Strategy に委ねます。
type Strategy[T any] struct {
	Name string
	Find func(resp *genai.GenerateContentResponse) (T, bool)
}

// Extract は strategies を先頭から順に試し、最初に見つかった値とその Strategy 名を返します。
func Extract[T any](resp *genai.GenerateContentResponse, strategies []Strategy[T]) (T, string, bool) {
	var zero T
	if resp == nil {
		return zero, "", false
	}
	for _, s := range strategies {
		if v, ok := s.Find(resp); ok {
			return v, s.Name, true
		}
	}
	return zero, "", false
}

// ImageStrategies は画像出力の抽出順序です。
var ImageStrategies = []Strategy[*genai.Blob]{
	{Name: "primary", Find: firstCandidateImage},
	{Name: "fallback", Find: anyCandidateImage},
}

// TextStrategies はテキスト出力の抽出順序です。
var TextStrategies = []Strategy[string]{
	{Name: "primary", Find: responseText},
	{Name: "fallback", Find: anyCandidateText},
}

func candidateParts(c *genai.Candidate) []*genai.Part {
	if c == nil || c.Content == nil {
		return nil
	}
	return c.Content.Parts
}

// firstCandidateImage は先頭候補の最初の image/* インラインデータを返します。
func firstCandidateImage(resp *genai.GenerateContentResponse) (*genai.Blob, bool) {
	if len(resp.Candidates) == 0 {
		return nil, false
	}
	for _, part := range candidateParts(resp.Candidates[0]) {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		if strings.HasPrefix(part.InlineData.MIMEType, "image/") {
			return part.InlineData, true
		}
	}
	return nil, false
}

// anyCandidateImage はすべての候補を走査します。MIME タイプが欠けている場合は中身から判定します。
func anyCandidateImage(resp *genai.GenerateContentResponse) (*genai.Blob, bool) {
	for _, c := range resp.Candidates {
		for _, part := range candidateParts(c) {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mimeType := part.InlineData.MIMEType
			if mimeType == "" || mimeType == "application/octet-stream" {
				mimeType = http.DetectContentType(part.InlineData.Data)
			}
			if strings.HasPrefix(mimeType, "image/") {
				return &genai.Blob{MIMEType: mimeType, Data: part.InlineData.Data}, true
			}
		}
	}
	return nil, false
}

func responseText(resp *genai.GenerateContentResponse) (string, bool) {
	text := strings.TrimSpace(resp.Text())
	return text, text != ""
}

// anyCandidateText は思考パートを除いた最初の非空テキストを返します。
func anyCandidateText(resp *genai.GenerateContentResponse) (string, bool) {
	for _, c := range resp.Candidates {
		for _, part := range candidateParts(c) {
			if part == nil || part.Thought {
				continue
			}
			if text := strings.TrimSpace(part.Text); text != "" {
				return text, true
			}
		}
	}
	return "", false
}

// describeEmptyResponse は出力が見つからなかった理由を組み立てます。
func describeEmptyResponse(resp *genai.GenerateContentResponse, want string) string {
	if resp == nil {
		return fmt.Sprintf("model returned no %s", want)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return fmt.Sprintf("model returned no %s (prompt blocked: %s)", want, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return fmt.Sprintf("model returned no %s (no candidates)", want)
	}
	if fr := resp.Candidates[0].FinishReason; fr != "" && fr != genai.FinishReasonStop && fr != genai.FinishReasonUnspecified {
		return fmt.Sprintf("model returned no %s (finish reason: %s)", want, fr)
	}
	return fmt.Sprintf("model returned no %s", want)
}
