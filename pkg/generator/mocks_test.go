package generator

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/Deepak-ai-93/instapost/pkg/imgutil"
	"github.com/Deepak-ai-93/instapost/pkg/prompt"
)

// --- Mocks ---

type generateCall struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

// parts は呼び出しで送られたパーツを返すのだ。
func (c generateCall) parts() []*genai.Part {
	if len(c.contents) == 0 {
		return nil
	}
	return c.contents[0].Parts
}

type mockAIClient struct {
	mu    sync.Mutex
	calls []generateCall

	// generateFunc は呼び出し回数（1始まり）とモデル名を受け取るのだ。
	generateFunc func(n int, model string) (*genai.GenerateContentResponse, error)
}

func (m *mockAIClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.mu.Lock()
	m.calls = append(m.calls, generateCall{model: model, contents: contents, config: config})
	n := len(m.calls)
	m.mu.Unlock()

	if m.generateFunc == nil {
		return nil, nil
	}
	return m.generateFunc(n, model)
}

func (m *mockAIClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type mockHTTPClient struct {
	data  []byte
	err   error
	calls []string
}

func (m *mockHTTPClient) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.calls = append(m.calls, url)
	return m.data, m.err
}

type sleepRecorder struct {
	waits []time.Duration
	err   error
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return s.err
}

// --- Helpers ---

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{uint8(x * 60), uint8(y * 60), 128, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testPNGDataURI(t *testing.T) string {
	t.Helper()
	return imgutil.EncodeDataURI("image/png", testPNG(t))
}

func imageResponse(data []byte) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []*genai.Part{
					{Text: "Here is your image."},
					{InlineData: &genai.Blob{MIMEType: "image/png", Data: data}},
				},
			},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Parts: []*genai.Part{{Text: text}}},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}

type testEnv struct {
	gen   *GeminiGenerator
	core  *GeminiCore
	ai    *mockAIClient
	http  *mockHTTPClient
	sleep *sleepRecorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		ai:    &mockAIClient{},
		http:  &mockHTTPClient{},
		sleep: &sleepRecorder{},
	}

	core, err := NewGeminiCore(env.ai, env.http, Options{
		MaxRetries: DefaultMaxRetries,
		Backoff:    time.Second,
		Sleep:      env.sleep.sleep,
	})
	require.NoError(t, err)
	// 名前解決をしないように差し替えるのだ
	core.urlGuard = func(string) (bool, error) { return true, nil }

	tmpl, err := prompt.DefaultTemplates()
	require.NoError(t, err)
	assembler, err := prompt.NewAssembler(tmpl)
	require.NoError(t, err)

	gen, err := NewGeminiGenerator(core, assembler)
	require.NoError(t, err)

	env.gen = gen
	env.core = core
	return env
}
