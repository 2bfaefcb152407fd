package adapters

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"sync/atomic"

	"google.golang.org/genai"
)

// mockDoer は httpkit.Doer のテスト用モックなのだ。
type mockDoer struct {
	calls  atomic.Int32
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockDoer) Do(req *http.Request) (*http.Response, error) {
	m.calls.Add(1)
	return m.doFunc(req)
}

// okResponse は Content-Length を持たない 200 応答を返すのだ。
func okResponse(body []byte) *http.Response {
	return &http.Response{
		StatusCode:    http.StatusOK,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: -1,
	}
}

// mockContentGenerator は generator.ContentGenerator のテスト用モックなのだ。
type mockContentGenerator struct {
	mu     sync.Mutex
	models []string
	resp   *genai.GenerateContentResponse
	err    error
}

func (m *mockContentGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.mu.Lock()
	m.models = append(m.models, model)
	m.mu.Unlock()
	return m.resp, m.err
}
