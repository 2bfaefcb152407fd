package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Deepak-ai-93/instapost/pkg/domain"
)

// apiResp はハンドラーの処理結果です。Error があれば Body より優先されます。
type apiResp struct {
	Code  int
	Body  any
	Error error
}

// apiHandler は apiResp を返す関数を http.Handler に変換します。
type apiHandler func(r *http.Request) *apiResp

func (h apiHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := h(r)
	if resp.Error != nil {
		writeError(w, r, resp.Error)
		return
	}
	code := resp.Code
	if code == 0 {
		code = http.StatusOK
	}
	writeJSON(r.Context(), w, code, resp.Body)
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errBadRequest はリクエストボディの形式エラーです。
type errBadRequest struct {
	code string
	err  error
}

func (e *errBadRequest) Error() string { return e.err.Error() }
func (e *errBadRequest) Unwrap() error { return e.err }

var errRateLimited = errors.New("too many requests, slow down")

// classify はエラーを HTTP ステータスとエラーコードに変換します。
func classify(err error) (int, string) {
	var bad *errBadRequest
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "body_too_large"
	case errors.As(err, &bad):
		return http.StatusBadRequest, bad.code
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, domain.ErrExternalCall):
		return http.StatusBadGateway, "external_call_failed"
	case errors.Is(err, domain.ErrGenerationFailed):
		return http.StatusBadGateway, "generation_failed"
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	status, code := classify(err)

	msg := err.Error()
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
		msg = http.StatusText(status)
	}

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(ctx, level, "リクエスト処理に失敗しました",
		"method", r.Method, "path", r.URL.Path, "status", status, "code", code, "error", err)

	writeJSON(ctx, w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.ErrorContext(ctx, "レスポンスの書き込みに失敗しました", "error", err)
	}
}

// decodeJSON はボディを1つの JSON オブジェクトとして v に読み込みます。
// 未知のフィールドは拒否します。サイズ上限は bodyLimit ミドルウェアが設定します。
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return &errBadRequest{code: "invalid_json", err: fmt.Errorf("invalid request body: %w", err)}
	}
	if dec.More() {
		return &errBadRequest{code: "invalid_json", err: errors.New("invalid request body: multiple JSON values")}
	}
	return nil
}
