package adapters

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"golang.org/x/sync/singleflight"
)

// DefaultMaxReferenceBytes は参照画像として受け付ける最大サイズです。
const DefaultMaxReferenceBytes = 10 << 20

// NewHTTPClient はタイムアウト付きの httpkit クライアントを生成します。
// SSRF / DNS Rebinding 対策付きのトランスポートが使われます。
func NewHTTPClient(timeout time.Duration) httpkit.ClientInterface {
	return httpkit.New(timeout)
}

// ReferenceFetcher はロゴなどの参照画像をダウンロードします。
// 同じ URL への同時リクエストは1回の取得にまとめます。結果は保持しません。
type ReferenceFetcher struct {
	client   httpkit.Doer
	maxBytes int64
	group    singleflight.Group
}

// NewReferenceFetcher は client を使う ReferenceFetcher を生成します。maxBytes が 0 以下なら既定値です。
// 共有される取得の時間上限は client 側のタイムアウトです。
func NewReferenceFetcher(client httpkit.Doer, maxBytes int) *ReferenceFetcher {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxReferenceBytes
	}
	return &ReferenceFetcher{client: client, maxBytes: int64(maxBytes)}
}

// FetchBytes は generator.HTTPClient を満たします。
// 呼び出し元のキャンセルはその呼び出しだけを終了させ、同じ URL を待つ他の呼び出しには影響しません。
func (f *ReferenceFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	ch := f.group.DoChan(url, func() (any, error) {
		return f.fetch(context.WithoutCancel(ctx), url)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("参照画像のダウンロードを中断しました (%s): %w", url, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("参照画像のダウンロードに失敗しました (%s): %w", url, res.Err)
		}
		if res.Shared {
			slog.DebugContext(ctx, "同時リクエストの取得結果を共有しました", "url", url)
		}
		data, _ := res.Val.([]byte)
		return data, nil
	}
}

// fetch は maxBytes を超えた時点で読み込みを打ち切ります。
func (f *ReferenceFetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("User-Agent", httpkit.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.ContentLength > f.maxBytes {
		return nil, fmt.Errorf("参照画像が大きすぎます: %d bytes (上限 %d bytes)", resp.ContentLength, f.maxBytes)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの読み込みに失敗しました: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("参照画像が大きすぎます: 上限 %d bytes を超えました", f.maxBytes)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &httpkit.NonRetryableHTTPError{StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}
