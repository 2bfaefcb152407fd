package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/Deepak-ai-93/instapost/pkg/domain"
	"github.com/Deepak-ai-93/instapost/pkg/generator"
)

// Options は HTTP API の動作設定です。
type Options struct {
	MaxBodyBytes    int64
	RateLimit       float64 // 1秒あたりの API 呼び出し数。0 なら無制限
	RateBurst       int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server は generator.Generator を JSON API として公開します。
type Server struct {
	gen     generator.Generator
	opts    Options
	limiter *rate.Limiter
}

// New は Server を生成します。
func New(gen generator.Generator, opts Options) *Server {
	s := &Server{gen: gen, opts: opts}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return s
}

// Handler はミドルウェア適用済みのルーティングを返します。
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.Handle("POST /api/v1/captions", apiHandler(s.handleCaption))
	api.Handle("POST /api/v1/logos", apiHandler(s.handleLogo))
	api.Handle("POST /api/v1/images", apiHandler(s.handleImage))
	api.Handle("POST /api/v1/post-details", apiHandler(s.handlePostDetails))
	api.Handle("POST /api/v1/posts", apiHandler(s.handlePost))

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", apiHandler(handleHealth))
	mux.Handle("/api/", rateLimit(s.limiter, bodyLimit(s.opts.MaxBodyBytes, api)))

	return requestID(accessLog(recoverPanic(mux)))
}

// Run は addr で待ち受け、ctx が終了したらグレースフルシャットダウンします。
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve は ln でリクエストを処理します。ln は Serve が閉じます。
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(slog.Default().Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.InfoContext(ctx, "HTTP API を起動しました", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		timeout := s.opts.ShutdownTimeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		slog.Info("HTTP API を停止しています", "timeout", timeout)
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func handleHealth(*http.Request) *apiResp {
	return &apiResp{Body: map[string]string{"status": "ok"}}
}

func (s *Server) handleCaption(r *http.Request) *apiResp {
	var req domain.CaptionRequest
	if err := decodeJSON(r, &req); err != nil {
		return &apiResp{Error: err}
	}
	res, err := s.gen.GenerateCaption(r.Context(), req)
	return result(res, err)
}

func (s *Server) handleLogo(r *http.Request) *apiResp {
	var req domain.LogoRequest
	if err := decodeJSON(r, &req); err != nil {
		return &apiResp{Error: err}
	}
	res, err := s.gen.GenerateLogo(r.Context(), req)
	return result(res, err)
}

func (s *Server) handleImage(r *http.Request) *apiResp {
	var req domain.ImageRequest
	if err := decodeJSON(r, &req); err != nil {
		return &apiResp{Error: err}
	}
	res, err := s.gen.GenerateImage(r.Context(), req)
	return result(res, err)
}

func (s *Server) handlePostDetails(r *http.Request) *apiResp {
	var req domain.PostDetailsRequest
	if err := decodeJSON(r, &req); err != nil {
		return &apiResp{Error: err}
	}
	res, err := s.gen.GeneratePostDetails(r.Context(), req)
	return result(res, err)
}

func (s *Server) handlePost(r *http.Request) *apiResp {
	var req domain.PostDetailsRequest
	if err := decodeJSON(r, &req); err != nil {
		return &apiResp{Error: err}
	}
	res, err := s.gen.GeneratePost(r.Context(), req)
	return result(res, err)
}

func result[T any](res *T, err error) *apiResp {
	if err != nil {
		return &apiResp{Error: err}
	}
	return &apiResp{Body: res}
}
