package server

import (
	"context"

	"github.com/Deepak-ai-93/instapost/pkg/domain"
)

// mockGenerator は generator.Generator のテスト用モックなのだ。
type mockGenerator struct {
	captionFunc     func(ctx context.Context, req domain.CaptionRequest) (*domain.CaptionResult, error)
	logoFunc        func(ctx context.Context, req domain.LogoRequest) (*domain.LogoResult, error)
	imageFunc       func(ctx context.Context, req domain.ImageRequest) (*domain.ImageResult, error)
	postDetailsFunc func(ctx context.Context, req domain.PostDetailsRequest) (*domain.PostDetails, error)
	postFunc        func(ctx context.Context, req domain.PostDetailsRequest) (*domain.PostResult, error)

	calls int
}

func (m *mockGenerator) GenerateCaption(ctx context.Context, req domain.CaptionRequest) (*domain.CaptionResult, error) {
	m.calls++
	return m.captionFunc(ctx, req)
}

func (m *mockGenerator) GenerateLogo(ctx context.Context, req domain.LogoRequest) (*domain.LogoResult, error) {
	m.calls++
	return m.logoFunc(ctx, req)
}

func (m *mockGenerator) GenerateImage(ctx context.Context, req domain.ImageRequest) (*domain.ImageResult, error) {
	m.calls++
	return m.imageFunc(ctx, req)
}

func (m *mockGenerator) GeneratePostDetails(ctx context.Context, req domain.PostDetailsRequest) (*domain.PostDetails, error) {
	m.calls++
	return m.postDetailsFunc(ctx, req)
}

func (m *mockGenerator) GeneratePost(ctx context.Context, req domain.PostDetailsRequest) (*domain.PostResult, error) {
	m.calls++
	return m.postFunc(ctx, req)
}
