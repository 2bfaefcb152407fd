package main

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/Deepak-ai-93/instapost/pkg/domain"
)

// fakeGenerator は受け取ったリクエストを記録し、固定の結果を返すのだ。
type fakeGenerator struct {
	image string
	err   error

	captionReq domain.CaptionRequest
	logoReq    domain.LogoRequest
	imageReq   domain.ImageRequest
	postReq    domain.PostDetailsRequest
}

func (f *fakeGenerator) details() *domain.PostDetails {
	return &domain.PostDetails{
		EngagingCaption:       "Your desk, but calmer.",
		ProfessionalCaption:   "Designing a focused workspace starts with less.",
		Hashtags:              "#homeoffice",
		SuggestedPostTime:     "Tuesday 9:00 AM",
		HeadlineText:          "Less Desk, More Focus",
		Category:              "Lifestyle",
		ImageGenerationPrompt: "A minimalist desk",
	}
}

func (f *fakeGenerator) GenerateCaption(_ context.Context, req domain.CaptionRequest) (*domain.CaptionResult, error) {
	f.captionReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &domain.CaptionResult{Caption: "Golden hour #sunset"}, nil
}

func (f *fakeGenerator) GenerateLogo(_ context.Context, req domain.LogoRequest) (*domain.LogoResult, error) {
	f.logoReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &domain.LogoResult{LogoImageDataURI: f.image}, nil
}

func (f *fakeGenerator) GenerateImage(_ context.Context, req domain.ImageRequest) (*domain.ImageResult, error) {
	f.imageReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ImageResult{ImageDataURIs: []string{f.image}}, nil
}

func (f *fakeGenerator) GeneratePostDetails(_ context.Context, req domain.PostDetailsRequest) (*domain.PostDetails, error) {
	f.postReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.details(), nil
}

func (f *fakeGenerator) GeneratePost(_ context.Context, req domain.PostDetailsRequest) (*domain.PostResult, error) {
	f.postReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &domain.PostResult{Details: *f.details(), ImageDataURIs: []string{f.image}}, nil
}

// fakeStorage は remoteio.IOFactory / InputReader / OutputWriter を兼ねるメモリ上のストレージなのだ。
type fakeStorage struct {
	objects map[string][]byte
	types   map[string]string
	closed  bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeStorage) Close() error {
	f.closed = true
	return nil
}

func (f *fakeStorage) InputReader() (remoteio.InputReader, error)   { return f, nil }
func (f *fakeStorage) OutputWriter() (remoteio.OutputWriter, error) { return f, nil }
func (f *fakeStorage) URLSigner() (remoteio.URLSigner, error) {
	return nil, errors.New("not supported")
}

func (f *fakeStorage) Open(_ context.Context, path string) (io.ReadCloser, error) {
	data, ok := f.objects[path]
	if !ok {
		return nil, errors.New("object not found: " + path)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStorage) List(_ context.Context, _ string, _ func(string) error) error {
	return nil
}

func (f *fakeStorage) Write(_ context.Context, uri string, r io.Reader, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[uri] = data
	f.types[uri] = contentType
	return nil
}

var _ remoteio.IOFactory = (*fakeStorage)(nil)
