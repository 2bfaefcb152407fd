package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/Deepak-ai-93/instapost/pkg/imgutil"
)

// readImageArg は data URI をそのまま返し、それ以外はローカルファイルまたは gs:// / s3:// のオブジェクトとして読み込んで data URI にします。
func readImageArg(ctx context.Context, reader remoteio.InputReader, value string) (string, error) {
	if value == "" || imgutil.IsDataURI(value) {
		return value, nil
	}
	rc, err := reader.Open(ctx, value)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	return imgutil.EncodeDataURI(http.DetectContentType(data), data), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeImages は out が空なら data URI を1行ずつ出力し、そうでなければデコードして out に書き込みます。
// 複数枚の場合は out の拡張子の前に連番を付けます。
func writeImages(ctx context.Context, w io.Writer, writer remoteio.OutputWriter, out string, uris []string) error {
	if out == "" {
		for _, uri := range uris {
			if _, err := fmt.Fprintln(w, uri); err != nil {
				return err
			}
		}
		return nil
	}

	for i, uri := range uris {
		d, err := imgutil.ParseDataURI(uri)
		if err != nil {
			return fmt.Errorf("failed to decode image %d: %w", i, err)
		}

		path := out
		if len(uris) > 1 {
			ext := filepath.Ext(out)
			path = fmt.Sprintf("%s-%d%s", strings.TrimSuffix(out, ext), i+1, ext)
		}
		if err := writer.Write(ctx, path, bytes.NewReader(d.Data), d.MIMEType); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(w, "Image written to %s (%s, %d bytes)\n", path, d.MIMEType, len(d.Data))
	}
	return nil
}
