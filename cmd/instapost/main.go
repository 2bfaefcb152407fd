// instapost は Instagram 向けのキャプション、ロゴ、投稿画像を Gemini で生成する CLI / HTTP API です。
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "go.uber.org/automaxprocs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := newApp()
	err := newRootCmd(a).ExecuteContext(ctx)
	if cerr := a.close(); cerr != nil {
		slog.Warn("ストレージクライアントのクローズに失敗しました", "error", cerr)
	}
	stop()
	if err != nil {
		os.Exit(1)
	}
}
