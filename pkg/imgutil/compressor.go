package imgutil

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
)

// CompressToJPEG は画像データ（PNG, GIF, JPEG等）をJPEG形式に圧縮します。
// image.Decodeがサポートするフォーマットに対応しています。
func CompressToJPEG(data []byte, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ShrinkForInline はインライン送信用に大きすぎる画像だけを JPEG に再圧縮します。
// threshold 以下、デコード不能、または圧縮で小さくならない場合は元データを返します。
// 戻り値の bool は再圧縮したかどうかです。
func ShrinkForInline(data []byte, mimeType string, threshold, quality int) ([]byte, string, bool) {
	if threshold <= 0 || len(data) <= threshold {
		return data, mimeType, false
	}
	compressed, err := CompressToJPEG(data, quality)
	if err != nil || len(compressed) >= len(data) {
		return data, mimeType, false
	}
	return compressed, "image/jpeg", true
}
