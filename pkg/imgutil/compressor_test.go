package imgutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// テスト用のダミー画像（size x size のグラデーション）を作成するヘルパー
func createDummyImageData(t *testing.T, format string, size int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			img.Set(x, y, color.RGBA{uint8(x*y + x), uint8(x ^ (y * 3)), uint8(x*13 + y*7), 255})
		}
	}

	buf := new(bytes.Buffer)
	var err error
	switch format {
	case "png":
		err = png.Encode(buf, img)
	case "jpeg":
		err = jpeg.Encode(buf, img, nil)
	default:
		t.Fatalf("unsupported format: %s", format)
	}

	if err != nil {
		t.Fatalf("failed to encode dummy image: %v", err)
	}
	return buf.Bytes()
}

func TestCompressToJPEG(t *testing.T) {
	t.Run("正常なPNG画像をJPEGに圧縮できること", func(t *testing.T) {
		pngData := createDummyImageData(t, "png", 10)

		got, err := CompressToJPEG(pngData, 75)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(got) == 0 {
			t.Error("expected output data, but got empty")
		}

		// 出力がJPEGとしてデコード可能か確認
		_, format, err := image.Decode(bytes.NewReader(got))
		if err != nil {
			t.Errorf("failed to decode output image: %v", err)
		}
		if format != "jpeg" {
			t.Errorf("expected format jpeg, got %s", format)
		}
	})

	t.Run("不正なデータを与えた場合にエラーを返すこと", func(t *testing.T) {
		_, err := CompressToJPEG([]byte("this is not an image"), 75)
		if err == nil {
			t.Error("expected error for invalid data, but got nil")
		}
	})
}

func TestShrinkForInline(t *testing.T) {
	pngData := createDummyImageData(t, "png", 256)

	t.Run("しきい値以下なら元データのまま", func(t *testing.T) {
		got, mime, changed := ShrinkForInline(pngData, "image/png", len(pngData)+1, 75)
		if changed || mime != "image/png" || !bytes.Equal(got, pngData) {
			t.Errorf("data should be untouched: changed=%v mime=%s", changed, mime)
		}
	})

	t.Run("しきい値 0 は圧縮無効", func(t *testing.T) {
		_, _, changed := ShrinkForInline(pngData, "image/png", 0, 75)
		if changed {
			t.Error("threshold 0 must disable compression")
		}
	})

	t.Run("しきい値を超えたらJPEGに再圧縮する", func(t *testing.T) {
		got, mime, changed := ShrinkForInline(pngData, "image/png", 1, 50)
		if !changed {
			t.Fatal("expected recompression")
		}
		if mime != "image/jpeg" || len(got) >= len(pngData) {
			t.Errorf("unexpected result: mime=%s size=%d original=%d", mime, len(got), len(pngData))
		}
	})

	t.Run("デコードできないデータは元のまま返す", func(t *testing.T) {
		junk := bytes.Repeat([]byte("x"), 64)
		got, mime, changed := ShrinkForInline(junk, "image/png", 1, 50)
		if changed || mime != "image/png" || !bytes.Equal(got, junk) {
			t.Error("undecodable data must be returned as is")
		}
	})
}
