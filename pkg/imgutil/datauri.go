package imgutil

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const dataURIPrefix = "data:"

// DataURI は "data:<mimetype>;base64,<payload>" 形式をデコードした結果です。
type DataURI struct {
	MIMEType string
	Data     []byte
}

// IsDataURI は文字列が data URI の形をしているかを返します。
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, dataURIPrefix)
}

// ParseDataURI は base64 エンコードされた data URI をデコードします。
// MIME タイプが省略されている場合はペイロードから推定します。
func ParseDataURI(s string) (*DataURI, error) {
	if !IsDataURI(s) {
		return nil, errors.New("data: で始まっていません")
	}
	header, payload, ok := strings.Cut(s[len(dataURIPrefix):], ",")
	if !ok {
		return nil, errors.New("ペイロード区切りの ',' がありません")
	}

	mimeType, params, _ := strings.Cut(header, ";")
	if !strings.Contains(";"+params, ";base64") {
		return nil, errors.New("base64 エンコードのみ対応しています")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("base64 デコード失敗: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("ペイロードが空です")
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	return &DataURI{MIMEType: mimeType, Data: data}, nil
}

// ParseImageDataURI は画像の data URI のみを受け付けます。
// 宣言された MIME タイプと実データの両方が image/* であることを確認します。
func ParseImageDataURI(s string) (*DataURI, error) {
	d, err := ParseDataURI(s)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(d.MIMEType, "image/") {
		return nil, fmt.Errorf("画像ではない MIME タイプです: %s", d.MIMEType)
	}
	if detected := http.DetectContentType(d.Data); !strings.HasPrefix(detected, "image/") {
		return nil, fmt.Errorf("ペイロードが画像として認識できません: %s", detected)
	}
	return d, nil
}

// EncodeDataURI はバイト列を data URI に変換します。
func EncodeDataURI(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return dataURIPrefix + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// String は data URI 形式に戻します。
func (d *DataURI) String() string {
	return EncodeDataURI(d.MIMEType, d.Data)
}
