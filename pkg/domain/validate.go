package domain

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Deepak-ai-93/instapost/pkg/imgutil"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// エラー上のフィールド名は JSON のキー名に揃える
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput は入力レコードのタグ制約を検証し、InvalidInputError に変換します。
func validateInput(v any) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &InvalidInputError{Field: fe.Field(), Reason: describeTag(fe)}
		}
		return &InvalidInputError{Reason: err.Error()}
	}
	return nil
}

// ValidateResult は生成結果のスキーマを検証します。
// 必須フィールドが一つでも欠けていれば呼び出し全体を失敗として扱います。
func ValidateResult(flow string, v any) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &GenerationFailedError{
				Flow:   flow,
				Reason: fmt.Sprintf("出力フィールド %s が不正です (%s)", fe.Field(), describeTag(fe)),
			}
		}
		return &GenerationFailedError{Flow: flow, Reason: "出力の検証に失敗しました", Err: err}
	}
	return nil
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must have exactly %s entries", fe.Param())
	case "datauri":
		return "must be a base64 data URI"
	default:
		return fmt.Sprintf("failed %q constraint", fe.Tag())
	}
}

// checkReferenceURL は参照画像として扱える値かを確認します。
// 絶対 http(s) URL か、画像の data URI のみ許可します。
func checkReferenceURL(raw string) error {
	if imgutil.IsDataURI(raw) {
		_, err := imgutil.ParseImageDataURI(raw)
		return err
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

// dropInvalidReference は不正な任意 URL を空にし、SoftFieldError を返します。
func dropInvalidReference(field string, value *string) *SoftFieldError {
	if *value == "" {
		return nil
	}
	if err := checkReferenceURL(*value); err != nil {
		soft := &SoftFieldError{Field: field, Value: *value, Err: err}
		*value = ""
		return soft
	}
	return nil
}

// requireImageDataURI は必須の画像 data URI がデコード可能かを確認します。
func requireImageDataURI(field, value string) error {
	if _, err := imgutil.ParseImageDataURI(value); err != nil {
		return &InvalidInputError{Field: field, Reason: err.Error()}
	}
	return nil
}
