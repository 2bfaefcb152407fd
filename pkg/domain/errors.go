package domain

import (
	"errors"
	"fmt"
)

// エラー種別の判定用センチネルです。errors.Is で比較してください。
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrSoftField        = errors.New("optional field dropped")
	ErrExternalCall     = errors.New("external call failed")
	ErrGenerationFailed = errors.New("generation failed")
)

// InvalidInputError は必須フィールドの組み合わせが満たされない場合のエラーです。
// リトライせず、即座に呼び出し元へ返されます。
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// SoftFieldError は任意フィールドが不正だったため破棄されたことを表します。
// リクエスト自体は続行されます。
type SoftFieldError struct {
	Field string
	Value string
	Err   error
}

func (e *SoftFieldError) Error() string {
	return fmt.Sprintf("optional field %s dropped (%q): %v", e.Field, e.Value, e.Err)
}

func (e *SoftFieldError) Is(target error) bool { return target == ErrSoftField }
func (e *SoftFieldError) Unwrap() error        { return e.Err }

// ExternalCallError は生成APIの呼び出しが失敗したことを表します。
type ExternalCallError struct {
	Model    string
	Attempts int
	Err      error
}

func (e *ExternalCallError) Error() string {
	return fmt.Sprintf("gemini call failed (model=%s, attempts=%d): %v", e.Model, e.Attempts, e.Err)
}

func (e *ExternalCallError) Is(target error) bool { return target == ErrExternalCall }
func (e *ExternalCallError) Unwrap() error        { return e.Err }

// GenerationFailedError は呼び出し自体は終わったものの、
// 利用可能な出力を取り出せなかった場合のエラーです。
type GenerationFailedError struct {
	Flow   string
	Reason string
	Err    error
}

func (e *GenerationFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: generation failed: %s: %v", e.Flow, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: generation failed: %s", e.Flow, e.Reason)
}

func (e *GenerationFailedError) Is(target error) bool { return target == ErrGenerationFailed }
func (e *GenerationFailedError) Unwrap() error        { return e.Err }
