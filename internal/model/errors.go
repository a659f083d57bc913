// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, plan, pdf, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUserNotFound     = "USER_NOT_FOUND"
	ErrCodePlanNotFound     = "PLAN_NOT_FOUND"
	ErrCodePdfNotFound      = "PDF_NOT_FOUND"
	ErrCodeDuplicateUser    = "DUPLICATE_USER"
	ErrCodeInvalidRequest   = "INVALID_REQUEST"
	ErrCodeGenerationFailed = "GENERATION_FAILED"
	ErrCodeRenderFailed     = "RENDER_FAILED"
)

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError(userID string) *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  fmt.Sprintf("指定されたユーザーが見つかりません: %s", userID),
		Category: "auth",
		Action:   "ユーザーIDを確認するか、プロフィール登録を完了してください。",
	}
}

// NewPlanNotFoundError はミールプラン未検出エラーを生成する。
func NewPlanNotFoundError(planID string) *APIError {
	return &APIError{
		Code:     ErrCodePlanNotFound,
		Message:  fmt.Sprintf("指定されたミールプランが見つかりません: %s", planID),
		Category: "plan",
		Action:   "プランIDを確認するか、新しいプランを生成してください。",
	}
}

// NewPdfNotFoundError はPDFレコード未検出エラーを生成する。
func NewPdfNotFoundError(pdfID string) *APIError {
	return &APIError{
		Code:     ErrCodePdfNotFound,
		Message:  fmt.Sprintf("指定されたPDFが見つかりません: %s", pdfID),
		Category: "pdf",
		Action:   "PDFの有効期限（48時間）が切れている可能性があります。再度生成してください。",
	}
}

// NewDuplicateUserError はuid/email重複エラーを生成する。
func NewDuplicateUserError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateUser,
		Message:  "同じUIDまたはメールアドレスのユーザーが既に登録されています。",
		Category: "validation",
		Action:   "既存のアカウントでログインしてください。",
	}
}

// NewInvalidRequestError はリクエスト不正エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: "validation",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewGenerationFailedError はミールプラン生成失敗エラーを生成する。
// LLM呼び出しの失敗、応答のパース失敗、7日分でない応答の全てに使用する。
func NewGenerationFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeGenerationFailed,
		Message:  fmt.Sprintf("ミールプランの生成に失敗しました: %s", reason),
		Category: "plan",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewRenderFailedError はPDF描画失敗エラーを生成する。
func NewRenderFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeRenderFailed,
		Message:  fmt.Sprintf("PDFの生成に失敗しました: %s", reason),
		Category: "pdf",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
