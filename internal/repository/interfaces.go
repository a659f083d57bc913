// Package repository はデータ永続化のインターフェースを定義する。
//
// PostgreSQL実装とインメモリ実装が同一の契約を満たし、
// 起動時に1回だけ選択される（ストラテジはモジュールレベルの条件分岐ではなく
// 依存注入で解決する）。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/mealdesk/internal/model"
)

// UserRepository はユーザープロフィールの永続化インターフェース。
type UserRepository interface {
	// FindByID は内部IDでユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByUID は外部IdPのUIDでユーザーを検索する。見つからない場合はnilを返す。
	FindByUID(ctx context.Context, uid string) (*model.User, error)

	// Create はユーザーを作成する。
	// uidまたはemailが既に存在する場合はDUPLICATE_USERエラーを返す。
	Create(ctx context.Context, user *model.User) error

	// Update はユーザーを上書き更新する。
	// 指定IDが存在しない場合はUSER_NOT_FOUNDエラーを返す。
	Update(ctx context.Context, user *model.User) error
}

// MealPlanRepository はミールプランの永続化インターフェース。
type MealPlanRepository interface {
	// FindByID は指定IDのプランを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.MealPlanRecord, error)

	// ListByUser はユーザーのプラン一覧を作成順で返す。
	ListByUser(ctx context.Context, userID string) ([]*model.MealPlanRecord, error)

	// Create は新しいアクティブプランを作成する。
	// 副作用: 同一ユーザーの既存プランを全て非アクティブ化してから挿入する。
	// この非アクティブ化と挿入は、同一ユーザーに対する並行Createと
	// 直列化されなければならない（アクティブプランが2件になる状態は許さない）。
	Create(ctx context.Context, record *model.MealPlanRecord) error
}

// PdfFileRepository は生成済みPDFメタデータの永続化インターフェース。
type PdfFileRepository interface {
	// FindByID は指定IDのPDFレコードを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.PdfFileRecord, error)

	// Create はPDFレコードを作成する。expires_atは呼び出し側で計算済みであること。
	Create(ctx context.Context, record *model.PdfFileRecord) error

	// ListExpired はexpires_at < now のレコードを全て返す。
	// 境界: expires_at == now のレコードは期限切れではない。
	ListExpired(ctx context.Context, now time.Time) ([]*model.PdfFileRecord, error)

	// Delete はPDFレコードのメタデータを削除する。
	// 描画済みファイル自体の削除は呼び出し側の責務。
	// 指定IDが存在しない場合はPDF_NOT_FOUNDエラーを返す。
	Delete(ctx context.Context, id string) error
}
