// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーのプロフィールを表す。
// 初回認証時に作成され、プロフィール更新で部分的に変更される。
// 物理削除はサポート運用で行うためモデル上には存在しない。
type User struct {
	ID               string // 内部ID（UUID）
	UID              string // 外部IdP（Firebase）のユーザーID
	Email            string
	Name             string
	Age              int
	Gender           string
	HeightCm         float64
	WeightKg         float64
	ActivityLevel    string   // sedentary / light / moderate / active
	CountryRegion    string
	HealthConditions []string // 健康上の注意タグ（自由記述）
	FoodsToInclude   []string // 積極的に取り入れたい食材タグ（自由記述）
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// UserPatch はプロフィール部分更新の入力を表す。
// nilのフィールドは変更しない。
type UserPatch struct {
	Name             *string
	Age              *int
	Gender           *string
	HeightCm         *float64
	WeightKg         *float64
	ActivityLevel    *string
	CountryRegion    *string
	HealthConditions *[]string
	FoodsToInclude   *[]string
}
