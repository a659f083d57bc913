package repository

import (
	"context"
	"sync"
	"time"

	"github.com/hitoshi/mealdesk/internal/model"
)

// MemoryUserRepo はインメモリのユーザーリポジトリ。
// DATABASE_URL未設定時（デモモード）およびオフラインテストで使用する。
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]model.User // key: 内部ID
}

// NewMemoryUserRepo はMemoryUserRepoを生成する。
func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[string]model.User)}
}

// FindByID は内部IDでユーザーを取得する。見つからない場合はnilを返す。
func (r *MemoryUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return copyUser(user), nil
}

// FindByUID は外部IdPのUIDでユーザーを検索する。見つからない場合はnilを返す。
func (r *MemoryUserRepo) FindByUID(ctx context.Context, uid string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.UID == uid {
			return copyUser(user), nil
		}
	}
	return nil, nil
}

// Create はユーザーを作成する。
// uidまたはemailが既に存在する場合はDUPLICATE_USERエラーを返す。
func (r *MemoryUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.UID == user.UID || existing.Email == user.Email {
			return model.NewDuplicateUserError()
		}
	}
	r.users[user.ID] = *copyUser(*user)
	return nil
}

// Update はユーザーを上書き更新する。
// 指定IDが存在しない場合はUSER_NOT_FOUNDエラーを返す。
func (r *MemoryUserRepo) Update(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return model.NewUserNotFoundError(user.ID)
	}
	r.users[user.ID] = *copyUser(*user)
	return nil
}

// copyUser はスライスを含めてユーザーを複製し、呼び出し側とのエイリアシングを防ぐ。
func copyUser(u model.User) *model.User {
	c := u
	c.HealthConditions = append([]string(nil), u.HealthConditions...)
	c.FoodsToInclude = append([]string(nil), u.FoodsToInclude...)
	return &c
}

// MemoryMealPlanRepo はインメモリのミールプランリポジトリ。
//
// Createの「非アクティブ化してから挿入」は単一のミューテックスで直列化する。
// 同一ユーザーに対する並行Createでもアクティブプランは高々1件に保たれる。
type MemoryMealPlanRepo struct {
	mu      sync.RWMutex
	records map[string]model.MealPlanRecord
	order   []string // 挿入順のID列。ListByUserの作成順保証に使用する
}

// NewMemoryMealPlanRepo はMemoryMealPlanRepoを生成する。
func NewMemoryMealPlanRepo() *MemoryMealPlanRepo {
	return &MemoryMealPlanRepo{records: make(map[string]model.MealPlanRecord)}
}

// FindByID は指定IDのプランを取得する。見つからない場合はnilを返す。
func (r *MemoryMealPlanRepo) FindByID(ctx context.Context, id string) (*model.MealPlanRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// ListByUser はユーザーのプラン一覧を作成順で返す。
func (r *MemoryMealPlanRepo) ListByUser(ctx context.Context, userID string) ([]*model.MealPlanRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*model.MealPlanRecord
	for _, id := range r.order {
		record := r.records[id]
		if record.UserID == userID {
			record := record
			records = append(records, &record)
		}
	}
	return records, nil
}

// Create は新しいアクティブプランを作成する。
// 同一ユーザーの既存プランを全て非アクティブ化してから挿入する。
func (r *MemoryMealPlanRepo) Create(ctx context.Context, record *model.MealPlanRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, existing := range r.records {
		if existing.UserID == record.UserID && existing.IsActive {
			existing.IsActive = false
			r.records[id] = existing
		}
	}

	r.records[record.ID] = *record
	r.order = append(r.order, record.ID)
	return nil
}

// MemoryPdfFileRepo はインメモリのPDFメタデータリポジトリ。
type MemoryPdfFileRepo struct {
	mu      sync.RWMutex
	records map[string]model.PdfFileRecord
}

// NewMemoryPdfFileRepo はMemoryPdfFileRepoを生成する。
func NewMemoryPdfFileRepo() *MemoryPdfFileRepo {
	return &MemoryPdfFileRepo{records: make(map[string]model.PdfFileRecord)}
}

// FindByID は指定IDのPDFレコードを取得する。見つからない場合はnilを返す。
func (r *MemoryPdfFileRepo) FindByID(ctx context.Context, id string) (*model.PdfFileRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// Create はPDFレコードを作成する。
func (r *MemoryPdfFileRepo) Create(ctx context.Context, record *model.PdfFileRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[record.ID] = *record
	return nil
}

// ListExpired はexpires_at < now のレコードを全て返す。
func (r *MemoryPdfFileRepo) ListExpired(ctx context.Context, now time.Time) ([]*model.PdfFileRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*model.PdfFileRecord
	for _, record := range r.records {
		if record.ExpiresAt.Before(now) {
			record := record
			records = append(records, &record)
		}
	}
	return records, nil
}

// Delete はPDFレコードのメタデータを削除する。
// 指定IDが存在しない場合はPDF_NOT_FOUNDエラーを返す。
func (r *MemoryPdfFileRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return model.NewPdfNotFoundError(id)
	}
	delete(r.records, id)
	return nil
}

// compile-time interface checks
var (
	_ UserRepository     = (*MemoryUserRepo)(nil)
	_ MealPlanRepository = (*MemoryMealPlanRepo)(nil)
	_ PdfFileRepository  = (*MemoryPdfFileRepo)(nil)
)
