package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hitoshi/mealdesk/internal/model"
)

// --- MemoryUserRepo ---

func newTestUser(id, uid, email string) *model.User {
	now := time.Now()
	return &model.User{
		ID:               id,
		UID:              uid,
		Email:            email,
		Name:             "テスト太郎",
		HealthConditions: []string{},
		FoodsToInclude:   []string{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// 作成したユーザーがIDとUIDの両方で取得できることを検証
func TestMemoryUserRepo_CreateAndFind(t *testing.T) {
	repo := NewMemoryUserRepo()
	ctx := context.Background()

	if err := repo.Create(ctx, newTestUser("id-1", "uid-1", "a@example.com")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	byID, err := repo.FindByID(ctx, "id-1")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if byID == nil || byID.Email != "a@example.com" {
		t.Errorf("FindByID() = %+v, want email a@example.com", byID)
	}

	byUID, err := repo.FindByUID(ctx, "uid-1")
	if err != nil {
		t.Fatalf("FindByUID() error = %v", err)
	}
	if byUID == nil || byUID.ID != "id-1" {
		t.Errorf("FindByUID() = %+v, want ID id-1", byUID)
	}
}

// 未登録IDの検索はエラーなしでnilを返すことを検証
func TestMemoryUserRepo_FindMissing_ReturnsNil(t *testing.T) {
	repo := NewMemoryUserRepo()
	ctx := context.Background()

	user, err := repo.FindByID(ctx, "missing")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if user != nil {
		t.Errorf("FindByID() = %+v, want nil", user)
	}
}

// uid・emailの重複がDUPLICATE_USERエラーになることを検証
func TestMemoryUserRepo_Create_Duplicate(t *testing.T) {
	repo := NewMemoryUserRepo()
	ctx := context.Background()

	if err := repo.Create(ctx, newTestUser("id-1", "uid-1", "a@example.com")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name string
		user *model.User
	}{
		{"uid重複", newTestUser("id-2", "uid-1", "b@example.com")},
		{"email重複", newTestUser("id-3", "uid-3", "a@example.com")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, tt.user)
			var apiErr *model.APIError
			if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeDuplicateUser {
				t.Errorf("Create() error = %v, want code %s", err, model.ErrCodeDuplicateUser)
			}
		})
	}
}

// 未登録ユーザーの更新がUSER_NOT_FOUNDエラーになることを検証
func TestMemoryUserRepo_Update_NotFound(t *testing.T) {
	repo := NewMemoryUserRepo()
	ctx := context.Background()

	err := repo.Update(ctx, newTestUser("missing", "uid-x", "x@example.com"))
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUserNotFound {
		t.Errorf("Update() error = %v, want code %s", err, model.ErrCodeUserNotFound)
	}
}

// 取得したユーザーのスライスを変更しても格納データに影響しないことを検証
func TestMemoryUserRepo_ReturnsCopies(t *testing.T) {
	repo := NewMemoryUserRepo()
	ctx := context.Background()

	user := newTestUser("id-1", "uid-1", "a@example.com")
	user.HealthConditions = []string{"diabetes"}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, _ := repo.FindByID(ctx, "id-1")
	got.HealthConditions[0] = "mutated"

	again, _ := repo.FindByID(ctx, "id-1")
	if again.HealthConditions[0] != "diabetes" {
		t.Errorf("stored data was mutated through a returned copy: %v", again.HealthConditions)
	}
}

// --- MemoryMealPlanRepo ---

func newTestPlanRecord(id, userID string, createdAt time.Time) *model.MealPlanRecord {
	return &model.MealPlanRecord{
		ID:          id,
		UserID:      userID,
		FitnessGoal: "weight_loss",
		Cuisine:     "indian",
		DietType:    "vegetarian",
		Plan:        model.WeeklyMealPlan{WeekStart: "2026-08-31", TotalDailyCalories: 1350},
		IsActive:    true,
		CreatedAt:   createdAt,
	}
}

// 2件連続で作成した場合、最新の1件のみがアクティブになることを検証
func TestMemoryMealPlanRepo_Create_DeactivatesPrevious(t *testing.T) {
	repo := NewMemoryMealPlanRepo()
	ctx := context.Background()
	now := time.Now()

	if err := repo.Create(ctx, newTestPlanRecord("plan-1", "user-1", now)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Create(ctx, newTestPlanRecord("plan-2", "user-1", now.Add(time.Minute))); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	records, err := repo.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	activeCount := 0
	for _, r := range records {
		if r.IsActive {
			activeCount++
			if r.ID != "plan-2" {
				t.Errorf("active plan = %s, want plan-2", r.ID)
			}
		}
	}
	if activeCount != 1 {
		t.Errorf("active plan count = %d, want 1", activeCount)
	}
}

// 他ユーザーのアクティブプランには影響しないことを検証
func TestMemoryMealPlanRepo_Create_DoesNotTouchOtherUsers(t *testing.T) {
	repo := NewMemoryMealPlanRepo()
	ctx := context.Background()
	now := time.Now()

	if err := repo.Create(ctx, newTestPlanRecord("plan-a", "user-a", now)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Create(ctx, newTestPlanRecord("plan-b", "user-b", now)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	recordA, _ := repo.FindByID(ctx, "plan-a")
	if !recordA.IsActive {
		t.Error("user-a's plan should remain active after user-b's create")
	}
}

// 同一ユーザーへの並行Createでもアクティブプランが1件に保たれることを検証
func TestMemoryMealPlanRepo_Create_ConcurrentSameUser(t *testing.T) {
	repo := NewMemoryMealPlanRepo()
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			record := newTestPlanRecord(fmt.Sprintf("plan-%d", i), "user-1", time.Now())
			if err := repo.Create(ctx, record); err != nil {
				t.Errorf("Create() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	records, err := repo.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(records) != n {
		t.Fatalf("len(records) = %d, want %d", len(records), n)
	}

	activeCount := 0
	for _, r := range records {
		if r.IsActive {
			activeCount++
		}
	}
	if activeCount != 1 {
		t.Errorf("active plan count = %d, want exactly 1", activeCount)
	}
}

// ListByUserが作成順を保持することを検証
func TestMemoryMealPlanRepo_ListByUser_CreationOrder(t *testing.T) {
	repo := NewMemoryMealPlanRepo()
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 5; i++ {
		record := newTestPlanRecord(fmt.Sprintf("plan-%d", i), "user-1", now.Add(time.Duration(i)*time.Minute))
		if err := repo.Create(ctx, record); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	records, _ := repo.ListByUser(ctx, "user-1")
	for i, r := range records {
		want := fmt.Sprintf("plan-%d", i)
		if r.ID != want {
			t.Errorf("records[%d].ID = %s, want %s", i, r.ID, want)
		}
	}
}

// --- MemoryPdfFileRepo ---

// expires_at < now のレコードのみが期限切れとして返ることを検証。
// 境界: expires_at == now は期限切れではない。
func TestMemoryPdfFileRepo_ListExpired_Boundary(t *testing.T) {
	repo := NewMemoryPdfFileRepo()
	ctx := context.Background()
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	records := []*model.PdfFileRecord{
		{ID: "expired", MealPlanID: "p1", FileURL: "/pdfs/a.pdf", ExpiresAt: now.Add(-time.Second)},
		{ID: "exact", MealPlanID: "p2", FileURL: "/pdfs/b.pdf", ExpiresAt: now},
		{ID: "future", MealPlanID: "p3", FileURL: "/pdfs/c.pdf", ExpiresAt: now.Add(time.Second)},
	}
	for _, r := range records {
		if err := repo.Create(ctx, r); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	expired, err := repo.ListExpired(ctx, now)
	if err != nil {
		t.Fatalf("ListExpired() error = %v", err)
	}
	if len(expired) != 1 {
		t.Fatalf("len(expired) = %d, want 1", len(expired))
	}
	if expired[0].ID != "expired" {
		t.Errorf("expired[0].ID = %s, want expired", expired[0].ID)
	}
}

// 削除後のレコードが取得できないこと、二重削除がPDF_NOT_FOUNDになることを検証
func TestMemoryPdfFileRepo_Delete(t *testing.T) {
	repo := NewMemoryPdfFileRepo()
	ctx := context.Background()

	record := &model.PdfFileRecord{ID: "pdf-1", MealPlanID: "p1", FileURL: "/pdfs/a.pdf"}
	if err := repo.Create(ctx, record); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete(ctx, "pdf-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	found, _ := repo.FindByID(ctx, "pdf-1")
	if found != nil {
		t.Errorf("FindByID() after delete = %+v, want nil", found)
	}

	err := repo.Delete(ctx, "pdf-1")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodePdfNotFound {
		t.Errorf("second Delete() error = %v, want code %s", err, model.ErrCodePdfNotFound)
	}
}
