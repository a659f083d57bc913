package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hitoshi/mealdesk/internal/model"
)

// PostgresMealPlanRepo はPostgreSQLを使用したミールプランリポジトリ。
type PostgresMealPlanRepo struct {
	db *sql.DB
}

// NewPostgresMealPlanRepo はPostgresMealPlanRepoを生成する。
func NewPostgresMealPlanRepo(db *sql.DB) *PostgresMealPlanRepo {
	return &PostgresMealPlanRepo{db: db}
}

// FindByID は指定IDのプランを取得する。見つからない場合はnilを返す。
func (r *PostgresMealPlanRepo) FindByID(ctx context.Context, id string) (*model.MealPlanRecord, error) {
	record := &model.MealPlanRecord{}
	var planJSON []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, fitness_goal, cuisine, diet_type, plan, is_active, created_at
		 FROM meal_plans WHERE id = $1`,
		id,
	).Scan(
		&record.ID, &record.UserID, &record.FitnessGoal, &record.Cuisine,
		&record.DietType, &planJSON, &record.IsActive, &record.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find meal plan by ID: %w", err)
	}

	if err := json.Unmarshal(planJSON, &record.Plan); err != nil {
		return nil, fmt.Errorf("failed to decode meal plan payload: %w", err)
	}
	return record, nil
}

// ListByUser はユーザーのプラン一覧を作成順で返す。
func (r *PostgresMealPlanRepo) ListByUser(ctx context.Context, userID string) ([]*model.MealPlanRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, fitness_goal, cuisine, diet_type, plan, is_active, created_at
		 FROM meal_plans WHERE user_id = $1 ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plans: %w", err)
	}
	defer rows.Close()

	var records []*model.MealPlanRecord
	for rows.Next() {
		record := &model.MealPlanRecord{}
		var planJSON []byte
		if err := rows.Scan(
			&record.ID, &record.UserID, &record.FitnessGoal, &record.Cuisine,
			&record.DietType, &planJSON, &record.IsActive, &record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan meal plan: %w", err)
		}
		if err := json.Unmarshal(planJSON, &record.Plan); err != nil {
			return nil, fmt.Errorf("failed to decode meal plan payload: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meal plans: %w", err)
	}
	return records, nil
}

// Create は新しいアクティブプランを作成する。
//
// 同一トランザクション内で既存プランの非アクティブ化と挿入を行うため、
// 同一ユーザーに対する並行Createはアクティブプランを高々1件に保つ。
// meal_plansの部分一意インデックス（user_id WHERE is_active）が
// 二重アクティブを恒久的に禁止している。
func (r *PostgresMealPlanRepo) Create(ctx context.Context, record *model.MealPlanRecord) error {
	planJSON, err := json.Marshal(record.Plan)
	if err != nil {
		return fmt.Errorf("failed to encode meal plan payload: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 既存のアクティブプランを非アクティブ化
	_, err = tx.ExecContext(ctx,
		`UPDATE meal_plans SET is_active = false WHERE user_id = $1 AND is_active`,
		record.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate previous plans: %w", err)
	}

	// 新しいプランをアクティブとして挿入
	_, err = tx.ExecContext(ctx,
		`INSERT INTO meal_plans (id, user_id, fitness_goal, cuisine, diet_type, plan, is_active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		record.ID, record.UserID, record.FitnessGoal, record.Cuisine,
		record.DietType, planJSON, record.IsActive, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert meal plan: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// compile-time interface check
var _ MealPlanRepository = (*PostgresMealPlanRepo)(nil)
