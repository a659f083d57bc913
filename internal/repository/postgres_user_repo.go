package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/mealdesk/internal/model"
)

// uniqueViolation はPostgreSQLの一意制約違反のエラーコード。
const uniqueViolation = pq.ErrorCode("23505")

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

const userColumns = `id, uid, email, name, age, gender, height_cm, weight_kg,
	activity_level, country_region, health_conditions, foods_to_include,
	created_at, updated_at`

// scanUser は1行分のユーザーをスキャンする。
func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.UID, &user.Email, &user.Name,
		&user.Age, &user.Gender, &user.HeightCm, &user.WeightKg,
		&user.ActivityLevel, &user.CountryRegion,
		pq.Array(&user.HealthConditions), pq.Array(&user.FoodsToInclude),
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}

// FindByID は内部IDでユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	)
	return scanUser(row)
}

// FindByUID は外部IdPのUIDでユーザーを検索する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByUID(ctx context.Context, uid string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE uid = $1`,
		uid,
	)
	return scanUser(row)
}

// Create はユーザーを作成する。
// uidまたはemailが既に存在する場合はDUPLICATE_USERエラーを返す。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, uid, email, name, age, gender, height_cm, weight_kg,
		 activity_level, country_region, health_conditions, foods_to_include,
		 created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		user.ID, user.UID, user.Email, user.Name,
		user.Age, user.Gender, user.HeightCm, user.WeightKg,
		user.ActivityLevel, user.CountryRegion,
		pq.Array(user.HealthConditions), pq.Array(user.FoodsToInclude),
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return model.NewDuplicateUserError()
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// Update はユーザーを上書き更新する。
// 指定IDが存在しない場合はUSER_NOT_FOUNDエラーを返す。
func (r *PostgresUserRepo) Update(ctx context.Context, user *model.User) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET
		 name = $2, age = $3, gender = $4, height_cm = $5, weight_kg = $6,
		 activity_level = $7, country_region = $8,
		 health_conditions = $9, foods_to_include = $10, updated_at = $11
		 WHERE id = $1`,
		user.ID, user.Name, user.Age, user.Gender, user.HeightCm, user.WeightKg,
		user.ActivityLevel, user.CountryRegion,
		pq.Array(user.HealthConditions), pq.Array(user.FoodsToInclude),
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewUserNotFoundError(user.ID)
	}
	return nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
