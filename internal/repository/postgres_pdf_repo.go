package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/mealdesk/internal/model"
)

// PostgresPdfFileRepo はPostgreSQLを使用したPDFメタデータリポジトリ。
type PostgresPdfFileRepo struct {
	db *sql.DB
}

// NewPostgresPdfFileRepo はPostgresPdfFileRepoを生成する。
func NewPostgresPdfFileRepo(db *sql.DB) *PostgresPdfFileRepo {
	return &PostgresPdfFileRepo{db: db}
}

// FindByID は指定IDのPDFレコードを取得する。見つからない場合はnilを返す。
func (r *PostgresPdfFileRepo) FindByID(ctx context.Context, id string) (*model.PdfFileRecord, error) {
	record := &model.PdfFileRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, meal_plan_id, file_url, expires_at, created_at
		 FROM pdf_files WHERE id = $1`,
		id,
	).Scan(&record.ID, &record.MealPlanID, &record.FileURL, &record.ExpiresAt, &record.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find pdf file by ID: %w", err)
	}
	return record, nil
}

// Create はPDFレコードを作成する。
func (r *PostgresPdfFileRepo) Create(ctx context.Context, record *model.PdfFileRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO pdf_files (id, meal_plan_id, file_url, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		record.ID, record.MealPlanID, record.FileURL, record.ExpiresAt, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert pdf file: %w", err)
	}
	return nil
}

// ListExpired はexpires_at < now のレコードを全て返す。
// 境界: expires_at == now のレコードは期限切れではない。
func (r *PostgresPdfFileRepo) ListExpired(ctx context.Context, now time.Time) ([]*model.PdfFileRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, meal_plan_id, file_url, expires_at, created_at
		 FROM pdf_files WHERE expires_at < $1 ORDER BY expires_at`,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired pdf files: %w", err)
	}
	defer rows.Close()

	var records []*model.PdfFileRecord
	for rows.Next() {
		record := &model.PdfFileRecord{}
		if err := rows.Scan(
			&record.ID, &record.MealPlanID, &record.FileURL,
			&record.ExpiresAt, &record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pdf file: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pdf files: %w", err)
	}
	return records, nil
}

// Delete はPDFレコードのメタデータを削除する。
// 指定IDが存在しない場合はPDF_NOT_FOUNDエラーを返す。
func (r *PostgresPdfFileRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM pdf_files WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete pdf file: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewPdfNotFoundError(id)
	}
	return nil
}

// compile-time interface check
var _ PdfFileRepository = (*PostgresPdfFileRepo)(nil)
