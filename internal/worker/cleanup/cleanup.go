// Package cleanup は期限切れPDFの自動削除ジョブを提供する。
// 生成から48時間を超過したPDFのファイルとメタデータを定期バッチで削除する。
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ExpiredSweeper は期限切れPDF削除処理のインターフェース。
// export.Serviceの部分集合として定義する。
type ExpiredSweeper interface {
	CleanupExpired(ctx context.Context) (int, error)
}

// SweepJob は期限切れPDFの自動削除ジョブ。
// 定期実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type SweepJob struct {
	sweeper ExpiredSweeper
	logger  *slog.Logger
}

// NewSweepJob は新しいSweepJobを生成する。
func NewSweepJob(sweeper ExpiredSweeper, logger *slog.Logger) *SweepJob {
	return &SweepJob{
		sweeper: sweeper,
		logger:  logger,
	}
}

// Run は期限切れPDFを削除する。
// 冪等: 削除対象がない場合でもエラーにならない。
func (j *SweepJob) Run(ctx context.Context) error {
	start := time.Now()

	deleted, err := j.sweeper.CleanupExpired(ctx)
	if err != nil {
		j.logger.Error("PDFクリーンアップジョブの実行に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("PDFクリーンアップの実行に失敗: %w", err)
	}

	duration := time.Since(start)
	j.logger.Info("PDFクリーンアップジョブが完了しました",
		slog.Int("deleted_count", deleted),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// RunLoop はintervalごとにRunを繰り返し実行する。
// コンテキストのキャンセルで停止する。起動直後にも1回実行する。
func (j *SweepJob) RunLoop(ctx context.Context, interval time.Duration) {
	// 起動直後の1回
	if err := j.Run(ctx); err != nil {
		j.logger.Error("初回スイープに失敗しました", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Error("定期スイープに失敗しました", slog.String("error", err.Error()))
			}
		case <-ctx.Done():
			return
		}
	}
}
