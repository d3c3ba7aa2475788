package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrReportNotFound is returned when a battle report lookup yields no results.
var ErrReportNotFound = errors.New("battle report not found")

// BattleReport is the persisted summary of one simulated battle.
type BattleReport struct {
	ID            int64
	BackgroundKey string
	// Outcome is the final battle state label: "victory", "defeat", or "fled".
	Outcome    string
	Rounds     int
	SquadSize  int
	EnemyCount int
	Captures   int
	Experience int
	Gold       int
	// Log holds the per-action narration lines, stored as JSONB.
	Log       []string
	CreatedAt time.Time
}

// BattleReportRepository provides battle report persistence operations.
type BattleReportRepository struct {
	db *pgxpool.Pool
}

// NewBattleReportRepository creates a BattleReportRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewBattleReportRepository(db *pgxpool.Pool) *BattleReportRepository {
	return &BattleReportRepository{db: db}
}

// Insert stores a battle report and returns it with ID and CreatedAt set.
//
// Precondition: r.Outcome must be non-empty; r.Rounds >= 1.
func (repo *BattleReportRepository) Insert(ctx context.Context, r *BattleReport) (*BattleReport, error) {
	var out BattleReport
	err := repo.db.QueryRow(ctx, `
		INSERT INTO battle_reports
			(background_key, outcome, rounds, squad_size, enemy_count,
			 captures, experience, gold, log)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, background_key, outcome, rounds, squad_size, enemy_count,
		          captures, experience, gold, log, created_at`,
		r.BackgroundKey, r.Outcome, r.Rounds, r.SquadSize, r.EnemyCount,
		r.Captures, r.Experience, r.Gold, r.Log,
	).Scan(
		&out.ID, &out.BackgroundKey, &out.Outcome, &out.Rounds, &out.SquadSize,
		&out.EnemyCount, &out.Captures, &out.Experience, &out.Gold, &out.Log,
		&out.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting battle report: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a battle report by ID.
//
// Postcondition: Returns the report, or ErrReportNotFound.
func (repo *BattleReportRepository) GetByID(ctx context.Context, id int64) (*BattleReport, error) {
	var out BattleReport
	err := repo.db.QueryRow(ctx, `
		SELECT id, background_key, outcome, rounds, squad_size, enemy_count,
		       captures, experience, gold, log, created_at
		FROM battle_reports WHERE id = $1`,
		id,
	).Scan(
		&out.ID, &out.BackgroundKey, &out.Outcome, &out.Rounds, &out.SquadSize,
		&out.EnemyCount, &out.Captures, &out.Experience, &out.Gold, &out.Log,
		&out.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("querying battle report: %w", err)
	}
	return &out, nil
}

// ListRecent returns the most recent battle reports, newest first.
//
// Precondition: limit must be > 0.
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (repo *BattleReportRepository) ListRecent(ctx context.Context, limit int) ([]*BattleReport, error) {
	rows, err := repo.db.Query(ctx, `
		SELECT id, background_key, outcome, rounds, squad_size, enemy_count,
		       captures, experience, gold, log, created_at
		FROM battle_reports ORDER BY created_at DESC, id DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing battle reports: %w", err)
	}
	defer rows.Close()

	reports := make([]*BattleReport, 0)
	for rows.Next() {
		var r BattleReport
		if err := rows.Scan(
			&r.ID, &r.BackgroundKey, &r.Outcome, &r.Rounds, &r.SquadSize,
			&r.EnemyCount, &r.Captures, &r.Experience, &r.Gold, &r.Log,
			&r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning battle report: %w", err)
		}
		reports = append(reports, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating battle reports: %w", err)
	}
	return reports, nil
}

// OutcomeCounts returns the number of stored reports per outcome label.
func (repo *BattleReportRepository) OutcomeCounts(ctx context.Context) (map[string]int, error) {
	rows, err := repo.db.Query(ctx,
		`SELECT outcome, COUNT(*) FROM battle_reports GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("counting battle reports: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scanning outcome count: %w", err)
		}
		counts[outcome] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating outcome counts: %w", err)
	}
	return counts, nil
}
