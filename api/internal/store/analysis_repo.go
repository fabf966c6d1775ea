package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"fruit-inspector/api/internal/fruit"
)

var ErrNotFound = sql.ErrNoRows

// AnalysisRepo: журнал завершённых анализов. Перед запуском пайплайна не читается:
// это история, а не кэш.
type AnalysisRepo struct{ DB *sql.DB }

func NewAnalysisRepo(db *sql.DB) *AnalysisRepo { return &AnalysisRepo{DB: db} }

type AnalysisRow struct {
	ID        int64
	CreatedAt time.Time
	ChatID    int64
	ImageHash string
	Engine    string
	Model     string
	Locale    string
	Analysis  fruit.Analysis
}

const schema = `
create table if not exists analyses (
  id            bigserial primary key,
  created_at    timestamptz not null default now(),
  chat_id       bigint not null default 0,
  image_hash    text not null,
  engine        text not null,
  model         text not null,
  locale        text not null default 'en',
  fruit         text not null,
  confidence    double precision not null,
  overall_score integer,
  grade         text,
  result_json   jsonb not null
);
create index if not exists analyses_chat_created_idx on analyses (chat_id, created_at desc)`

func (r *AnalysisRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, schema)
	return err
}

// Save записывает результат и возвращает id строки.
func (r *AnalysisRepo) Save(ctx context.Context, row AnalysisRow) (int64, error) {
	js, err := json.Marshal(row.Analysis)
	if err != nil {
		return 0, err
	}
	var (
		score sql.NullInt64
		grade sql.NullString
	)
	if o := row.Analysis.Overall; o != nil {
		score = sql.NullInt64{Int64: int64(o.Score), Valid: true}
		grade = sql.NullString{String: string(o.Grade), Valid: true}
	}
	const q = `
insert into analyses (
  chat_id, image_hash, engine, model, locale,
  fruit, confidence, overall_score, grade, result_json
) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
returning id`
	var id int64
	err = r.DB.QueryRowContext(ctx, q,
		row.ChatID, row.ImageHash, row.Engine, row.Model, row.Locale,
		row.Analysis.Fruit.Fruit, row.Analysis.Fruit.Confidence, score, grade, js,
	).Scan(&id)
	return id, err
}

// Recent: последние записи чата, новые первыми. chatID=0 — по всем чатам.
func (r *AnalysisRepo) Recent(ctx context.Context, chatID int64, limit int) ([]AnalysisRow, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	const cols = `select id, created_at, chat_id, image_hash, engine, model, locale, result_json from analyses`
	var (
		rows *sql.Rows
		err  error
	)
	if chatID == 0 {
		rows, err = r.DB.QueryContext(ctx, cols+` order by created_at desc limit $1`, limit)
	} else {
		rows, err = r.DB.QueryContext(ctx, cols+` where chat_id = $1 order by created_at desc limit $2`, chatID, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AnalysisRow
	for rows.Next() {
		var (
			row AnalysisRow
			js  []byte
		)
		if err := rows.Scan(&row.ID, &row.CreatedAt, &row.ChatID, &row.ImageHash,
			&row.Engine, &row.Model, &row.Locale, &js); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(js, &row.Analysis); err != nil {
			// битая запись не должна ломать всю выдачу
			continue
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// PurgeOlderThan удаляет старую историю.
func (r *AnalysisRepo) PurgeOlderThan(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, errors.New("olderThan must be > 0")
	}
	cutoff := time.Now().Add(-olderThan)
	const q = `delete from analyses where created_at < $1`
	res, err := r.DB.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	aff, _ := res.RowsAffected()
	return aff, nil
}
