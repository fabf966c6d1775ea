package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jknair0/beforeeach"

	"fruit-inspector/api/internal/fruit"
)

var (
	db   *sql.DB
	mock sqlmock.Sqlmock
)

func setUp() {
	db, mock, _ = sqlmock.New()
}

func tearDown() {
	db.Close()
}

var it = beforeeach.Create(setUp, tearDown)

func sampleAnalysis() fruit.Analysis {
	return fruit.Analysis{
		Fruit:    fruit.Identification{Fruit: "apple", Emoji: "🍎", Confidence: 92},
		Ripeness: fruit.RipenessAnalysis{Ripeness: fruit.Ripeness{Level: "perfect", Score: 85}},
		Overall:  &fruit.OverallQuality{Score: 90, Grade: fruit.GradeExcellent},
	}
}

func TestEnsureSchema(t *testing.T) {
	it(func() {
		mock.ExpectExec("create table if not exists analyses").WillReturnResult(sqlmock.NewResult(0, 0))
		if err := NewAnalysisRepo(db).EnsureSchema(context.Background()); err != nil {
			t.Errorf("EnsureSchema() error: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations: %v", err)
		}
	})
}

func TestSave(t *testing.T) {
	it(func() {
		testCases := []struct {
			name          string
			analysis      fruit.Analysis
			score         any
			grade         any
			dbErr         error
			errorExpected bool
		}{
			{
				name:     "with overall",
				analysis: sampleAnalysis(),
				score:    int64(90),
				grade:    "excellent",
			},
			{
				name:     "without overall",
				analysis: fruit.Analysis{Fruit: fruit.Identification{Fruit: "pear", Confidence: 80}},
				score:    nil,
				grade:    nil,
			},
			{
				name:          "db error",
				analysis:      sampleAnalysis(),
				score:         int64(90),
				grade:         "excellent",
				dbErr:         errors.New("connection lost"),
				errorExpected: true,
			},
		}

		for _, tc := range testCases {
			exp := mock.ExpectQuery("insert into analyses").
				WithArgs(int64(7), "hash", "anthropic", "m", "en", tc.analysis.Fruit.Fruit, tc.analysis.Fruit.Confidence, tc.score, tc.grade, sqlmock.AnyArg())
			if tc.dbErr != nil {
				exp.WillReturnError(tc.dbErr)
			} else {
				exp.WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
			}

			id, err := NewAnalysisRepo(db).Save(context.Background(), AnalysisRow{
				ChatID: 7, ImageHash: "hash", Engine: "anthropic", Model: "m", Locale: "en",
				Analysis: tc.analysis,
			})
			if tc.errorExpected != (err != nil) {
				t.Errorf("%s: expected error: %v, got error: %v", tc.name, tc.errorExpected, err)
			}
			if !tc.errorExpected && id != 11 {
				t.Errorf("%s: id = %d, want 11", tc.name, id)
			}
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations: %v", err)
		}
	})
}

func TestRecent(t *testing.T) {
	it(func() {
		js, _ := json.Marshal(sampleAnalysis())
		now := time.Now()
		cols := []string{"id", "created_at", "chat_id", "image_hash", "engine", "model", "locale", "result_json"}

		mock.ExpectQuery("where chat_id = \\$1 order by created_at desc limit \\$2").
			WithArgs(int64(7), 5).
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow(int64(2), now, int64(7), "h2", "anthropic", "m", "en", js).
				AddRow(int64(1), now, int64(7), "h1", "anthropic", "m", "en", []byte("{broken")))

		rows, err := NewAnalysisRepo(db).Recent(context.Background(), 7, 5)
		if err != nil {
			t.Fatalf("Recent() error: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("len(rows) = %d, want 1 (broken json skipped)", len(rows))
		}
		if rows[0].ID != 2 || rows[0].Analysis.Fruit.Fruit != "apple" || rows[0].Analysis.Overall.Score != 90 {
			t.Errorf("row = %+v", rows[0])
		}

		mock.ExpectQuery("from analyses order by created_at desc limit \\$1").
			WithArgs(10).
			WillReturnRows(sqlmock.NewRows(cols))
		if rows, err := NewAnalysisRepo(db).Recent(context.Background(), 0, 0); err != nil || len(rows) != 0 {
			t.Errorf("Recent(all) = %v, %v", rows, err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations: %v", err)
		}
	})
}

func TestPurgeOlderThan(t *testing.T) {
	it(func() {
		repo := NewAnalysisRepo(db)
		if _, err := repo.PurgeOlderThan(context.Background(), 0); err == nil {
			t.Errorf("PurgeOlderThan(0) should fail")
		}

		mock.ExpectExec("delete from analyses where created_at < \\$1").
			WithArgs(sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 3))
		n, err := repo.PurgeOlderThan(context.Background(), 30*24*time.Hour)
		if err != nil || n != 3 {
			t.Errorf("PurgeOlderThan() = %d, %v", n, err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations: %v", err)
		}
	})
}
