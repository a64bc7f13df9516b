package pgrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/mkala/shule/core/exam"
)

type dbExamSheet struct {
	ID        string        `db:"id"`
	Class     string        `db:"class"`
	CourseID  string        `db:"course_id"`
	Semester  string        `db:"semester"`
	Scores    exam.ScoreMap `db:"scores"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}

func (s dbExamSheet) toSheet() exam.Sheet {
	return exam.Sheet{
		ID:        s.ID,
		Class:     s.Class,
		CourseID:  s.CourseID,
		Semester:  s.Semester,
		Scores:    s.Scores,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

type examRepository struct {
	db *sqlx.DB
}

var _ exam.Repository = (*examRepository)(nil) // interface compliance check

func NewExamRepository(db *sql.DB) *examRepository {
	return &examRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo examRepository) UpsertSheet(sheet exam.Sheet) (exam.Sheet, error) {
	q := `
		INSERT INTO exam_sheets (id, class, course_id, semester, scores, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET scores = exam_sheets.scores || EXCLUDED.scores, updated_at = EXCLUDED.updated_at
		RETURNING *`
	var row dbExamSheet
	err := repo.db.Get(
		&row, q,
		sheet.ID, sheet.Class, sheet.CourseID, sheet.Semester, sheet.Scores, sheet.CreatedAt, sheet.UpdatedAt,
	)
	if err != nil {
		return exam.Sheet{}, errors.Wrap(err, "upserting exam sheet")
	}
	return row.toSheet(), nil
}

func (repo examRepository) GetSheetByID(id string) (exam.Sheet, error) {
	var row dbExamSheet
	if err := repo.db.Get(&row, "SELECT * FROM exam_sheets WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return exam.Sheet{}, exam.ErrNotFound
		}
		return exam.Sheet{}, errors.Wrap(err, "getting exam sheet")
	}
	return row.toSheet(), nil
}

func (repo examRepository) QueryAllSheets() ([]exam.Sheet, error) {
	var rows []dbExamSheet
	if err := repo.db.Select(&rows, "SELECT * FROM exam_sheets ORDER BY id"); err != nil {
		return nil, errors.Wrap(err, "querying exam sheets")
	}
	sheets := make([]exam.Sheet, 0, len(rows))
	for _, row := range rows {
		sheets = append(sheets, row.toSheet())
	}
	return sheets, nil
}
