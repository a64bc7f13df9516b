package pgrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/mkala/shule/core/attendance"
)

type dbAttendanceSheet struct {
	ID        string              `db:"id"`
	Class     string              `db:"class"`
	CourseID  string              `db:"course_id"`
	Semester  string              `db:"semester"`
	Entries   attendance.EntryMap `db:"entries"`
	CreatedAt time.Time           `db:"created_at"`
	UpdatedAt time.Time           `db:"updated_at"`
}

func (s dbAttendanceSheet) toSheet() attendance.Sheet {
	return attendance.Sheet{
		ID:        s.ID,
		Class:     s.Class,
		CourseID:  s.CourseID,
		Semester:  s.Semester,
		Entries:   s.Entries,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sql.DB) *attendanceRepository {
	return &attendanceRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo attendanceRepository) UpsertSheet(sheet attendance.Sheet) (attendance.Sheet, error) {
	// existing entries not present in this write are preserved by the JSONB
	// concatenation; only keys present in EXCLUDED.entries are overwritten
	q := `
		INSERT INTO attendance_sheets (id, class, course_id, semester, entries, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET entries = attendance_sheets.entries || EXCLUDED.entries, updated_at = EXCLUDED.updated_at
		RETURNING *`
	var row dbAttendanceSheet
	err := repo.db.Get(
		&row, q,
		sheet.ID, sheet.Class, sheet.CourseID, sheet.Semester, sheet.Entries, sheet.CreatedAt, sheet.UpdatedAt,
	)
	if err != nil {
		return attendance.Sheet{}, errors.Wrap(err, "upserting attendance sheet")
	}
	return row.toSheet(), nil
}

func (repo attendanceRepository) GetSheetByID(id string) (attendance.Sheet, error) {
	var row dbAttendanceSheet
	if err := repo.db.Get(&row, "SELECT * FROM attendance_sheets WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return attendance.Sheet{}, attendance.ErrNotFound
		}
		return attendance.Sheet{}, errors.Wrap(err, "getting attendance sheet")
	}
	return row.toSheet(), nil
}

func (repo attendanceRepository) QueryAllSheets() ([]attendance.Sheet, error) {
	var rows []dbAttendanceSheet
	if err := repo.db.Select(&rows, "SELECT * FROM attendance_sheets ORDER BY id"); err != nil {
		return nil, errors.Wrap(err, "querying attendance sheets")
	}
	sheets := make([]attendance.Sheet, 0, len(rows))
	for _, row := range rows {
		sheets = append(sheets, row.toSheet())
	}
	return sheets, nil
}
