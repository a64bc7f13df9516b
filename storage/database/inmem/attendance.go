package inmemdb

import (
	"sort"

	"github.com/mkala/shule/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository(db *DB) *attendanceRepository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) UpsertSheet(sheet attendance.Sheet) (attendance.Sheet, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[sheet.ID]
	if !ok {
		cp := sheet
		cp.Entries = make(attendance.EntryMap, len(sheet.Entries))
		for id, present := range sheet.Entries {
			cp.Entries[id] = present
		}
		repo.db.table[sheet.ID] = &cp
		return cp, nil
	}

	// merge; students recorded earlier but missing from this write stay put
	for id, present := range sheet.Entries {
		orig.Entries[id] = present
	}
	orig.UpdatedAt = sheet.UpdatedAt
	return *orig, nil
}

func (repo *attendanceRepository) GetSheetByID(id string) (attendance.Sheet, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sheet, ok := repo.db.table[id]; ok {
		return *sheet, nil
	}
	return attendance.Sheet{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) QueryAllSheets() ([]attendance.Sheet, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	sheets := make([]attendance.Sheet, 0, len(repo.db.table))
	for _, sheet := range repo.db.table {
		sheets = append(sheets, *sheet)
	}
	sort.Slice(sheets, func(i, j int) bool { return sheets[i].ID < sheets[j].ID })
	return sheets, nil
}
