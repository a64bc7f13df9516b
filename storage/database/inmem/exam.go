package inmemdb

import (
	"sort"

	"github.com/mkala/shule/core/exam"
)

type examRepository struct {
	db *examTable
}

var _ exam.Repository = (*examRepository)(nil)

func NewExamRepository(db *DB) *examRepository {
	return &examRepository{db: db.exam}
}

func (repo *examRepository) UpsertSheet(sheet exam.Sheet) (exam.Sheet, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[sheet.ID]
	if !ok {
		cp := sheet
		cp.Scores = make(exam.ScoreMap, len(sheet.Scores))
		for id, score := range sheet.Scores {
			cp.Scores[id] = score
		}
		repo.db.table[sheet.ID] = &cp
		return cp, nil
	}

	// merge; students recorded earlier but missing from this write stay put
	for id, score := range sheet.Scores {
		orig.Scores[id] = score
	}
	orig.UpdatedAt = sheet.UpdatedAt
	return *orig, nil
}

func (repo *examRepository) GetSheetByID(id string) (exam.Sheet, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sheet, ok := repo.db.table[id]; ok {
		return *sheet, nil
	}
	return exam.Sheet{}, exam.ErrNotFound
}

func (repo *examRepository) QueryAllSheets() ([]exam.Sheet, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	sheets := make([]exam.Sheet, 0, len(repo.db.table))
	for _, sheet := range repo.db.table {
		sheets = append(sheets, *sheet)
	}
	sort.Slice(sheets, func(i, j int) bool { return sheets[i].ID < sheets[j].ID })
	return sheets, nil
}
