package inmemdb

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/mkala/shule/core"
	"github.com/mkala/shule/core/user"
)

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db.user}
}

func (repo *userRepository) query() []user.User {
	users := make([]user.User, 0, len(repo.db.table))
	for _, u := range repo.db.table {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users
}

func (repo *userRepository) CheckUniqueness(email, idNumber string, excludedUsers ...user.User) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	exclUsrsLen := len(excludedUsers)
	if exclUsrsLen > 1 {
		sort.Slice(excludedUsers, func(i, j int) bool { return excludedUsers[i].ID < excludedUsers[j].ID })
	}

	for _, usr := range repo.query() {
		if isExcluded(usr, excludedUsers, exclUsrsLen) {
			continue
		}
		if usr.Email == email {
			return user.ErrEmailExists
		}
		if idNumber != "" && usr.IDNumber == idNumber {
			return user.ErrIDNumberExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	usr.ID = uuid.New().String()
	repo.db.table[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *userRepository) GetUserByID(id string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if usr, ok := repo.db.table[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.query() {
		if usr.Email == email {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByIDNumber(idNumber string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.query() {
		if usr.IDNumber == idNumber {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) FilterUsers(filter user.QueryFilter) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matchSearch := func(usr user.User) bool {
		if filter.Search == "" {
			return true
		}
		search := strings.ToLower(filter.Search)
		for _, attr := range []string{usr.FirstName, usr.LastName, usr.Email, usr.IDNumber} {
			if strings.Contains(strings.ToLower(attr), search) {
				return true
			}
		}
		return false
	}
	matchRole := func(usr user.User) bool {
		if filter.Roles == nil {
			return true
		}
		for _, role := range filter.Roles {
			if usr.Role == role {
				return true
			}
		}
		return false
	}

	var users []user.User
	for _, usr := range repo.query() {
		if !matchSearch(usr) || !matchRole(usr) {
			continue
		}
		if filter.Class != "" && usr.Class != filter.Class {
			continue
		}
		if filter.IsActive != nil && usr.IsActive != *filter.IsActive {
			continue
		}
		if !filter.CreatedFrom.IsZero() && usr.CreatedAt.Before(filter.CreatedFrom) {
			continue
		}
		if !filter.CreatedTo.IsZero() && usr.CreatedAt.After(filter.CreatedTo) {
			continue
		}
		users = append(users, usr)
	}
	applyOrdering(users, filter.Ordering)
	return users, nil
}

func applyOrdering(users []user.User, ordering []core.DBOrdering) {
	for i := len(ordering) - 1; i >= 0; i-- {
		ord := ordering[i]
		key := func(usr user.User) string {
			switch ord.Field {
			case "first_name":
				return usr.FirstName
			case "last_name":
				return usr.LastName
			case "email":
				return usr.Email
			case "id_number":
				return usr.IDNumber
			case "class":
				return usr.Class
			case "role":
				return usr.Role
			default:
				return ""
			}
		}
		sort.SliceStable(users, func(i, j int) bool {
			if ord.Ascending {
				return key(users[i]) < key(users[j])
			}
			return key(users[i]) > key(users[j])
		})
	}
}

func (repo *userRepository) UpdateUser(usr user.User, isActive *bool) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// only save set fields
	origUsr, ok := repo.db.table[usr.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	if usr.FirstName != "" {
		origUsr.FirstName = usr.FirstName
	}
	if usr.LastName != "" {
		origUsr.LastName = usr.LastName
	}
	if usr.Email != "" {
		origUsr.Email = usr.Email
	}
	if usr.PhoneNumber != "" {
		origUsr.PhoneNumber = usr.PhoneNumber
	}
	if usr.IDNumber != "" {
		origUsr.IDNumber = usr.IDNumber
	}
	if usr.PhotoURL != "" {
		origUsr.PhotoURL = usr.PhotoURL
	}
	if usr.Class != "" {
		origUsr.Class = usr.Class
	}
	if usr.Section != "" {
		origUsr.Section = usr.Section
	}
	if usr.Role != "" {
		origUsr.Role = usr.Role
	}
	if usr.PasswordHash != nil {
		origUsr.PasswordHash = usr.PasswordHash
	}
	if isActive != nil {
		origUsr.IsActive = *isActive
	}
	if !usr.UpdatedAt.IsZero() {
		origUsr.UpdatedAt = usr.UpdatedAt
	}
	if !usr.LastLogin.IsZero() {
		origUsr.LastLogin = usr.LastLogin
	}

	repo.db.table[usr.ID] = origUsr
	return *origUsr, nil
}

func (repo *userRepository) AppendAssignment(id string, asg user.Assignment) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	usr, ok := repo.db.table[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	// duplicates are kept; assignment tuples are not unique
	usr.AssignedCourses = append(usr.AssignedCourses, asg)
	return *usr, nil
}

func (repo *userRepository) DeleteUsersByID(ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func isExcluded(usr user.User, excludedUsers []user.User, n int) bool {
	if n <= 0 {
		return false
	}
	idx := sort.Search(n, func(i int) bool { return excludedUsers[i].ID >= usr.ID })
	return idx < n && excludedUsers[idx].ID == usr.ID
}
