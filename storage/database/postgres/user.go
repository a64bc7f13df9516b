package pgrepos

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/mkala/shule/core"
	"github.com/mkala/shule/core/user"
)

type dbUser struct {
	ID              string              `db:"id"`
	FirstName       string              `db:"first_name"`
	LastName        string              `db:"last_name"`
	Email           string              `db:"email"`
	PhoneNumber     string              `db:"phone_number"`
	IDNumber        string              `db:"id_number"`
	PhotoURL        string              `db:"photo_url"`
	Class           string              `db:"class"`
	Section         string              `db:"section"`
	Role            string              `db:"role"`
	AssignedCourses user.AssignmentList `db:"assigned_courses"`
	IsActive        bool                `db:"is_active"`
	PasswordHash    []byte              `db:"password_hash"`
	CreatedAt       time.Time           `db:"created_at"`
	UpdatedAt       time.Time           `db:"updated_at"`
	LastLogin       time.Time           `db:"last_login"`
}

func (u dbUser) toUser() user.User {
	return user.User{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Email:           u.Email,
		PhoneNumber:     u.PhoneNumber,
		IDNumber:        u.IDNumber,
		PhotoURL:        u.PhotoURL,
		Class:           u.Class,
		Section:         u.Section,
		Role:            u.Role,
		AssignedCourses: u.AssignedCourses,
		IsActive:        u.IsActive,
		PasswordHash:    u.PasswordHash,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
		LastLogin:       u.LastLogin,
	}
}

func toUsers(rows []dbUser) []user.User {
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toUser())
	}
	return users
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db: sqlx.NewDb(db, "postgres")}
}

// trapNoRowsErr maps psql "no rows" err to user.ErrNotFound
func trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) CheckUniqueness(email, idNumber string, excludedUsers ...user.User) error {
	args := []interface{}{email}
	q := "SELECT email, id_number FROM users WHERE (email = $1"
	if idNumber != "" {
		args = append(args, idNumber)
		q += " OR id_number = $2"
	}
	q += ")"
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, u := range excludedUsers {
			ids = append(ids, u.ID)
		}
		args = append(args, pq.Array(ids))
		q += fmt.Sprintf(" AND id != ALL($%d)", len(args))
	}
	q += " LIMIT 1"

	var match struct {
		Email    string `db:"email"`
		IDNumber string `db:"id_number"`
	}
	if err := repo.db.Get(&match, q, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return errors.Wrap(err, "checking user uniqueness")
	}
	if match.Email == email {
		return user.ErrEmailExists
	}
	return user.ErrIDNumberExists
}

func (repo userRepository) CreateUser(usr user.User) (user.User, error) {
	usr.ID = uuid.New().String()
	q := `
		INSERT INTO users (
			id, first_name, last_name, email, phone_number, id_number, photo_url,
			class, section, role, assigned_courses, is_active, password_hash,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := repo.db.Exec(
		q, usr.ID, usr.FirstName, usr.LastName, usr.Email, usr.PhoneNumber, usr.IDNumber,
		usr.PhotoURL, usr.Class, usr.Section, usr.Role, usr.AssignedCourses, usr.IsActive,
		usr.PasswordHash, usr.CreatedAt, usr.UpdatedAt,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) QueryAllUsers() ([]user.User, error) {
	var rows []dbUser
	if err := repo.db.Select(&rows, "SELECT * FROM users ORDER BY created_at"); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return toUsers(rows), nil
}

func (repo userRepository) GetUserByID(id string) (user.User, error) {
	var row dbUser
	if err := repo.db.Get(&row, "SELECT * FROM users WHERE id = $1", id); err != nil {
		return user.User{}, trapNoRowsErr(err, "getting user by id")
	}
	return row.toUser(), nil
}

func (repo userRepository) GetUserByEmail(email string) (user.User, error) {
	var row dbUser
	if err := repo.db.Get(&row, "SELECT * FROM users WHERE email = $1", email); err != nil {
		return user.User{}, trapNoRowsErr(err, "getting user by email")
	}
	return row.toUser(), nil
}

func (repo userRepository) GetUserByIDNumber(idNumber string) (user.User, error) {
	var row dbUser
	if err := repo.db.Get(&row, "SELECT * FROM users WHERE id_number = $1", idNumber); err != nil {
		return user.User{}, trapNoRowsErr(err, "getting user by id number")
	}
	return row.toUser(), nil
}

func (repo userRepository) FilterUsers(filter user.QueryFilter) ([]user.User, error) {
	var (
		conds []string
		args  []interface{}
	)
	arg := func(val interface{}) string {
		args = append(args, val)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		conds = append(conds, fmt.Sprintf(
			"(first_name ILIKE %[1]s OR last_name ILIKE %[1]s OR email ILIKE %[1]s OR id_number ILIKE %[1]s)", p,
		))
	}
	if filter.Roles != nil {
		conds = append(conds, fmt.Sprintf("role = ANY(%s)", arg(pq.Array(filter.Roles))))
	}
	if filter.Class != "" {
		conds = append(conds, fmt.Sprintf("class = %s", arg(filter.Class)))
	}
	if filter.IsActive != nil {
		conds = append(conds, fmt.Sprintf("is_active = %s", arg(*filter.IsActive)))
	}
	if !filter.CreatedFrom.IsZero() {
		conds = append(conds, fmt.Sprintf("created_at >= %s", arg(filter.CreatedFrom)))
	}
	if !filter.CreatedTo.IsZero() {
		conds = append(conds, fmt.Sprintf("created_at <= %s", arg(filter.CreatedTo)))
	}

	q := "SELECT * FROM users"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += orderingClause(filter.Ordering)

	var rows []dbUser
	if err := repo.db.Select(&rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering users")
	}
	return toUsers(rows), nil
}

// orderableUserColumns whitelists the columns exposed via the ordering param.
var orderableUserColumns = map[string]bool{
	"first_name": true,
	"last_name":  true,
	"email":      true,
	"id_number":  true,
	"class":      true,
	"role":       true,
	"created_at": true,
	"last_login": true,
}

func orderingClause(ordering []core.DBOrdering) string {
	var clauses []string
	for _, ord := range ordering {
		if orderableUserColumns[ord.Field] {
			clauses = append(clauses, ord.String())
		}
	}
	if len(clauses) == 0 {
		return " ORDER BY created_at"
	}
	return " ORDER BY " + strings.Join(clauses, ", ")
}

func (repo userRepository) UpdateUser(usr user.User, isActive *bool) (user.User, error) {
	var (
		sets []string
		args []interface{}
	)
	set := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	// only save set fields
	if usr.FirstName != "" {
		set("first_name", usr.FirstName)
	}
	if usr.LastName != "" {
		set("last_name", usr.LastName)
	}
	if usr.Email != "" {
		set("email", usr.Email)
	}
	if usr.PhoneNumber != "" {
		set("phone_number", usr.PhoneNumber)
	}
	if usr.IDNumber != "" {
		set("id_number", usr.IDNumber)
	}
	if usr.PhotoURL != "" {
		set("photo_url", usr.PhotoURL)
	}
	if usr.Class != "" {
		set("class", usr.Class)
	}
	if usr.Section != "" {
		set("section", usr.Section)
	}
	if usr.Role != "" {
		set("role", usr.Role)
	}
	if usr.PasswordHash != nil {
		set("password_hash", usr.PasswordHash)
	}
	if isActive != nil {
		set("is_active", *isActive)
	}
	if !usr.UpdatedAt.IsZero() {
		set("updated_at", usr.UpdatedAt)
	}
	if !usr.LastLogin.IsZero() {
		set("last_login", usr.LastLogin)
	}
	if len(sets) == 0 {
		return repo.GetUserByID(usr.ID)
	}

	args = append(args, usr.ID)
	q := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d RETURNING *", strings.Join(sets, ", "), len(args))

	var row dbUser
	if err := repo.db.Get(&row, q, args...); err != nil {
		return user.User{}, trapNoRowsErr(err, "updating user")
	}
	return row.toUser(), nil
}

func (repo userRepository) AppendAssignment(id string, asg user.Assignment) (user.User, error) {
	// duplicates are kept; assignment tuples are not unique
	q := `
		UPDATE users
		SET assigned_courses = assigned_courses || $2::jsonb, updated_at = now()
		WHERE id = $1
		RETURNING *`
	val, err := user.AssignmentList{asg}.Value()
	if err != nil {
		return user.User{}, errors.Wrap(err, "encoding assignment")
	}

	var row dbUser
	if err := repo.db.Get(&row, q, id, val); err != nil {
		return user.User{}, trapNoRowsErr(err, "appending assignment")
	}
	return row.toUser(), nil
}

func (repo userRepository) DeleteUsersByID(ids ...string) error {
	if _, err := repo.db.Exec("DELETE FROM users WHERE id = ANY($1)", pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}
