package user

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/mkala/shule/core"
)

// Roles
const (
	RoleStudent  = "student"
	RoleTeacher  = "teacher"
	RoleAdmin    = "admin"
	RoleAccounts = "accounts"
)

var (
	AllRoles = []string{RoleAccounts, RoleAdmin, RoleStudent, RoleTeacher} // sorted

	Roles = []Role{
		{Name: "Student", Value: RoleStudent},
		{Name: "Teacher", Value: RoleTeacher},
		{Name: "Admin", Value: RoleAdmin},
		{Name: "Accounts", Value: RoleAccounts},
	}
)

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Assignment links a User to a course offering.
// (CourseID, Class, Section) tuples are not unique within a User's
// AssignedCourses; duplicates are tolerated by all readers.
type Assignment struct {
	CourseID string `json:"course_id"`
	Class    string `json:"class"`
	Section  string `json:"section"`
}

// AssignmentList is stored as a JSONB column.
type AssignmentList []Assignment

func (al AssignmentList) Value() (driver.Value, error) {
	if al == nil {
		al = AssignmentList{}
	}
	return json.Marshal(al)
}

func (al *AssignmentList) Scan(src interface{}) error {
	if src == nil {
		*al = nil
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return errors.Errorf("unsupported type %T for AssignmentList", src)
	}
	return json.Unmarshal(data, al)
}

type User struct {
	ID              string         `json:"id"`
	FirstName       string         `json:"first_name"`
	LastName        string         `json:"last_name"`
	Email           string         `json:"email"`
	PhoneNumber     string         `json:"phone_number"`
	IDNumber        string         `json:"id_number"`
	PhotoURL        string         `json:"photo_url"`
	Class           string         `json:"class"`
	Section         string         `json:"section"`
	Role            string         `json:"role"`
	AssignedCourses AssignmentList `json:"assigned_courses"`
	IsActive        bool           `json:"is_active"`
	PasswordHash    []byte         `json:"-"`
	CreatedAt       time.Time      `json:"created_at"` // UTC
	UpdatedAt       time.Time      `json:"updated_at"` // UTC
	LastLogin       time.Time      `json:"last_login"` // UTC
}

func (u User) Name() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u User) IsStudent() bool  { return u.Role == RoleStudent }
func (u User) IsTeacher() bool  { return u.Role == RoleTeacher }
func (u User) IsAdmin() bool    { return u.Role == RoleAdmin }
func (u User) IsAccounts() bool { return u.Role == RoleAccounts }

// HasRole reports whether the User's role is a recognized one.
func (u User) HasRole() bool {
	for _, role := range AllRoles {
		if u.Role == role {
			return true
		}
	}
	return false
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	PhoneNumber     string `json:"phone_number"`
	IDNumber        string `json:"id_number" validate:"required,alphanum_"`
	PhotoURL        string `json:"photo_url" validate:"omitempty,url"`
	Class           string `json:"class"`
	Section         string `json:"section"`
	Role            string `json:"role" validate:"required,role"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (nu *NewUser) Validate(svc Service) error {
	nu.FirstName = core.CleanString(nu.FirstName)
	nu.LastName = core.CleanString(nu.LastName)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.PhoneNumber = core.CleanString(nu.PhoneNumber)
	nu.IDNumber = core.CleanString(nu.IDNumber)
	nu.PhotoURL = core.CleanString(nu.PhotoURL)
	nu.Class = core.CleanString(nu.Class)
	nu.Section = core.CleanString(nu.Section)
	nu.Role = core.CleanString(nu.Role, true /* lower */)

	if err := core.Validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(nu.Email, nu.IDNumber)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email" validate:"omitempty,email"`
	PhoneNumber     string `json:"phone_number"`
	IDNumber        string `json:"id_number" validate:"omitempty,alphanum_"`
	PhotoURL        string `json:"photo_url" validate:"omitempty,url"`
	Class           string `json:"class"`
	Section         string `json:"section"`
	Role            string `json:"role" validate:"omitempty,role"`
	IsActive        *bool  `json:"is_active"`
	Password        string `json:"password" validate:"omitempty"`
	PasswordConfirm string `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

func (uu *UpdateUser) Validate(origUsr User, svc Service) error {
	if name := core.CleanString(uu.FirstName); name != "" {
		uu.FirstName = name
	} else {
		uu.FirstName = origUsr.FirstName
	}
	if name := core.CleanString(uu.LastName); name != "" {
		uu.LastName = name
	} else {
		uu.LastName = origUsr.LastName
	}
	if email := core.CleanString(uu.Email, true /* lower */); email != "" {
		uu.Email = email
	} else {
		uu.Email = origUsr.Email
	}
	if idNum := core.CleanString(uu.IDNumber); idNum != "" {
		uu.IDNumber = idNum
	} else {
		uu.IDNumber = origUsr.IDNumber
	}
	uu.PhoneNumber = core.CleanString(uu.PhoneNumber)
	uu.PhotoURL = core.CleanString(uu.PhotoURL)
	uu.Class = core.CleanString(uu.Class)
	uu.Section = core.CleanString(uu.Section)
	uu.Role = core.CleanString(uu.Role, true /* lower */)

	if err := core.Validate.Struct(uu); err != nil {
		return err
	}
	return svc.CheckUniqueness(uu.Email, uu.IDNumber, origUsr)
}

type ResetUserPassword struct {
	Token           string `json:"token,omitempty" validate:"required"`
	UID             string `json:"uid,omitempty" validate:"required"`
	Password        string `json:"password,omitempty" validate:"required"`
	PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

func (rp ResetUserPassword) Validate() error { return core.Validate.Struct(rp) }

type QueryFilter struct {
	Search      string    `query:"search"`
	Roles       []string  `query:"role"`
	Class       string    `query:"class"`
	IsActive    *bool     `query:"is_active"`
	CreatedFrom time.Time `query:"created_from"`
	CreatedTo   time.Time `query:"created_to"`

	// Ordering is set by the API layer, not bound from the query string.
	Ordering []core.DBOrdering `query:"-"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Roles == nil && qf.Class == "" && qf.IsActive == nil &&
		qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero() && qf.Ordering == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Class = core.CleanString(qf.Class)
	for i, role := range qf.Roles {
		qf.Roles[i] = core.CleanString(role, true /* lower */)
	}
}
