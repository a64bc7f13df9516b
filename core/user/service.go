package user

import (
	"net/mail"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/mkala/shule/core"
)

var (
	// errors
	ErrNotFound       = errors.New("user not found")
	ErrEmailExists    = errors.New("a user with this email already exists")
	ErrIDNumberExists = errors.New("a user with this ID number already exists")
)

type (
	Repository interface {
		CheckUniqueness(email, idNumber string, excludedUsers ...User) error
		CreateUser(usr User) (User, error)
		QueryAllUsers() ([]User, error)
		GetUserByID(id string) (User, error)
		GetUserByEmail(email string) (User, error)
		GetUserByIDNumber(idNumber string) (User, error)
		// FilterUsers applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of
		// User.FirstName, User.LastName, User.Email or User.IDNumber.
		FilterUsers(filter QueryFilter) ([]User, error)
		// UpdateUser only saves set fields; empty strings leave the stored
		// values untouched.
		UpdateUser(usr User, isActive *bool) (User, error)
		// AppendAssignment appends asg to the User's AssignedCourses.
		// Duplicate (course, class, section) tuples are not rejected.
		AppendAssignment(id string, asg Assignment) (User, error)
		DeleteUsersByID(ids ...string) error
	}

	Service interface {
		CheckUniqueness(email, idNumber string, excludedUsers ...User) error
		Create(nu NewUser) (User, error)
		QueryAll() ([]User, error)
		GetByID(id string) (User, error)
		GetByEmail(email string) (User, error)
		GetByIDNumber(idNumber string) (User, error)
		// GetByEmailOrIDNumber treats identifiers containing "@" as emails
		// and anything else as an ID number.
		GetByEmailOrIDNumber(identifier string) (User, error)
		Filter(filter QueryFilter) ([]User, error)
		Update(id string, uu UpdateUser) (User, error)
		AssignCourse(asg Assignment, userIDs ...string) ([]User, error)
		SetLastLogin(usr User) (User, error)
		Delete(ids ...string) error
		RequestPasswordReset(email string) error
		ResetPassword(rp ResetUserPassword) error
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) Service {
	initTokenGen(conf)
	return &service{
		repo:    repo,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

func (svc *service) CheckUniqueness(email, idNumber string, excludedUsers ...User) error {
	if err := svc.repo.CheckUniqueness(email, idNumber, excludedUsers...); err != nil {
		var field string
		switch err {
		case ErrEmailExists:
			field = "email"
		case ErrIDNumberExists:
			field = "id_number"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

func (svc *service) Create(nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		FirstName:   nu.FirstName,
		LastName:    nu.LastName,
		Email:       nu.Email,
		PhoneNumber: nu.PhoneNumber,
		IDNumber:    nu.IDNumber,
		PhotoURL:    nu.PhotoURL,
		Class:       nu.Class,
		Section:     nu.Section,
		Role:        nu.Role,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(usr)
}

func (svc *service) QueryAll() ([]User, error) {
	return svc.repo.QueryAllUsers()
}

func (svc *service) GetByID(id string) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *service) GetByEmail(email string) (User, error) {
	return svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
}

func (svc *service) GetByIDNumber(idNumber string) (User, error) {
	return svc.repo.GetUserByIDNumber(core.CleanString(idNumber))
}

func (svc *service) GetByEmailOrIDNumber(identifier string) (User, error) {
	if strings.Contains(identifier, "@") {
		return svc.GetByEmail(identifier)
	}
	return svc.GetByIDNumber(identifier)
}

func (svc *service) Filter(filter QueryFilter) ([]User, error) {
	return svc.repo.FilterUsers(filter)
}

func (svc *service) Update(id string, uu UpdateUser) (User, error) {
	usr := User{
		ID:          id,
		FirstName:   uu.FirstName,
		LastName:    uu.LastName,
		Email:       uu.Email,
		PhoneNumber: uu.PhoneNumber,
		IDNumber:    uu.IDNumber,
		PhotoURL:    uu.PhotoURL,
		Class:       uu.Class,
		Section:     uu.Section,
		Role:        uu.Role,
		UpdatedAt:   time.Now().UTC(),
	}
	if uu.Password != "" {
		if err := usr.SetPassword(uu.Password); err != nil {
			return User{}, err
		}
	}
	return svc.repo.UpdateUser(usr, uu.IsActive)
}

func (svc *service) AssignCourse(asg Assignment, userIDs ...string) ([]User, error) {
	users := make([]User, 0, len(userIDs))
	for _, id := range userIDs {
		usr, err := svc.repo.AppendAssignment(id, asg)
		if err != nil {
			return users, errors.Wrapf(err, "assigning course to user %s", id)
		}
		users = append(users, usr)
	}
	return users, nil
}

func (svc *service) SetLastLogin(usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateUser(User{ID: usr.ID, LastLogin: usr.LastLogin}, nil)
}

func (svc *service) Delete(ids ...string) error {
	return svc.repo.DeleteUsersByID(ids...)
}

func (svc *service) RequestPasswordReset(email string) error {
	usr, err := svc.GetByEmail(email)
	if err != nil {
		return err
	}
	go svc.sendPasswordResetMail(usr)
	return nil
}

func (svc *service) ResetPassword(rp ResetUserPassword) error {
	id, err := decodeUID(rp.UID)
	if err != nil {
		return core.NewValidationError(errInvalidToken)
	}
	usr, err := svc.repo.GetUserByID(id)
	if err != nil {
		return core.NewValidationError(errInvalidToken)
	}
	if err = verifyToken(usr, rp.Token); err != nil {
		return core.NewValidationError(err)
	}
	if err = usr.SetPassword(rp.Password); err != nil {
		return err
	}
	_, err = svc.repo.UpdateUser(User{ID: usr.ID, PasswordHash: usr.PasswordHash, UpdatedAt: time.Now().UTC()}, nil)
	return err
}

func (svc *service) sendPasswordResetMail(usr User) {
	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name(), Address: usr.Email}},
		Subject:      "Password reset",
		TemplateName: "password_reset",
		TemplateData: struct {
			User  User
			UID   string
			Token string
		}{usr, EncodeUID(usr), makeToken(usr)},
	}
	svc.mailSvc.SendMessages(msg)
}
