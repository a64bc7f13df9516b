package main

import (
	"time"

	"github.com/pkg/errors"

	"github.com/mkala/shule/core"
	"github.com/mkala/shule/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(email, idNumber, pwd string, isAdmin bool) error {
	email = core.CleanString(email, true /* lower */)
	idNumber = core.CleanString(idNumber)
	now := time.Now().UTC()

	usr, err := cli.usrRepo.GetUserByEmail(email)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Email:     email,
			IDNumber:  idNumber,
			CreatedAt: now,
		}
	}
	if isAdmin {
		usr.Role = user.RoleAdmin
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}

	if usr.ID == "" {
		usr.IsActive = true
		usr.UpdatedAt = now
		_, err = cli.usrRepo.CreateUser(usr)
		return err
	}

	active := true
	_, err = cli.usrRepo.UpdateUser(user.User{
		ID:           usr.ID,
		IDNumber:     idNumber,
		Role:         usr.Role,
		PasswordHash: usr.PasswordHash,
		UpdatedAt:    now,
	}, &active)
	return err
}
