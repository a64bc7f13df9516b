package main

import (
	"strings"
	"time"

	"github.com/mkala/shule/core"
	"github.com/mkala/shule/core/user"
)

func (cli *commandLine) resetPassword(identifier, pwd string) error {
	var usr user.User
	var err error
	if strings.Contains(identifier, "@") {
		usr, err = cli.usrRepo.GetUserByEmail(core.CleanString(identifier, true /* lower */))
	} else {
		usr, err = cli.usrRepo.GetUserByIDNumber(core.CleanString(identifier))
	}
	if err != nil {
		return err
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	_, err = cli.usrRepo.UpdateUser(user.User{
		ID:           usr.ID,
		PasswordHash: usr.PasswordHash,
		UpdatedAt:    time.Now().UTC(),
	}, nil)
	return err
}
