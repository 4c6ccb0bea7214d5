package svc

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/touist-lang/touist/server/dao"
	"github.com/touist-lang/touist/server/serr"
	"golang.org/x/crypto/bcrypt"
)

// Login verifies the provided account name and password against persistence
// and returns that account if they match.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If the credentials do not
// match an account or the password is incorrect, it will match
// serr.ErrBadCredentials. If the error occurred due to an unexpected problem
// with the DB, it will match serr.ErrDB.
func (svc Service) Login(ctx context.Context, name, password string) (dao.Account, error) {
	acct, err := svc.DB.Accounts().GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Account{}, serr.ErrBadCredentials
		}
		return dao.Account{}, serr.WrapDB("", err)
	}

	bcryptHash, err := base64.StdEncoding.DecodeString(acct.Password)
	if err != nil {
		return dao.Account{}, err
	}

	err = bcrypt.CompareHashAndPassword(bcryptHash, []byte(password))
	if err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return dao.Account{}, serr.ErrBadCredentials
		}
		return dao.Account{}, serr.WrapDB("", err)
	}

	return acct, nil
}

// Logout marks the account with the given ID as having logged out,
// invalidating any token issued before this call.
func (svc Service) Logout(ctx context.Context, id uuid.UUID) (dao.Account, error) {
	acct, err := svc.DB.Accounts().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Account{}, serr.New("account not found", serr.ErrNotFound)
		}
		return dao.Account{}, serr.WrapDB("", err)
	}

	acct.LastLogoutTime = time.Now()
	acct, err = svc.DB.Accounts().Update(ctx, acct.ID, acct)
	if err != nil {
		return dao.Account{}, serr.WrapDB("cannot update account logout time", err)
	}

	return acct, nil
}

// CreateAccount creates a new service account with the given name, password,
// and role. Returns the newly-created account as it exists after creation.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If an account with that name
// already exists, it will match serr.ErrAlreadyExists. If one of the
// arguments is invalid, it will match serr.ErrBadArgument.
func (svc Service) CreateAccount(ctx context.Context, name, password string, role dao.Role) (dao.Account, error) {
	if name == "" {
		return dao.Account{}, serr.New("name cannot be blank", serr.ErrBadArgument)
	}
	if password == "" {
		return dao.Account{}, serr.New("password cannot be blank", serr.ErrBadArgument)
	}

	_, err := svc.DB.Accounts().GetByName(ctx, name)
	if err == nil {
		return dao.Account{}, serr.New("an account with that name already exists", serr.ErrAlreadyExists)
	} else if !errors.Is(err, dao.ErrNotFound) {
		return dao.Account{}, serr.WrapDB("", err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		if err == bcrypt.ErrPasswordTooLong {
			return dao.Account{}, serr.New("password is too long", err, serr.ErrBadArgument)
		}
		return dao.Account{}, serr.New("password could not be encrypted", err)
	}

	acct, err := svc.DB.Accounts().Create(ctx, dao.Account{
		Name:     name,
		Password: base64.StdEncoding.EncodeToString(passHash),
		Role:     role,
	})
	if err != nil {
		if errors.Is(err, dao.ErrConstraintViolation) {
			return dao.Account{}, serr.ErrAlreadyExists
		}
		return dao.Account{}, serr.WrapDB("could not create account", err)
	}

	return acct, nil
}
