package svc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/touist-lang/touist/internal/cache"
	"github.com/touist-lang/touist/server/dao"
	"github.com/touist-lang/touist/server/dao/inmem"
	"github.com/touist-lang/touist/server/serr"
)

func newTestService() Service {
	return Service{DB: inmem.NewDatastore(), Compiled: &cache.Store{}}
}

func Test_CreateAccount_then_Login(t *testing.T) {
	svc := newTestService()

	created, err := svc.CreateAccount(context.Background(), "alice", "hunter2", dao.Normal)
	assert.NoError(t, err)
	assert.Equal(t, "alice", created.Name)
	assert.NotEqual(t, "hunter2", created.Password, "password must not be stored in plaintext")

	logged, err := svc.Login(context.Background(), "alice", "hunter2")
	assert.NoError(t, err)
	assert.Equal(t, created.ID, logged.ID)
}

func Test_Login_wrongPassword(t *testing.T) {
	svc := newTestService()
	_, err := svc.CreateAccount(context.Background(), "alice", "hunter2", dao.Normal)
	assert.NoError(t, err)

	_, err = svc.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, serr.ErrBadCredentials)
}

func Test_Login_unknownAccount(t *testing.T) {
	svc := newTestService()
	_, err := svc.Login(context.Background(), "nobody", "whatever")
	assert.ErrorIs(t, err, serr.ErrBadCredentials)
}

func Test_CreateAccount_duplicateName(t *testing.T) {
	svc := newTestService()
	_, err := svc.CreateAccount(context.Background(), "alice", "hunter2", dao.Normal)
	assert.NoError(t, err)

	_, err = svc.CreateAccount(context.Background(), "alice", "different", dao.Normal)
	assert.ErrorIs(t, err, serr.ErrAlreadyExists)
}

func Test_CreateAccount_blankFields(t *testing.T) {
	svc := newTestService()

	_, err := svc.CreateAccount(context.Background(), "", "hunter2", dao.Normal)
	assert.ErrorIs(t, err, serr.ErrBadArgument)

	_, err = svc.CreateAccount(context.Background(), "alice", "", dao.Normal)
	assert.ErrorIs(t, err, serr.ErrBadArgument)
}

func Test_Logout_stampsLastLogoutTime(t *testing.T) {
	svc := newTestService()
	acct, err := svc.CreateAccount(context.Background(), "alice", "hunter2", dao.Normal)
	assert.NoError(t, err)
	assert.True(t, acct.LastLogoutTime.IsZero())

	loggedOut, err := svc.Logout(context.Background(), acct.ID)
	assert.NoError(t, err)
	assert.False(t, loggedOut.LastLogoutTime.IsZero())
}
