package inmem

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/touist-lang/touist/server/dao"
)

func Test_Accounts_createGetByName(t *testing.T) {
	repo := NewAccountsRepository()
	created, err := repo.Create(context.Background(), dao.Account{Name: "svc-1", Password: "hash"})
	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := repo.GetByName(context.Background(), "svc-1")
	assert.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func Test_Accounts_createDuplicateNameConflicts(t *testing.T) {
	repo := NewAccountsRepository()
	_, err := repo.Create(context.Background(), dao.Account{Name: "svc-1"})
	assert.NoError(t, err)

	_, err = repo.Create(context.Background(), dao.Account{Name: "svc-1"})
	assert.ErrorIs(t, err, dao.ErrConstraintViolation)
}

func Test_CompileJobs_createAndGetAllByAccount(t *testing.T) {
	repo := NewCompileJobsRepository()
	acctID := uuid.New()

	job1, err := repo.Create(context.Background(), dao.CompileJob{AccountID: acctID, Status: dao.JobQueued})
	assert.NoError(t, err)
	_, err = repo.Create(context.Background(), dao.CompileJob{AccountID: uuid.New(), Status: dao.JobQueued})
	assert.NoError(t, err)

	mine, err := repo.GetAllByAccount(context.Background(), acctID)
	assert.NoError(t, err)
	assert.Len(t, mine, 1)
	assert.Equal(t, job1.ID, mine[0].ID)
}

func Test_CompileJobs_updateTransitionsStatus(t *testing.T) {
	repo := NewCompileJobsRepository()
	job, err := repo.Create(context.Background(), dao.CompileJob{Status: dao.JobQueued})
	assert.NoError(t, err)

	job.Status = dao.JobDone
	job.Output = "p cnf 0 0\n"
	updated, err := repo.Update(context.Background(), job.ID, job)
	assert.NoError(t, err)
	assert.Equal(t, dao.JobDone, updated.Status)

	fetched, err := repo.GetByID(context.Background(), job.ID)
	assert.NoError(t, err)
	assert.Equal(t, "p cnf 0 0\n", fetched.Output)
}

func Test_CompileJobs_getByIDMissing(t *testing.T) {
	repo := NewCompileJobsRepository()
	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, dao.ErrNotFound)
}
