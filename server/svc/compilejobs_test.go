package svc

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/touist-lang/touist"
	"github.com/touist-lang/touist/internal/ast"
	"github.com/touist-lang/touist/internal/astcodec"
	"github.com/touist-lang/touist/server/dao"
	"github.com/touist-lang/touist/server/serr"
)

func encodeProgram(t *testing.T, stmts ...ast.Node) []byte {
	t.Helper()
	data, err := astcodec.Encode(ast.TouistCode{Stmts: stmts})
	assert.NoError(t, err)
	return data
}

func Test_SubmitJob_success(t *testing.T) {
	svc := newTestService()
	acctID := uuid.New()

	astBytes := encodeProgram(t, ast.Prop{Name: "a"})
	job, err := svc.SubmitJob(context.Background(), acctID, astBytes, touist.Options{})
	assert.NoError(t, err)
	assert.Equal(t, dao.JobDone, job.Status)
	assert.NotEmpty(t, job.Output)
	assert.Empty(t, job.JobError)
}

func Test_SubmitJob_emptyAST(t *testing.T) {
	svc := newTestService()
	_, err := svc.SubmitJob(context.Background(), uuid.New(), nil, touist.Options{})
	assert.ErrorIs(t, err, serr.ErrBadArgument)
}

func Test_SubmitJob_malformedAST(t *testing.T) {
	svc := newTestService()
	job, err := svc.SubmitJob(context.Background(), uuid.New(), []byte("not json"), touist.Options{})
	assert.NoError(t, err, "a malformed AST fails the job, not the call")
	assert.Equal(t, dao.JobFailed, job.Status)
	assert.NotEmpty(t, job.JobError)
}

func Test_GetJobsForAccount_onlyReturnsOwnJobs(t *testing.T) {
	svc := newTestService()
	acctID := uuid.New()
	otherID := uuid.New()

	astBytes := encodeProgram(t, ast.Prop{Name: "a"})
	_, err := svc.SubmitJob(context.Background(), acctID, astBytes, touist.Options{})
	assert.NoError(t, err)
	_, err = svc.SubmitJob(context.Background(), otherID, astBytes, touist.Options{})
	assert.NoError(t, err)

	jobs, err := svc.GetJobsForAccount(context.Background(), acctID)
	assert.NoError(t, err)
	assert.Len(t, jobs, 1)
	assert.Equal(t, acctID, jobs[0].AccountID)
}

func Test_DeleteJob(t *testing.T) {
	svc := newTestService()
	astBytes := encodeProgram(t, ast.Prop{Name: "a"})
	job, err := svc.SubmitJob(context.Background(), uuid.New(), astBytes, touist.Options{})
	assert.NoError(t, err)

	_, err = svc.DeleteJob(context.Background(), job.ID)
	assert.NoError(t, err)

	_, err = svc.GetJob(context.Background(), job.ID)
	assert.ErrorIs(t, err, serr.ErrNotFound)
}
