package svc

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/touist-lang/touist"
	"github.com/touist-lang/touist/internal/ast"
	"github.com/touist-lang/touist/internal/astcodec"
	"github.com/touist-lang/touist/internal/diag"
	"github.com/touist-lang/touist/server/dao"
	"github.com/touist-lang/touist/server/serr"
)

// SubmitJob decodes the given wire-encoded AST, records a new CompileJob for
// the submitting account, and runs the compile to completion. touistd has no
// background worker pool yet; a submitted job runs synchronously and is
// persisted already in its terminal Done/Failed state by the time this
// returns, but the Status field is preserved so a future queue can populate
// it incrementally instead.
func (svc Service) SubmitJob(ctx context.Context, acctID uuid.UUID, astBytes []byte, opts touist.Options) (dao.CompileJob, error) {
	if len(astBytes) == 0 {
		return dao.CompileJob{}, serr.New("ast cannot be empty", serr.ErrBadArgument)
	}

	job := dao.CompileJob{
		AccountID:             acctID,
		Status:                dao.JobQueued,
		AST:                   astBytes,
		SMTMode:               opts.SMTMode,
		CheckOnly:             opts.CheckOnly,
		EmptyGeneratorIsFatal: opts.EmptyGeneratorIsFatal,
	}

	job, err := svc.DB.CompileJobs().Create(ctx, job)
	if err != nil {
		return dao.CompileJob{}, serr.WrapDB("could not create compile job", err)
	}

	job.Status = dao.JobRunning
	job, err = svc.DB.CompileJobs().Update(ctx, job.ID, job)
	if err != nil {
		return dao.CompileJob{}, serr.WrapDB("could not update compile job", err)
	}

	node, err := astcodec.Decode(astBytes)
	if err != nil {
		return svc.failJob(ctx, job, "malformed AST: "+err.Error())
	}

	code, ok := node.(ast.TouistCode)
	if !ok {
		return svc.failJob(ctx, job, "decoded AST root is not a TouistCode program")
	}

	entry, diags, err := touist.CompileCached(svc.Compiled, code, opts)
	if err != nil {
		msg := err.Error()
		if d, ok := err.(diag.Diagnostic); ok {
			msg = d.FullMessage()
		}
		return svc.failJob(ctx, job, msg)
	}

	job.Status = dao.JobDone
	job.Output = entry.Output
	job.Table = entry.Table
	job.Diagnostics = renderDiagnostics(diags)

	job, err = svc.DB.CompileJobs().Update(ctx, job.ID, job)
	if err != nil {
		return dao.CompileJob{}, serr.WrapDB("could not update compile job", err)
	}

	return job, nil
}

func (svc Service) failJob(ctx context.Context, job dao.CompileJob, msg string) (dao.CompileJob, error) {
	job.Status = dao.JobFailed
	job.JobError = msg

	updated, err := svc.DB.CompileJobs().Update(ctx, job.ID, job)
	if err != nil {
		return dao.CompileJob{}, serr.WrapDB("could not update compile job", err)
	}
	return updated, nil
}

func renderDiagnostics(diags []diag.Diagnostic) string {
	if len(diags) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, d := range diags {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(d.FullMessage())
	}
	return sb.String()
}

// GetJob retrieves the compile job with the given ID.
func (svc Service) GetJob(ctx context.Context, id uuid.UUID) (dao.CompileJob, error) {
	job, err := svc.DB.CompileJobs().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.CompileJob{}, serr.New("job not found", serr.ErrNotFound)
		}
		return dao.CompileJob{}, serr.WrapDB("", err)
	}
	return job, nil
}

// GetJobsForAccount retrieves every compile job submitted by the given
// account, most-recently-created first.
func (svc Service) GetJobsForAccount(ctx context.Context, acctID uuid.UUID) ([]dao.CompileJob, error) {
	jobs, err := svc.DB.CompileJobs().GetAllByAccount(ctx, acctID)
	if err != nil {
		return nil, serr.WrapDB("", err)
	}
	return jobs, nil
}

// DeleteJob removes the compile job with the given ID, returning the job as
// it existed immediately before deletion.
func (svc Service) DeleteJob(ctx context.Context, id uuid.UUID) (dao.CompileJob, error) {
	job, err := svc.DB.CompileJobs().Delete(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.CompileJob{}, serr.New("job not found", serr.ErrNotFound)
		}
		return dao.CompileJob{}, serr.WrapDB("", err)
	}
	return job, nil
}
