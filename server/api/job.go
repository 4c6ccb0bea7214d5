package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/touist-lang/touist"
	"github.com/touist-lang/touist/server/dao"
	"github.com/touist-lang/touist/server/middle"
	"github.com/touist-lang/touist/server/result"
	"github.com/touist-lang/touist/server/serr"
)

func jobToModel(job dao.CompileJob) CompileJobModel {
	return CompileJobModel{
		URI:         PathPrefix + "/jobs/" + job.ID.String(),
		ID:          job.ID.String(),
		AccountID:   job.AccountID.String(),
		Status:      job.Status.String(),
		Created:     job.Created.Format(time.RFC3339),
		Modified:    job.Modified.Format(time.RFC3339),
		Output:      job.Output,
		Table:       job.Table,
		Diagnostics: job.Diagnostics,
		JobError:    job.JobError,
	}
}

// HTTPCreateJob returns a HandlerFunc that submits a program for compiling
// under the logged-in account.
//
// The handler has requirements for the request context it receives, and if
// the requirements are not met it may return an HTTP-500. The context must
// contain the logged-in account of the client making the request.
func (api API) HTTPCreateJob() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateJob)
}

func (api API) epCreateJob(req *http.Request) result.Result {
	acct := req.Context().Value(middle.AuthAccount).(dao.Account)

	var createReq CompileRequest
	err := parseJSON(req, &createReq)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if len(createReq.AST) == 0 {
		return result.BadRequest("ast: property is empty or missing from request", "empty ast")
	}

	opts := touist.Options{
		SMTMode:               createReq.SMTMode,
		CheckOnly:             createReq.CheckOnly,
		EmptyGeneratorIsFatal: createReq.EmptyGeneratorIsFatal,
	}

	job, err := api.Backend.SubmitJob(req.Context(), acct.ID, createReq.AST, opts)
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	resp := jobToModel(job)
	return result.Created(resp, "account '%s' submitted job %s", acct.Name, resp.ID)
}

// HTTPGetAllJobs returns a HandlerFunc that retrieves all jobs submitted by
// the logged-in account, or by any account if called by an admin.
//
// The handler has requirements for the request context it receives, and if
// the requirements are not met it may return an HTTP-500. The context must
// contain the logged-in account of the client making the request.
func (api API) HTTPGetAllJobs() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllJobs)
}

func (api API) epGetAllJobs(req *http.Request) result.Result {
	acct := req.Context().Value(middle.AuthAccount).(dao.Account)

	var jobs []dao.CompileJob
	var err error
	if acct.Role == dao.Admin {
		jobs, err = api.Backend.DB.CompileJobs().GetAll(req.Context())
	} else {
		jobs, err = api.Backend.GetJobsForAccount(req.Context(), acct.ID)
	}
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]CompileJobModel, len(jobs))
	for i := range jobs {
		resp[i] = jobToModel(jobs[i])
	}

	return result.OK(resp, "account '%s' got all jobs", acct.Name)
}

// HTTPGetJob returns a HandlerFunc that retrieves one compile job. All
// accounts may retrieve their own jobs, but only an admin account may
// retrieve jobs submitted by others.
//
// The handler has requirements for the request context it receives, and if
// the requirements are not met it may return an HTTP-500. The context must
// contain the ID of the job being operated on and the logged-in account of
// the client making the request.
func (api API) HTTPGetJob() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetJob)
}

func (api API) epGetJob(req *http.Request) result.Result {
	id := requireIDParam(req)
	acct := req.Context().Value(middle.AuthAccount).(dao.Account)

	job, err := api.Backend.GetJob(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not get job: " + err.Error())
	}

	if job.AccountID != acct.ID && acct.Role != dao.Admin {
		return result.Forbidden("account '%s' (role %s) get job %s: forbidden", acct.Name, acct.Role, id)
	}

	resp := jobToModel(job)
	return result.OK(resp, "account '%s' successfully got job %s", acct.Name, resp.ID)
}

// HTTPDeleteJob returns a HandlerFunc that deletes a compile job. All
// accounts may delete their own jobs, but only an admin account may delete
// jobs submitted by others.
//
// The handler has requirements for the request context it receives, and if
// the requirements are not met it may return an HTTP-500. The context must
// contain the ID of the job being deleted and the logged-in account of the
// client making the request.
func (api API) HTTPDeleteJob() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteJob)
}

func (api API) epDeleteJob(req *http.Request) result.Result {
	id := requireIDParam(req)
	acct := req.Context().Value(middle.AuthAccount).(dao.Account)

	existing, err := api.Backend.GetJob(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	if existing.AccountID != acct.ID && acct.Role != dao.Admin {
		return result.Forbidden("account '%s' (role %s) delete job %s: forbidden", acct.Name, acct.Role, id)
	}

	_, err = api.Backend.DeleteJob(req.Context(), id)
	if err != nil && !errors.Is(err, serr.ErrNotFound) {
		return result.InternalServerError("could not delete job: " + err.Error())
	}

	return result.NoContent("account '%s' successfully deleted job %s", acct.Name, id)
}
