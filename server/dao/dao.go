// Package dao provides data access objects for use in the touist server.
package dao

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
	ErrNotFound            = errors.New("the requested resource was not found")
	ErrDecodingFailure     = errors.New("field could not be decoded from DB storage format to model format")
)

// Store holds all the repositories.
type Store interface {
	Accounts() AccountRepository
	CompileJobs() CompileJobRepository
	Close() error
}

// JobStatus is the lifecycle state of a CompileJob.
type JobStatus int

const (
	JobQueued JobStatus = iota
	JobRunning
	JobDone
	JobFailed
)

func (s JobStatus) String() string {
	switch s {
	case JobQueued:
		return "queued"
	case JobRunning:
		return "running"
	case JobDone:
		return "done"
	case JobFailed:
		return "failed"
	default:
		return fmt.Sprintf("JobStatus(%d)", int(s))
	}
}

func ParseJobStatus(s string) (JobStatus, error) {
	switch strings.ToLower(s) {
	case "queued":
		return JobQueued, nil
	case "running":
		return JobRunning, nil
	case "done":
		return JobDone, nil
	case "failed":
		return JobFailed, nil
	default:
		return JobQueued, fmt.Errorf("must be one of 'queued', 'running', 'done', or 'failed'")
	}
}

// CompileJobRepository stores one submitted compile per row: the AST it was
// given, the options it was compiled under, and (once the job has left
// JobQueued) the emitted clause text or the error that failed it.
type CompileJobRepository interface {
	Create(ctx context.Context, job CompileJob) (CompileJob, error)
	GetByID(ctx context.Context, id uuid.UUID) (CompileJob, error)

	// GetAllByAccount retrieves every job submitted by the given account,
	// most-recently-created first.
	GetAllByAccount(ctx context.Context, accountID uuid.UUID) ([]CompileJob, error)
	GetAll(ctx context.Context) ([]CompileJob, error)
	Update(ctx context.Context, id uuid.UUID, job CompileJob) (CompileJob, error)
	Delete(ctx context.Context, id uuid.UUID) (CompileJob, error)
	Close() error
}

// CompileJob is one request to compile a touist AST into a clause set. AST
// and Options are the request as submitted; Output/Table/Diagnostics/JobError
// are populated once Status leaves JobQueued.
type CompileJob struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Created   time.Time
	Modified  time.Time
	Status    JobStatus

	// AST is the submitted program, encoded per internal/astcodec.
	AST []byte

	SMTMode               bool
	CheckOnly             bool
	EmptyGeneratorIsFatal bool

	// Output holds the DIMACS/QDIMACS text once Status is JobDone.
	Output string
	// Table holds the proposition name/ID table once Status is JobDone.
	Table string
	// Diagnostics holds the JSON-encoded diagnostic list collected during
	// the compile, populated regardless of whether the job succeeded.
	Diagnostics string
	// JobError holds the compile error's message once Status is JobFailed.
	JobError string
}

// AccountRepository stores the service accounts allowed to submit compile
// jobs. There is no notion of roles beyond Admin/Normal: an Admin account may
// list and delete any account's jobs, a Normal one only its own.
type AccountRepository interface {
	Create(ctx context.Context, acct Account) (Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)
	GetByName(ctx context.Context, name string) (Account, error)
	GetAll(ctx context.Context) ([]Account, error)
	Update(ctx context.Context, id uuid.UUID, acct Account) (Account, error)
	Delete(ctx context.Context, id uuid.UUID) (Account, error)
	Close() error
}

type Role int

const (
	Normal Role = iota
	Admin
)

func (r Role) String() string {
	switch r {
	case Normal:
		return "normal"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(s) {
	case "normal":
		return Normal, nil
	case "admin":
		return Admin, nil
	default:
		return Normal, fmt.Errorf("must be one of 'normal' or 'admin'")
	}
}

type Account struct {
	ID             uuid.UUID // PK, NOT NULL
	Name           string    // UNIQUE, NOT NULL
	Password       string    // NOT NULL, bcrypt hash
	Role           Role      // NOT NULL
	Created        time.Time // NOT NULL
	LastLogoutTime time.Time // NOT NULL DEFAULT NOW()
}
