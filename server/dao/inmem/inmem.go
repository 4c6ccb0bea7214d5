// Package inmem provides an in-memory dao.Store, for tests and for running
// touistd without a filesystem.
package inmem

import (
	"fmt"

	"github.com/touist-lang/touist/server/dao"
)

type store struct {
	accounts *AccountsRepository
	jobs     *CompileJobsRepository
}

func NewDatastore() dao.Store {
	return &store{
		accounts: NewAccountsRepository(),
		jobs:     NewCompileJobsRepository(),
	}
}

func (s *store) Accounts() dao.AccountRepository {
	return s.accounts
}

func (s *store) CompileJobs() dao.CompileJobRepository {
	return s.jobs
}

func (s *store) Close() error {
	var err error

	if accErr := s.accounts.Close(); accErr != nil {
		err = accErr
	}
	if jobErr := s.jobs.Close(); jobErr != nil {
		if err != nil {
			err = fmt.Errorf("%s\nadditionally, %w", err, jobErr)
		} else {
			err = jobErr
		}
	}

	return err
}
