// Package sqlite provides a sqlite-backed dao.Store.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/touist-lang/touist/server/dao"
	"modernc.org/sqlite"
)

type store struct {
	dbFilename string
	db         *sql.DB

	accounts *AccountsDB
	jobs     *CompileJobsDB
}

func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{dbFilename: "touistd.db"}

	fileName := filepath.Join(storageDir, st.dbFilename)

	var err error
	st.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.accounts = &AccountsDB{db: st.db}
	if err := st.accounts.init(); err != nil {
		return nil, err
	}

	st.jobs = &CompileJobsDB{db: st.db}
	if err := st.jobs.init(); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *store) Accounts() dao.AccountRepository {
	return s.accounts
}

func (s *store) CompileJobs() dao.CompileJobRepository {
	return s.jobs
}

func (s *store) Close() error {
	return s.db.Close()
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}
