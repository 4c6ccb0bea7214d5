package sqlite

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/touist-lang/touist/server/dao"
)

type CompileJobsDB struct {
	db *sql.DB
}

func (repo *CompileJobsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS compile_jobs (
		id TEXT NOT NULL PRIMARY KEY,
		account_id TEXT NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL,
		status TEXT NOT NULL,
		ast TEXT NOT NULL,
		smt_mode INTEGER NOT NULL,
		check_only INTEGER NOT NULL,
		empty_generator_is_fatal INTEGER NOT NULL,
		output TEXT NOT NULL,
		name_table TEXT NOT NULL,
		diagnostics TEXT NOT NULL,
		job_error TEXT NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *CompileJobsDB) Create(ctx context.Context, job dao.CompileJob) (dao.CompileJob, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.CompileJob{}, fmt.Errorf("could not generate ID: %w", err)
	}
	job.ID = newUUID
	now := time.Now()

	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO compile_jobs (id, account_id, created, modified, status, ast, smt_mode, check_only,
			empty_generator_is_fatal, output, name_table, diagnostics, job_error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID.String(), job.AccountID.String(), now.Unix(), now.Unix(), job.Status.String(),
		convertToDB_ByteSlice(job.AST), boolToInt(job.SMTMode), boolToInt(job.CheckOnly),
		boolToInt(job.EmptyGeneratorIsFatal), job.Output, job.Table, job.Diagnostics, job.JobError,
	)
	if err != nil {
		return dao.CompileJob{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *CompileJobsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.CompileJob, error) {
	row := repo.db.QueryRowContext(ctx,
		`SELECT id, account_id, created, modified, status, ast, smt_mode, check_only,
			empty_generator_is_fatal, output, name_table, diagnostics, job_error
			FROM compile_jobs WHERE id = ?;`, id.String())
	return scanCompileJobRow(row)
}

func (repo *CompileJobsDB) GetAllByAccount(ctx context.Context, accountID uuid.UUID) ([]dao.CompileJob, error) {
	rows, err := repo.db.QueryContext(ctx,
		`SELECT id, account_id, created, modified, status, ast, smt_mode, check_only,
			empty_generator_is_fatal, output, name_table, diagnostics, job_error
			FROM compile_jobs WHERE account_id = ? ORDER BY created DESC;`, accountID.String())
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()
	return scanCompileJobRows(rows)
}

func (repo *CompileJobsDB) GetAll(ctx context.Context) ([]dao.CompileJob, error) {
	rows, err := repo.db.QueryContext(ctx,
		`SELECT id, account_id, created, modified, status, ast, smt_mode, check_only,
			empty_generator_is_fatal, output, name_table, diagnostics, job_error
			FROM compile_jobs ORDER BY created DESC;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()
	return scanCompileJobRows(rows)
}

func (repo *CompileJobsDB) Update(ctx context.Context, id uuid.UUID, job dao.CompileJob) (dao.CompileJob, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE compile_jobs SET id=?, account_id=?, modified=?, status=?, ast=?, smt_mode=?, check_only=?,
			empty_generator_is_fatal=?, output=?, name_table=?, diagnostics=?, job_error=? WHERE id=?;`,
		job.ID.String(), job.AccountID.String(), time.Now().Unix(), job.Status.String(),
		convertToDB_ByteSlice(job.AST), boolToInt(job.SMTMode), boolToInt(job.CheckOnly),
		boolToInt(job.EmptyGeneratorIsFatal), job.Output, job.Table, job.Diagnostics, job.JobError,
		id.String(),
	)
	if err != nil {
		return dao.CompileJob{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.CompileJob{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.CompileJob{}, dao.ErrNotFound
	}

	return repo.GetByID(ctx, job.ID)
}

func (repo *CompileJobsDB) Delete(ctx context.Context, id uuid.UUID) (dao.CompileJob, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM compile_jobs WHERE id = ?`, id.String())
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

func (repo *CompileJobsDB) Close() error {
	return nil
}

func scanCompileJobRows(rows *sql.Rows) ([]dao.CompileJob, error) {
	var all []dao.CompileJob
	for rows.Next() {
		job, err := scanCompileJobRow(rows)
		if err != nil {
			return all, err
		}
		all = append(all, job)
	}
	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}
	return all, nil
}

func scanCompileJobRow(row rowScanner) (dao.CompileJob, error) {
	var job dao.CompileJob
	var id, accountID, status, astStored string
	var created, modified int64
	var smtMode, checkOnly, emptyGenFatal int

	err := row.Scan(&id, &accountID, &created, &modified, &status, &astStored, &smtMode, &checkOnly,
		&emptyGenFatal, &job.Output, &job.Table, &job.Diagnostics, &job.JobError)
	if err != nil {
		return dao.CompileJob{}, wrapDBError(err)
	}

	job.ID, err = uuid.Parse(id)
	if err != nil {
		return job, fmt.Errorf("stored UUID %q is invalid", id)
	}
	job.AccountID, err = uuid.Parse(accountID)
	if err != nil {
		return job, fmt.Errorf("stored account UUID %q is invalid", accountID)
	}
	job.Status, err = dao.ParseJobStatus(status)
	if err != nil {
		return job, fmt.Errorf("stored status %q is invalid: %w", status, err)
	}
	job.AST, err = convertFromDB_ByteSlice(astStored)
	if err != nil {
		return job, err
	}
	job.Created = time.Unix(created, 0)
	job.Modified = time.Unix(modified, 0)
	job.SMTMode = smtMode != 0
	job.CheckOnly = checkOnly != 0
	job.EmptyGeneratorIsFatal = emptyGenFatal != 0

	return job, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func convertToDB_ByteSlice(b []byte) string {
	if len(b) < 1 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(b)
}

func convertFromDB_ByteSlice(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dao.ErrDecodingFailure, err)
	}
	return decoded, nil
}
