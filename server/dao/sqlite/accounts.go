package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/touist-lang/touist/server/dao"
)

type AccountsDB struct {
	db *sql.DB
}

func (repo *AccountsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS accounts (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT NOT NULL,
		created INTEGER NOT NULL,
		last_logout_time INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *AccountsDB) Create(ctx context.Context, acct dao.Account) (dao.Account, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Account{}, fmt.Errorf("could not generate ID: %w", err)
	}

	now := time.Now()
	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO accounts (id, name, password, role, created, last_logout_time) VALUES (?, ?, ?, ?, ?, ?)`,
		newUUID.String(), acct.Name, acct.Password, acct.Role.String(), now.Unix(), now.Unix(),
	)
	if err != nil {
		return dao.Account{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *AccountsDB) GetAll(ctx context.Context) ([]dao.Account, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, name, password, role, created, last_logout_time FROM accounts;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Account
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return all, err
		}
		all = append(all, acct)
	}
	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}
	return all, nil
}

func (repo *AccountsDB) Update(ctx context.Context, id uuid.UUID, acct dao.Account) (dao.Account, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE accounts SET id=?, name=?, password=?, role=?, last_logout_time=? WHERE id=?;`,
		acct.ID.String(), acct.Name, acct.Password, acct.Role.String(), acct.LastLogoutTime.Unix(), id.String(),
	)
	if err != nil {
		return dao.Account{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.Account{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.Account{}, dao.ErrNotFound
	}
	return repo.GetByID(ctx, acct.ID)
}

func (repo *AccountsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Account, error) {
	row := repo.db.QueryRowContext(ctx,
		`SELECT id, name, password, role, created, last_logout_time FROM accounts WHERE id = ?;`, id.String())
	return scanAccountRow(row)
}

func (repo *AccountsDB) GetByName(ctx context.Context, name string) (dao.Account, error) {
	row := repo.db.QueryRowContext(ctx,
		`SELECT id, name, password, role, created, last_logout_time FROM accounts WHERE name = ?;`, name)
	return scanAccountRow(row)
}

func (repo *AccountsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Account, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id.String())
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

func (repo *AccountsDB) Close() error {
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(rows *sql.Rows) (dao.Account, error) {
	return scanAccountRow(rows)
}

func scanAccountRow(row rowScanner) (dao.Account, error) {
	var acct dao.Account
	var id, role string
	var created, logout int64

	err := row.Scan(&id, &acct.Name, &acct.Password, &role, &created, &logout)
	if err != nil {
		return dao.Account{}, wrapDBError(err)
	}

	acct.ID, err = uuid.Parse(id)
	if err != nil {
		return acct, fmt.Errorf("stored UUID %q is invalid", id)
	}
	acct.Role, err = dao.ParseRole(role)
	if err != nil {
		return acct, fmt.Errorf("stored role %q is invalid: %w", role, err)
	}
	acct.Created = time.Unix(created, 0)
	acct.LastLogoutTime = time.Unix(logout, 0)

	return acct, nil
}
