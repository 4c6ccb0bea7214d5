package inmem

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/touist-lang/touist/server/dao"
)

func NewAccountsRepository() *AccountsRepository {
	return &AccountsRepository{
		accounts:    make(map[uuid.UUID]dao.Account),
		byNameIndex: make(map[string]uuid.UUID),
	}
}

type AccountsRepository struct {
	accounts    map[uuid.UUID]dao.Account
	byNameIndex map[string]uuid.UUID
}

func (r *AccountsRepository) Close() error {
	return nil
}

func (r *AccountsRepository) Create(ctx context.Context, acct dao.Account) (dao.Account, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Account{}, fmt.Errorf("could not generate ID: %w", err)
	}
	acct.ID = newUUID

	if _, ok := r.byNameIndex[acct.Name]; ok {
		return dao.Account{}, dao.ErrConstraintViolation
	}

	acct.Created = time.Now()
	acct.LastLogoutTime = time.Now()

	r.accounts[acct.ID] = acct
	r.byNameIndex[acct.Name] = acct.ID

	return acct, nil
}

func (r *AccountsRepository) GetAll(ctx context.Context) ([]dao.Account, error) {
	all := make([]dao.Account, 0, len(r.accounts))
	for k := range r.accounts {
		all = append(all, r.accounts[k])
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID.String() < all[j].ID.String() })
	return all, nil
}

func (r *AccountsRepository) Update(ctx context.Context, id uuid.UUID, acct dao.Account) (dao.Account, error) {
	existing, ok := r.accounts[id]
	if !ok {
		return dao.Account{}, dao.ErrNotFound
	}

	if acct.Name != existing.Name {
		if _, ok := r.byNameIndex[acct.Name]; ok {
			return dao.Account{}, dao.ErrConstraintViolation
		}
	} else if acct.ID != id {
		if _, ok := r.accounts[acct.ID]; ok {
			return dao.Account{}, dao.ErrConstraintViolation
		}
	}

	delete(r.byNameIndex, existing.Name)
	if acct.ID != id {
		delete(r.accounts, id)
	}
	r.accounts[acct.ID] = acct
	r.byNameIndex[acct.Name] = acct.ID

	return acct, nil
}

func (r *AccountsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Account, error) {
	acct, ok := r.accounts[id]
	if !ok {
		return dao.Account{}, dao.ErrNotFound
	}
	return acct, nil
}

func (r *AccountsRepository) GetByName(ctx context.Context, name string) (dao.Account, error) {
	id, ok := r.byNameIndex[name]
	if !ok {
		return dao.Account{}, dao.ErrNotFound
	}
	return r.accounts[id], nil
}

func (r *AccountsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Account, error) {
	acct, ok := r.accounts[id]
	if !ok {
		return dao.Account{}, dao.ErrNotFound
	}

	delete(r.byNameIndex, acct.Name)
	delete(r.accounts, acct.ID)

	return acct, nil
}
