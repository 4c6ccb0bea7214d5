package inmem

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/touist-lang/touist/server/dao"
)

func NewCompileJobsRepository() *CompileJobsRepository {
	return &CompileJobsRepository{
		jobs: make(map[uuid.UUID]dao.CompileJob),
	}
}

type CompileJobsRepository struct {
	jobs map[uuid.UUID]dao.CompileJob
}

func (r *CompileJobsRepository) Close() error {
	return nil
}

func (r *CompileJobsRepository) Create(ctx context.Context, job dao.CompileJob) (dao.CompileJob, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.CompileJob{}, fmt.Errorf("could not generate ID: %w", err)
	}
	job.ID = newUUID
	job.Created = time.Now()
	job.Modified = job.Created

	r.jobs[job.ID] = job
	return job, nil
}

func (r *CompileJobsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.CompileJob, error) {
	job, ok := r.jobs[id]
	if !ok {
		return dao.CompileJob{}, dao.ErrNotFound
	}
	return job, nil
}

func (r *CompileJobsRepository) GetAllByAccount(ctx context.Context, accountID uuid.UUID) ([]dao.CompileJob, error) {
	var all []dao.CompileJob
	for k := range r.jobs {
		if r.jobs[k].AccountID == accountID {
			all = append(all, r.jobs[k])
		}
	}
	sortJobsByCreatedDesc(all)
	return all, nil
}

func (r *CompileJobsRepository) GetAll(ctx context.Context) ([]dao.CompileJob, error) {
	all := make([]dao.CompileJob, 0, len(r.jobs))
	for k := range r.jobs {
		all = append(all, r.jobs[k])
	}
	sortJobsByCreatedDesc(all)
	return all, nil
}

func (r *CompileJobsRepository) Update(ctx context.Context, id uuid.UUID, job dao.CompileJob) (dao.CompileJob, error) {
	existing, ok := r.jobs[id]
	if !ok {
		return dao.CompileJob{}, dao.ErrNotFound
	}

	job.Created = existing.Created
	job.Modified = time.Now()
	if job.ID != id {
		if _, ok := r.jobs[job.ID]; ok {
			return dao.CompileJob{}, dao.ErrConstraintViolation
		}
		delete(r.jobs, id)
	}
	r.jobs[job.ID] = job

	return job, nil
}

func (r *CompileJobsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.CompileJob, error) {
	job, ok := r.jobs[id]
	if !ok {
		return dao.CompileJob{}, dao.ErrNotFound
	}
	delete(r.jobs, id)
	return job, nil
}

func sortJobsByCreatedDesc(jobs []dao.CompileJob) {
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Created.After(jobs[j].Created) })
}
