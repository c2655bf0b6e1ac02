package dbbadger

import (
	"context"

	"github.com/fundme-network/fundme-daemon/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type deploymentRepositoryImpl struct {
	store *badgerhold.Store
}

// NewDeploymentRepositoryImpl returns a badger implementation of
// domain.DeploymentRepository.
func NewDeploymentRepositoryImpl(
	store *badgerhold.Store,
) domain.DeploymentRepository {
	return deploymentRepositoryImpl{store}
}

func (r deploymentRepositoryImpl) AddDeployment(
	ctx context.Context, deployment *domain.Deployment,
) error {
	d := fromDomainDeployment(*deployment)
	return upsert(ctx, r.store, d.Name, d)
}

func (r deploymentRepositoryImpl) GetDeployment(
	ctx context.Context, name string,
) (*domain.Deployment, error) {
	var d Deployment
	if err := get(ctx, r.store, name, &d); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrDeploymentNotFound
		}
		return nil, err
	}
	return d.toDomain(), nil
}

func (r deploymentRepositoryImpl) GetAllDeployments(
	ctx context.Context,
) ([]domain.Deployment, error) {
	var deployments []Deployment
	query := (&badgerhold.Query{}).SortBy("Name")
	if err := find(ctx, r.store, &deployments, query); err != nil {
		return nil, err
	}

	res := make([]domain.Deployment, 0, len(deployments))
	for _, d := range deployments {
		res = append(res, *d.toDomain())
	}
	return res, nil
}
