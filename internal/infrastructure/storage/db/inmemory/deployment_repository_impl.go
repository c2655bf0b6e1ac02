package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/fundme-network/fundme-daemon/internal/core/domain"
)

type DeploymentRepositoryImpl struct {
	deployments map[string]domain.Deployment
	lock        *sync.RWMutex
}

// NewDeploymentRepositoryImpl returns a new empty in-memory
// DeploymentRepository.
func NewDeploymentRepositoryImpl() *DeploymentRepositoryImpl {
	return &DeploymentRepositoryImpl{
		deployments: make(map[string]domain.Deployment),
		lock:        &sync.RWMutex{},
	}
}

func (r *DeploymentRepositoryImpl) AddDeployment(
	_ context.Context, deployment *domain.Deployment,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.deployments[deployment.Name] = copyDeployment(*deployment)
	return nil
}

func (r *DeploymentRepositoryImpl) GetDeployment(
	_ context.Context, name string,
) (*domain.Deployment, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	deployment, ok := r.deployments[name]
	if !ok {
		return nil, domain.ErrDeploymentNotFound
	}
	d := copyDeployment(deployment)
	return &d, nil
}

func (r *DeploymentRepositoryImpl) GetAllDeployments(
	_ context.Context,
) ([]domain.Deployment, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	deployments := make([]domain.Deployment, 0, len(r.deployments))
	for _, d := range r.deployments {
		deployments = append(deployments, copyDeployment(d))
	}
	sort.SliceStable(deployments, func(i, j int) bool {
		return deployments[i].Name < deployments[j].Name
	})
	return deployments, nil
}

func (r *DeploymentRepositoryImpl) snapshot() func() {
	r.lock.RLock()
	defer r.lock.RUnlock()

	deployments := make(map[string]domain.Deployment, len(r.deployments))
	for name, d := range r.deployments {
		deployments[name] = copyDeployment(d)
	}

	return func() {
		r.lock.Lock()
		defer r.lock.Unlock()
		r.deployments = deployments
	}
}
