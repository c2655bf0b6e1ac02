package domain

import "context"

// DeploymentRepository is the abstraction for any kind of database intended
// to persist deployments.
type DeploymentRepository interface {
	// AddDeployment adds or replaces the deployment with the same name.
	AddDeployment(ctx context.Context, deployment *Deployment) error
	GetDeployment(ctx context.Context, name string) (*Deployment, error)
	GetAllDeployments(ctx context.Context) ([]Deployment, error)
}
