package db

import (
	"context"
	"errors"

	"bedrock/models"
)

var ErrNotFound = errors.New("resource not found")

type ResourceManager interface {
	Create(ctx context.Context, resource *models.Resource) (string, error)
	Update(ctx context.Context, path string, properties map[string]interface{}) error
	Delete(ctx context.Context, path string) error
	GetByPath(ctx context.Context, path string) (*models.Resource, error)
	Search(ctx context.Context, resourceType, text string) ([]*models.Resource, error)
	Store(ctx context.Context) (*models.StoreResult, error)
}
