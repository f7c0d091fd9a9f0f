package db

import (
	"context"

	"bedrock/cache"
	"bedrock/models"

	json "github.com/goccy/go-json"
)

// CachedResourceManager reads resources through a named cache and
// invalidates entries on every write.
type CachedResourceManager struct {
	ResourceManager
	cache cache.Cache
}

func NewCachedResourceManager(inner ResourceManager, c cache.Cache) *CachedResourceManager {
	return &CachedResourceManager{ResourceManager: inner, cache: c}
}

func (manager *CachedResourceManager) GetByPath(ctx context.Context, path string) (*models.Resource, error) {
	data, err := manager.cache.GetOrLoad(path, func() ([]byte, error) {
		resource, err := manager.ResourceManager.GetByPath(ctx, path)
		if err != nil {
			return nil, err
		}
		return json.Marshal(resource)
	})

	if err != nil {
		return nil, err
	}

	var resource models.Resource
	if err := json.Unmarshal(data, &resource); err != nil {
		return nil, err
	}

	return &resource, nil
}

func (manager *CachedResourceManager) Create(ctx context.Context, resource *models.Resource) (string, error) {
	id, err := manager.ResourceManager.Create(ctx, resource)
	if err != nil {
		return "", err
	}
	return id, manager.cache.Invalidate(resource.Path)
}

func (manager *CachedResourceManager) Update(ctx context.Context, path string, properties map[string]interface{}) error {
	if err := manager.ResourceManager.Update(ctx, path, properties); err != nil {
		return err
	}
	return manager.cache.Invalidate(path)
}

func (manager *CachedResourceManager) Delete(ctx context.Context, path string) error {
	if err := manager.ResourceManager.Delete(ctx, path); err != nil {
		return err
	}
	return manager.cache.Invalidate(path)
}
