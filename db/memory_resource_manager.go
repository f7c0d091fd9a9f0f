package db

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"bedrock/models"
)

// MemoryResourceManager is a map-backed repository for development and
// tests.
type MemoryResourceManager struct {
	mu        sync.RWMutex
	resources map[string]*models.Resource
}

func NewMemoryResourceManager(resources ...*models.Resource) *MemoryResourceManager {
	manager := &MemoryResourceManager{resources: make(map[string]*models.Resource)}
	for _, resource := range resources {
		manager.resources[resource.Path] = cloneResource(resource)
	}
	return manager
}

func (manager *MemoryResourceManager) Create(_ context.Context, resource *models.Resource) (string, error) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	manager.resources[resource.Path] = cloneResource(resource)
	return resource.Path, nil
}

func (manager *MemoryResourceManager) Update(_ context.Context, path string, properties map[string]interface{}) error {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	resource, ok := manager.resources[path]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	if resource.Properties == nil {
		resource.Properties = make(map[string]interface{}, len(properties))
	}
	for name, value := range properties {
		resource.Properties[name] = value
	}
	resource.LastModified = models.Today()
	return nil
}

func (manager *MemoryResourceManager) Delete(_ context.Context, path string) error {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	if _, ok := manager.resources[path]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	delete(manager.resources, path)
	return nil
}

func (manager *MemoryResourceManager) GetByPath(_ context.Context, path string) (*models.Resource, error) {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	resource, ok := manager.resources[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return cloneResource(resource), nil
}

func (manager *MemoryResourceManager) Search(_ context.Context, resourceType, text string) ([]*models.Resource, error) {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	text = strings.ToLower(text)
	resources := make([]*models.Resource, 0)
	for _, resource := range manager.resources {
		if resourceType != "" && resource.ResourceType != resourceType {
			continue
		}
		if text != "" && !strings.Contains(strings.ToLower(resource.Title), text) {
			continue
		}
		resources = append(resources, cloneResource(resource))
	}

	sort.Slice(resources, func(i, j int) bool { return resources[i].Path < resources[j].Path })
	return resources, nil
}

func (manager *MemoryResourceManager) Store(_ context.Context) (*models.StoreResult, error) {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	types := make(map[string]bool)
	for _, resource := range manager.resources {
		types[resource.ResourceType] = true
	}

	store := &models.StoreResult{}
	store.NumberOfResources.Value = len(manager.resources)
	store.NumberOfResourceTypes.Value = len(types)
	return store, nil
}

func cloneResource(resource *models.Resource) *models.Resource {
	clone := *resource
	if resource.Properties != nil {
		clone.Properties = make(map[string]interface{}, len(resource.Properties))
		for name, value := range resource.Properties {
			clone.Properties[name] = value
		}
	}
	return &clone
}
