package db

import (
	"context"
	"encoding/json"
	"fmt"
	"html"

	"bedrock/config"
	"bedrock/models"

	"github.com/gin-gonic/gin"
	"github.com/olivere/elastic/v7"
)

const MAX_SEARCH_RESULTS = 10000

// ElasticResourceManager keeps resources in one index, keyed by path.
type ElasticResourceManager struct {
	IndexName     string
	ElasticClient *elastic.Client
}

func NewElasticResourceManager(client *elastic.Client, indexName string) *ElasticResourceManager {
	return &ElasticResourceManager{indexName, client}
}

func SetupElasticResourceManager(cfg config.ElasticConfig) (*ElasticResourceManager, error) {
	elasticClient, err := config.SetupElasticSearch(cfg)

	if err != nil {
		return nil, fmt.Errorf("failed to initialize Elastic Search client: %w", err)
	}

	return NewElasticResourceManager(elasticClient, cfg.Index), nil
}

func (manager *ElasticResourceManager) Create(ctx context.Context, resource *models.Resource) (string, error) {
	doc, err := manager.ElasticClient.
		Index().
		Index(manager.IndexName).
		Id(resource.Path).
		BodyJson(resource).
		Do(ctx)

	if err != nil {
		return "", err
	}

	return doc.Id, nil
}

func (manager *ElasticResourceManager) Update(ctx context.Context, path string, properties map[string]interface{}) error {
	_, err := manager.ElasticClient.
		Update().
		Index(manager.IndexName).
		Id(path).
		Doc(gin.H{"properties": properties, "last_modified": models.Today()}).
		Do(ctx)

	if elastic.IsNotFound(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	return err
}

func (manager *ElasticResourceManager) GetByPath(ctx context.Context, path string) (*models.Resource, error) {
	doc, err := manager.ElasticClient.
		Get().
		Index(manager.IndexName).
		Id(path).
		Do(ctx)

	if elastic.IsNotFound(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	if err != nil {
		return nil, err
	}

	if !doc.Found {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	var resource models.Resource
	err = json.Unmarshal(doc.Source, &resource)

	if err != nil {
		return nil, err
	}

	return &resource, nil
}

func (manager *ElasticResourceManager) Delete(ctx context.Context, path string) error {
	_, err := manager.ElasticClient.
		Delete().
		Index(manager.IndexName).
		Id(path).
		Do(ctx)

	if elastic.IsNotFound(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	return err
}

func (manager *ElasticResourceManager) Search(ctx context.Context, resourceType, text string) ([]*models.Resource, error) {
	boolQuery := elastic.NewBoolQuery()
	if resourceType != "" {
		boolQuery.Must(elastic.NewTermQuery("resource_type.keyword", resourceType))
	}
	if text != "" {
		boolQuery.Must(elastic.NewMatchQuery("title", html.UnescapeString(text)))
	}

	result, err := manager.ElasticClient.Search().
		Index(manager.IndexName).
		Pretty(false).
		Size(MAX_SEARCH_RESULTS).
		Query(boolQuery).
		Do(ctx)

	if err != nil {
		return nil, err
	}

	resources := make([]*models.Resource, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		var resource models.Resource
		if err := json.Unmarshal(hit.Source, &resource); err != nil {
			return nil, fmt.Errorf("decode resource %s: %w", hit.Id, err)
		}
		resources = append(resources, &resource)
	}

	return resources, nil
}

func (manager *ElasticResourceManager) Store(ctx context.Context) (*models.StoreResult, error) {
	resourcesAggregation := elastic.NewCardinalityAggregation().Field("_id")
	typesAggregation := elastic.NewCardinalityAggregation().Field("resource_type.keyword")

	results, err := manager.ElasticClient.Search().
		Index(manager.IndexName).
		Aggregation("number_of_resources", resourcesAggregation).
		Aggregation("number_of_resource_types", typesAggregation).
		Size(0).
		Do(ctx)

	if err != nil {
		return nil, err
	}

	store := &models.StoreResult{}
	if numberOfResources, ok := results.Aggregations.Cardinality("number_of_resources"); ok && numberOfResources.Value != nil {
		store.NumberOfResources.Value = int(*numberOfResources.Value)
	}
	if numberOfTypes, ok := results.Aggregations.Cardinality("number_of_resource_types"); ok && numberOfTypes.Value != nil {
		store.NumberOfResourceTypes.Value = int(*numberOfTypes.Value)
	}

	return store, nil
}
