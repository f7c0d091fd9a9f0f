package models

type AggregationValue struct {
	Value int `json:"value"`
}

type StoreResult struct {
	NumberOfResources     AggregationValue `json:"number_of_resources"`
	NumberOfResourceTypes AggregationValue `json:"number_of_resource_types"`
}
