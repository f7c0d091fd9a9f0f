package config

import (
	"github.com/olivere/elastic/v7"
)

func SetupElasticSearch(cfg ElasticConfig) (*elastic.Client, error) {
	return elastic.NewClient(
		elastic.SetURL(cfg.URL),
		elastic.SetSniff(cfg.Sniff),
	)
}
