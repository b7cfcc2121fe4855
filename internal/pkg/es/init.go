package es

import (
	"WorkUs/internal/api/config"
	"WorkUs/internal/pkg/logger"
	"context"
	log "log/slog"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
)

const (
	NotFoundCode = 404
	ConflictCode = 409
)

const defaultUserIndex = "workus_users"

// InitClient 初始化 Elasticsearch 客户端，未配置地址时返回 nil
func InitClient(cfg config.ElasticConfig) (*elasticsearch.TypedClient, error) {
	if cfg.Address == "" {
		log.Warn("Elasticsearch address is empty, search index sync disabled")
		return nil, nil
	}

	client, err := elasticsearch.NewTypedClient(elasticsearch.Config{
		Addresses: []string{cfg.Address},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: &logger.ESTransport{
			Transport: http.DefaultTransport,
		},
	})
	if err != nil {
		log.Error("Cannot Connect to Elasticsearch", "err", err)
		return nil, err
	}

	info, err := client.Info().Do(context.Background())
	if err != nil {
		log.Error("Cannot Connect to Elasticsearch", "err", err)
		return nil, err
	}

	log.Info("Connected to Elasticsearch", "version", info.Version.Int)
	return client, nil
}
