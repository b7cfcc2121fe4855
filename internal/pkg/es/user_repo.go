package es

import (
	"context"
	"errors"
	log "log/slog"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/versiontype"
)

type UserRepo interface {
	IndexUser(ctx context.Context, user *UserES) error
	DeleteUser(ctx context.Context, id string) error
}

type UserRepoImpl struct {
	client *elasticsearch.TypedClient
	index  string
}

// NewUserRepo client 为 nil 时返回空实现
func NewUserRepo(client *elasticsearch.TypedClient, index string) UserRepo {
	if client == nil {
		return noopUserRepo{}
	}
	if index == "" {
		index = defaultUserIndex
	}
	return &UserRepoImpl{client: client, index: index}
}

// IndexUser 以 indexed_at 毫秒时间戳作为外部版本号，旧的写入不会覆盖新的
func (s *UserRepoImpl) IndexUser(ctx context.Context, user *UserES) error {
	_, err := s.client.Index(s.index).
		Id(user.ID).
		Document(user).
		Version(strconv.FormatInt(user.IndexedAt.UnixMilli(), 10)).
		VersionType(versiontype.External).
		Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) && e.Status == ConflictCode {
			log.WarnContext(ctx, "Version conflict detected, skipping old data", "user_id", user.ID)
			return nil
		}
		return err
	}
	return nil
}

func (s *UserRepoImpl) DeleteUser(ctx context.Context, id string) error {
	_, err := s.client.Delete(s.index, id).Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) && e.Status == NotFoundCode {
			log.WarnContext(ctx, "User already deleted or not found in ES", "id", id)
			return nil
		}
		return err
	}
	return nil
}

type noopUserRepo struct{}

func (noopUserRepo) IndexUser(context.Context, *UserES) error { return nil }

func (noopUserRepo) DeleteUser(context.Context, string) error { return nil }
