package profile

import (
	"WorkUs/internal/api/config"
	"WorkUs/internal/pkg/logger"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

const selectColumns = "id,username,email,role,is_active,is_verified,created_at,avatar_url"

// defaultPageSize 不超过 PostgREST 常见的 max-rows
const defaultPageSize = 1000

// ErrNotConfigured 未配置远程服务
var ErrNotConfigured = errors.New("profile service is not configured")

// Client 远程 profiles 服务
type Client interface {
	Enabled() bool
	ListProfiles(ctx context.Context) ([]*Profile, error)
	UpdateProfile(ctx context.Context, id string, upd *Update) error
	DeleteProfile(ctx context.Context, id string) error
}

type restClient struct {
	http     *resty.Client
	table    string
	pageSize int
}

// NewClient 配置缺失时返回一个始终禁用的客户端
func NewClient(cfg config.ProfileConfig) Client {
	if !cfg.Enabled() {
		return disabledClient{}
	}
	table := cfg.Table
	if table == "" {
		table = "profiles"
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.URL, "/")+"/rest/v1").
		SetHeader("apikey", cfg.APIKey).
		SetAuthToken(cfg.APIKey).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	return &restClient{
		http:     logger.AttachResty(httpClient, "profile"),
		table:    table,
		pageSize: defaultPageSize,
	}
}

func (s *restClient) Enabled() bool {
	return true
}

// ListProfiles 按 id 排序分页拉取，直到某页不足 pageSize
func (s *restClient) ListProfiles(ctx context.Context) ([]*Profile, error) {
	profiles := make([]*Profile, 0)
	for offset := 0; ; offset += s.pageSize {
		page := make([]*Profile, 0, s.pageSize)
		resp, err := s.http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"select": selectColumns,
				"order":  "id.asc",
				"limit":  strconv.Itoa(s.pageSize),
				"offset": strconv.Itoa(offset),
			}).
			SetResult(&page).
			Get("/" + s.table)
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, statusError("list", resp)
		}
		profiles = append(profiles, page...)
		if len(page) < s.pageSize {
			return profiles, nil
		}
	}
}

func (s *restClient) UpdateProfile(ctx context.Context, id string, upd *Update) error {
	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParam("id", "eq."+id).
		SetHeader("Prefer", "return=minimal").
		SetBody(upd).
		Patch("/" + s.table)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return statusError("update", resp)
	}
	return nil
}

func (s *restClient) DeleteProfile(ctx context.Context, id string) error {
	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParam("id", "eq."+id).
		Delete("/" + s.table)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return statusError("delete", resp)
	}
	return nil
}

func statusError(op string, resp *resty.Response) error {
	return fmt.Errorf("profile %s failed: status %d: %s", op, resp.StatusCode(), resp.String())
}

type disabledClient struct{}

func (disabledClient) Enabled() bool {
	return false
}

func (disabledClient) ListProfiles(context.Context) ([]*Profile, error) {
	return nil, ErrNotConfigured
}

func (disabledClient) UpdateProfile(context.Context, string, *Update) error {
	return ErrNotConfigured
}

func (disabledClient) DeleteProfile(context.Context, string) error {
	return ErrNotConfigured
}
