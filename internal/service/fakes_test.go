package service

import (
	"WorkUs/internal/model"
	"WorkUs/internal/pkg/consts"
	"WorkUs/internal/pkg/es"
	"WorkUs/internal/pkg/kvstore"
	"WorkUs/internal/pkg/mongo"
	"WorkUs/internal/pkg/profile"
	"WorkUs/internal/repository"
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

var errSinkDown = errors.New("sink down")

type fakeUserRepo struct {
	mu        sync.Mutex
	users     []*model.User
	updates   map[string]map[string]any
	deleted   []string
	listErr   error
	updateErr error
}

func (f *fakeUserRepo) ListUsers(context.Context) ([]*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return slices.Clone(f.users), nil
}

func (f *fakeUserRepo) UpdateUserFields(_ context.Context, id string, fields map[string]any) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return 0, f.updateErr
	}
	if f.updates == nil {
		f.updates = map[string]map[string]any{}
	}
	f.updates[id] = fields
	return 1, nil
}

func (f *fakeUserRepo) DeleteUser(_ context.Context, id string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return 1, nil
}

type fakeProfileClient struct {
	mu       sync.Mutex
	enabled  bool
	profiles []*profile.Profile
	updates  map[string]*profile.Update
	deleted  []string
	listErr  error
	writeErr error
}

func (f *fakeProfileClient) Enabled() bool {
	return f.enabled
}

func (f *fakeProfileClient) ListProfiles(context.Context) ([]*profile.Profile, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.profiles, nil
}

func (f *fakeProfileClient) UpdateProfile(_ context.Context, id string, upd *profile.Update) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	if f.updates == nil {
		f.updates = map[string]*profile.Update{}
	}
	f.updates[id] = upd
	return nil
}

func (f *fakeProfileClient) DeleteProfile(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeUserES struct {
	mu      sync.Mutex
	indexed map[string]*es.UserES
	deleted []string
}

func (f *fakeUserES) IndexUser(_ context.Context, user *es.UserES) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.indexed == nil {
		f.indexed = map[string]*es.UserES{}
	}
	f.indexed[user.ID] = user
	return nil
}

func (f *fakeUserES) DeleteUser(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeNotifyRepo struct {
	mu      sync.Mutex
	created []*mongo.NotificationModel
	purged  []string
}

func (f *fakeNotifyRepo) CreateNotification(_ context.Context, msg *mongo.NotificationModel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, msg)
	return nil
}

func (f *fakeNotifyRepo) GetNotificationList(_ context.Context, receiverID string, _, _ int64) ([]*mongo.NotificationModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*mongo.NotificationModel
	for _, m := range f.created {
		if m.ReceiverID == receiverID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeNotifyRepo) DeleteByReceiver(_ context.Context, receiverID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purged = append(f.purged, receiverID)
	return 0, nil
}

type fakeRecordRepo struct {
	mu      sync.Mutex
	records map[string]*model.DailyUserRecord
	nextID  uint64
}

func (f *fakeRecordRepo) ListRecords(_ context.Context, limit int) ([]*model.DailyUserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.DailyUserRecord, 0, len(f.records))
	for _, r := range f.records {
		c := *r
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *model.DailyUserRecord) int { return strings.Compare(a.Date, b.Date) })
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *fakeRecordRepo) SaveRecord(_ context.Context, record *model.DailyUserRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.records == nil {
		f.records = map[string]*model.DailyUserRecord{}
	}
	c := *record
	if old, ok := f.records[c.Date]; ok {
		c.ID = old.ID
	} else {
		f.nextID++
		c.ID = f.nextID
	}
	f.records[c.Date] = &c
	return nil
}

func (f *fakeRecordRepo) PruneBefore(_ context.Context, date string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for d := range f.records {
		if d < date {
			delete(f.records, d)
			n++
		}
	}
	return n, nil
}

type testEnv struct {
	users      *fakeUserRepo
	profiles   *fakeProfileClient
	userES     *fakeUserES
	notify     *fakeNotifyRepo
	records    *fakeRecordRepo
	overrides  repository.OverrideRepo
	registered repository.RegisteredUserRepo
	adminStats repository.AdminStatsRepo
	store      kvstore.Store
	locker     kvstore.Locker
	syncer     *Syncer
	mr         *miniredis.Miniredis
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})

	store := kvstore.NewRedisStore(rdb, consts.KVPrefix)
	return &testEnv{
		users:      &fakeUserRepo{},
		profiles:   &fakeProfileClient{},
		userES:     &fakeUserES{},
		notify:     &fakeNotifyRepo{},
		records:    &fakeRecordRepo{},
		overrides:  repository.NewOverrideRepo(store),
		registered: repository.NewRegisteredUserRepo(store),
		adminStats: repository.NewAdminStatsRepo(store),
		store:      store,
		locker:     kvstore.NewRedisLocker(rdb, consts.KVPrefix),
		syncer:     NewSyncer(),
		mr:         mr,
	}
}

func (e *testEnv) userService(now time.Time) *AdminUserServiceImpl {
	svc := NewAdminUserService(e.users, e.overrides, e.registered, e.profiles, e.userES, e.notify, e.syncer).(*AdminUserServiceImpl)
	svc.now = func() time.Time { return now }
	return svc
}

func (e *testEnv) statsService(now time.Time) *AdminStatsServiceImpl {
	svc := NewAdminStatsService(e.userService(now), e.records, e.adminStats, e.locker, DefaultHistoryLimit).(*AdminStatsServiceImpl)
	svc.now = func() time.Time { return now }
	return svc
}

func remoteProfile(id, email, role string, created time.Time) *profile.Profile {
	return &profile.Profile{ID: id, Email: &email, Username: &id, Role: &role, CreatedAt: created}
}
