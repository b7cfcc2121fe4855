package service

import (
	"WorkUs/internal/model"
	"WorkUs/internal/pkg/es"
	"WorkUs/internal/pkg/mongo"
	"WorkUs/internal/pkg/profile"
	"WorkUs/internal/pkg/util"
	"WorkUs/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Actor 发起操作的管理员
type Actor struct {
	ID    string
	Email string
}

// Is 是否为同一身份，id 或规范化邮箱任一相同即可
func (a Actor) Is(u *model.MergedUser) bool {
	if a.ID != "" && a.ID == u.ID {
		return true
	}
	email := util.NormalizeEmail(a.Email)
	return email != "" && email == util.NormalizeEmail(u.Email)
}

type AdminUserService interface {
	ListUsers(ctx context.Context) ([]*model.MergedUser, error)
	ChangeRole(ctx context.Context, actor Actor, userID string, role model.Role) ([]*model.MergedUser, error)
	UpdateProfile(ctx context.Context, actor Actor, userID string, patch model.FullOverride) ([]*model.MergedUser, error)
	ToggleActive(ctx context.Context, actor Actor, userID string) ([]*model.MergedUser, error)
	DeleteUser(ctx context.Context, actor Actor, userID string) ([]*model.MergedUser, error)
}

// userSources 最近一次拉取的上游数据
type userSources struct {
	remote []*model.User
	local  []*model.User
	stored model.StoredRoles
}

type AdminUserServiceImpl struct {
	userRepo       repository.UserRepo
	overrideRepo   repository.OverrideRepo
	registeredRepo repository.RegisteredUserRepo
	profileClient  profile.Client
	userES         es.UserRepo
	notifyRepo     mongo.NotificationRepo
	syncer         *Syncer
	now            func() time.Time

	mu      sync.RWMutex
	sources *userSources
}

func NewAdminUserService(
	userRepo repository.UserRepo,
	overrideRepo repository.OverrideRepo,
	registeredRepo repository.RegisteredUserRepo,
	profileClient profile.Client,
	userES es.UserRepo,
	notifyRepo mongo.NotificationRepo,
	syncer *Syncer,
) AdminUserService {
	return &AdminUserServiceImpl{
		userRepo:       userRepo,
		overrideRepo:   overrideRepo,
		registeredRepo: registeredRepo,
		profileClient:  profileClient,
		userES:         userES,
		notifyRepo:     notifyRepo,
		syncer:         syncer,
		now:            time.Now,
	}
}

// ListUsers 重新拉取上游数据后合并
func (s *AdminUserServiceImpl) ListUsers(ctx context.Context) ([]*model.MergedUser, error) {
	src, err := s.fetchSources(ctx)
	if err != nil {
		return nil, err
	}
	tables, err := s.overrideRepo.Tables(ctx)
	if err != nil {
		return nil, err
	}
	return reconcile(src, tables), nil
}

func (s *AdminUserServiceImpl) ChangeRole(ctx context.Context, actor Actor, userID string, role model.Role) ([]*model.MergedUser, error) {
	if !role.Valid() {
		return nil, ErrRoleInvalid
	}
	src, tables, merged, target, err := s.locate(ctx, userID)
	if err != nil || target == nil {
		return merged, err
	}
	if actor.Is(target) && target.Role == model.RoleAdmin && role != model.RoleAdmin {
		return nil, ErrSelfRoleChange
	}

	keys := util.UserKeys(target.ID, target.Email)
	if err = s.overrideRepo.PutRole(ctx, keys, role); err != nil {
		return nil, err
	}
	// 完整覆盖里的角色优先级更高，需要一起改掉
	if hasFullRole(tables.Full, keys) {
		if err = s.overrideRepo.PutFull(ctx, keys, model.FullOverride{Role: &role}); err != nil {
			return nil, err
		}
	}

	updated, err := s.remerge(ctx, src)
	if err != nil {
		return nil, err
	}

	tasks := []SyncTask{
		s.docStoreTask(src, keys, map[string]any{"role": role}),
		s.remoteUpdateTask(src, keys, &profile.Update{Role: &role}),
		s.registeredTask(target, model.FullOverride{Role: &role}),
		s.indexTask(updated, target.ID),
		s.notifyTask(actor, target, mongo.NotifyRoleChanged,
			fmt.Sprintf("你的角色已被管理员调整为 %s", role),
			map[string]any{"from": target.Role, "to": role}),
	}
	s.syncer.Dispatch(ctx, "change_role", compact(tasks)...)

	log.InfoContext(ctx, "User role changed", "user_id", target.ID, "from", target.Role, "to", role)
	return updated, nil
}

func (s *AdminUserServiceImpl) UpdateProfile(ctx context.Context, actor Actor, userID string, patch model.FullOverride) ([]*model.MergedUser, error) {
	if patch.Empty() {
		return nil, ErrEmptyPatch
	}
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, ErrRoleInvalid
	}
	src, _, merged, target, err := s.locate(ctx, userID)
	if err != nil || target == nil {
		return merged, err
	}
	if actor.Is(target) {
		if target.Role == model.RoleAdmin && patch.Role != nil && *patch.Role != model.RoleAdmin {
			return nil, ErrSelfRoleChange
		}
		if patch.IsActive != nil && !*patch.IsActive {
			return nil, ErrSelfDeactivate
		}
	}

	keys := util.UserKeys(target.ID, target.Email)
	if err = s.overrideRepo.PutFull(ctx, keys, patch); err != nil {
		return nil, err
	}

	updated, err := s.remerge(ctx, src)
	if err != nil {
		return nil, err
	}

	tasks := []SyncTask{
		s.docStoreTask(src, keys, patchFields(patch)),
		s.registeredTask(target, patch),
		s.indexTask(updated, target.ID),
		s.notifyTask(actor, target, mongo.NotifyProfileUpdated, "你的资料已被管理员更新", patchPayload(patch)),
	}
	if patch.Role != nil || patch.Username != nil {
		tasks = append(tasks, s.remoteUpdateTask(src, keys, &profile.Update{Role: patch.Role, Username: patch.Username}))
	}
	s.syncer.Dispatch(ctx, "update_profile", compact(tasks)...)

	log.InfoContext(ctx, "User profile overridden", "user_id", target.ID)
	return updated, nil
}

func (s *AdminUserServiceImpl) ToggleActive(ctx context.Context, actor Actor, userID string) ([]*model.MergedUser, error) {
	src, _, merged, target, err := s.locate(ctx, userID)
	if err != nil || target == nil {
		return merged, err
	}
	if actor.Is(target) {
		return nil, ErrSelfDeactivate
	}

	active := !target.IsActive
	keys := util.UserKeys(target.ID, target.Email)
	if err = s.overrideRepo.PutFull(ctx, keys, model.FullOverride{IsActive: &active}); err != nil {
		return nil, err
	}

	updated, err := s.remerge(ctx, src)
	if err != nil {
		return nil, err
	}

	notifyType, content := mongo.NotifyDeactivated, "你的账号已被管理员停用"
	if active {
		notifyType, content = mongo.NotifyActivated, "你的账号已被管理员启用"
	}
	tasks := []SyncTask{
		s.docStoreTask(src, keys, map[string]any{"is_active": active}),
		s.indexTask(updated, target.ID),
		s.notifyTask(actor, target, notifyType, content, nil),
	}
	s.syncer.Dispatch(ctx, "toggle_active", compact(tasks)...)

	log.InfoContext(ctx, "User activation toggled", "user_id", target.ID, "is_active", active)
	return updated, nil
}

func (s *AdminUserServiceImpl) DeleteUser(ctx context.Context, actor Actor, userID string) ([]*model.MergedUser, error) {
	src, _, merged, target, err := s.locate(ctx, userID)
	if err != nil || target == nil {
		return merged, err
	}
	if actor.Is(target) {
		return nil, ErrSelfDelete
	}

	keys := util.UserKeys(target.ID, target.Email)
	if err = s.overrideRepo.MarkDeleted(ctx, keys); err != nil {
		return nil, err
	}

	updated, err := s.remerge(ctx, src)
	if err != nil {
		return nil, err
	}

	tasks := []SyncTask{
		{Sink: "override-purge", Run: func(ctx context.Context) error {
			return s.overrideRepo.ClearOverrides(ctx, keys)
		}},
		s.docStoreDeleteTask(src, keys),
		s.remoteDeleteTask(src, keys),
		{Sink: "registered-list", Run: func(ctx context.Context) error {
			_, err := s.registeredRepo.RemoveUser(ctx, target.ID, target.Email)
			return err
		}},
		{Sink: "search-index", Run: func(ctx context.Context) error {
			return s.userES.DeleteUser(ctx, target.ID)
		}},
		{Sink: "notification", Run: func(ctx context.Context) error {
			_, err := s.notifyRepo.DeleteByReceiver(ctx, target.ID)
			return err
		}},
	}
	s.syncer.Dispatch(ctx, "delete_user", compact(tasks)...)

	log.InfoContext(ctx, "User deleted", "user_id", target.ID)
	return updated, nil
}

// locate 取合并列表并查找目标；目标不存在时 target 为 nil，merged 为原列表
func (s *AdminUserServiceImpl) locate(ctx context.Context, userID string) (*userSources, *model.OverrideTables, []*model.MergedUser, *model.MergedUser, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, nil, nil, nil, ErrParamInvalid
	}
	src, fresh, err := s.cachedSources(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	tables, err := s.overrideRepo.Tables(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	merged := reconcile(src, tables)

	byID := func(u *model.MergedUser) bool { return u.ID == userID }
	idx := slices.IndexFunc(merged, byID)
	// 缓存中没有该用户时重新拉取一次，可能是上次列表之后新注册的
	if idx < 0 && !fresh {
		if src, err = s.fetchSources(ctx); err != nil {
			return nil, nil, nil, nil, err
		}
		merged = reconcile(src, tables)
		idx = slices.IndexFunc(merged, byID)
	}
	if idx < 0 {
		log.InfoContext(ctx, "Admin action on unknown user ignored", "user_id", userID)
		return src, tables, merged, nil, nil
	}
	return src, tables, merged, merged[idx], nil
}

// remerge 提交后重新读取覆盖表，使返回结果立即反映变更
func (s *AdminUserServiceImpl) remerge(ctx context.Context, src *userSources) ([]*model.MergedUser, error) {
	tables, err := s.overrideRepo.Tables(ctx)
	if err != nil {
		return nil, err
	}
	return reconcile(src, tables), nil
}

// cachedSources fresh 表示本次刚从上游拉取
func (s *AdminUserServiceImpl) cachedSources(ctx context.Context) (src *userSources, fresh bool, err error) {
	s.mu.RLock()
	src = s.sources
	s.mu.RUnlock()
	if src != nil {
		return src, false, nil
	}
	src, err = s.fetchSources(ctx)
	return src, true, err
}

// fetchSources 并发拉取三个上游；远程与注册列表失败时降级为空，文档库失败直接返回
func (s *AdminUserServiceImpl) fetchSources(ctx context.Context) (*userSources, error) {
	src := &userSources{stored: model.StoredRoles{}}
	g, gCtx := errgroup.WithContext(ctx)

	if s.profileClient.Enabled() {
		g.Go(func() error {
			profiles, err := s.profileClient.ListProfiles(gCtx)
			if err != nil {
				log.WarnContext(ctx, "Remote profiles unavailable, using local users only", "err", err)
				return nil
			}
			remote := make([]*model.User, 0, len(profiles))
			for _, p := range profiles {
				if p != nil {
					remote = append(remote, p.ToUser())
				}
			}
			src.remote = remote
			return nil
		})
	}

	g.Go(func() error {
		local, err := s.userRepo.ListUsers(gCtx)
		if err != nil {
			log.ErrorContext(ctx, "Failed to list local users", "err", err)
			return ErrUserSourceDown
		}
		src.local = local
		return nil
	})

	g.Go(func() error {
		registered, err := s.registeredRepo.ListUsers(gCtx)
		if err != nil {
			log.WarnContext(ctx, "Registered user list unavailable", "err", err)
			return nil
		}
		src.stored = storedRoles(registered)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sources = src
	s.mu.Unlock()
	return src, nil
}

func reconcile(src *userSources, tables *model.OverrideTables) []*model.MergedUser {
	return ReconcileUsers(ReconcileInput{
		Remote:        src.remote,
		Local:         src.local,
		RoleOverrides: tables.Roles,
		FullOverrides: tables.Full,
		Deleted:       tables.Deleted,
		StoredRoles:   src.stored,
	})
}

// storedRoles 注册列表中的角色，按 id 和规范化邮箱双键
func storedRoles(list []*model.RegisteredUser) model.StoredRoles {
	roles := make(model.StoredRoles, len(list)*2)
	for _, u := range list {
		if u == nil || !u.Role.Valid() {
			continue
		}
		for _, k := range util.UserKeys(u.ID, u.Email) {
			roles[k] = u.Role
		}
	}
	return roles
}

func hasFullRole(full model.FullOverrides, keys []string) bool {
	for _, k := range keys {
		if o, ok := full[k]; ok && o.Role != nil {
			return true
		}
	}
	return false
}

// matchIDs 返回与查找键匹配的用户 id
func matchIDs(users []*model.User, keys []string) []string {
	ids := make([]string, 0, 1)
	for _, u := range users {
		if u == nil || u.ID == "" {
			continue
		}
		for _, k := range keys {
			if u.ID == k || util.NormalizeEmail(u.Email) == k {
				ids = append(ids, u.ID)
				break
			}
		}
	}
	return ids
}

// compact 去掉无需执行的空任务
func compact(tasks []SyncTask) []SyncTask {
	return slices.DeleteFunc(tasks, func(t SyncTask) bool { return t.Run == nil })
}

func (s *AdminUserServiceImpl) docStoreTask(src *userSources, keys []string, fields map[string]any) SyncTask {
	ids := matchIDs(src.local, keys)
	if len(ids) == 0 || len(fields) == 0 {
		return SyncTask{}
	}
	return SyncTask{Sink: "document-store", Run: func(ctx context.Context) error {
		for _, id := range ids {
			if _, err := s.userRepo.UpdateUserFields(ctx, id, fields); err != nil {
				return err
			}
		}
		return nil
	}}
}

func (s *AdminUserServiceImpl) docStoreDeleteTask(src *userSources, keys []string) SyncTask {
	ids := matchIDs(src.local, keys)
	if len(ids) == 0 {
		return SyncTask{}
	}
	return SyncTask{Sink: "document-store", Run: func(ctx context.Context) error {
		for _, id := range ids {
			if _, err := s.userRepo.DeleteUser(ctx, id); err != nil {
				return err
			}
		}
		return nil
	}}
}

func (s *AdminUserServiceImpl) remoteUpdateTask(src *userSources, keys []string, upd *profile.Update) SyncTask {
	ids := matchIDs(src.remote, keys)
	if !s.profileClient.Enabled() || len(ids) == 0 {
		return SyncTask{}
	}
	upd.UpdatedAt = s.now()
	return SyncTask{Sink: "remote-profile", Run: func(ctx context.Context) error {
		for _, id := range ids {
			if err := s.profileClient.UpdateProfile(ctx, id, upd); err != nil {
				return err
			}
		}
		return nil
	}}
}

func (s *AdminUserServiceImpl) remoteDeleteTask(src *userSources, keys []string) SyncTask {
	ids := matchIDs(src.remote, keys)
	if !s.profileClient.Enabled() || len(ids) == 0 {
		return SyncTask{}
	}
	return SyncTask{Sink: "remote-profile", Run: func(ctx context.Context) error {
		for _, id := range ids {
			if err := s.profileClient.DeleteProfile(ctx, id); err != nil {
				return err
			}
		}
		return nil
	}}
}

func (s *AdminUserServiceImpl) registeredTask(target *model.MergedUser, patch model.FullOverride) SyncTask {
	if patch.Role == nil && patch.Username == nil {
		return SyncTask{}
	}
	return SyncTask{Sink: "registered-list", Run: func(ctx context.Context) error {
		_, err := s.registeredRepo.PatchUser(ctx, target.ID, target.Email, patch)
		return err
	}}
}

func (s *AdminUserServiceImpl) indexTask(merged []*model.MergedUser, id string) SyncTask {
	idx := slices.IndexFunc(merged, func(u *model.MergedUser) bool { return u.ID == id })
	if idx < 0 {
		return SyncTask{}
	}
	doc := es.NewUserES(merged[idx], s.now())
	return SyncTask{Sink: "search-index", Run: func(ctx context.Context) error {
		return s.userES.IndexUser(ctx, doc)
	}}
}

func (s *AdminUserServiceImpl) notifyTask(actor Actor, target *model.MergedUser, typ mongo.NotificationType, content string, payload map[string]any) SyncTask {
	msg := &mongo.NotificationModel{
		ReceiverID:  target.ID,
		ReceiverKey: util.NormalizeEmail(target.Email),
		OperatorID:  actor.ID,
		Type:        typ,
		Content:     content,
		Payload:     payload,
		CreatedAt:   s.now(),
	}
	return SyncTask{Sink: "notification", Run: func(ctx context.Context) error {
		return s.notifyRepo.CreateNotification(ctx, msg)
	}}
}

// patchFields 完整覆盖对应的文档库列
func patchFields(patch model.FullOverride) map[string]any {
	fields := make(map[string]any, 4)
	if patch.Username != nil {
		fields["username"] = *patch.Username
	}
	if patch.Role != nil {
		fields["role"] = *patch.Role
	}
	if patch.IsActive != nil {
		fields["is_active"] = *patch.IsActive
	}
	if patch.IsVerified != nil {
		fields["is_verified"] = *patch.IsVerified
	}
	return fields
}

func patchPayload(patch model.FullOverride) map[string]any {
	payload := patchFields(patch)
	if len(payload) == 0 {
		return nil
	}
	return payload
}
