package consts

// KV 前缀，所有持久化键都挂在该前缀下
const KVPrefix = "workus:"

const (
	RoleOverridesKey   = "admin:role_overrides"
	FullOverridesKey   = "admin:full_overrides"
	DeletedUsersKey    = "admin:deleted_users"
	AdminStatsKey      = "admin:stats"
	RegisteredUsersKey = "users:registered"
)

const (
	SnapshotLock = "lock:admin:snapshot"
)
