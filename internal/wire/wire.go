package wire

import (
	"WorkUs/internal/api"
	"WorkUs/internal/api/config"
	"WorkUs/internal/api/handler"
	"WorkUs/internal/job"
	"WorkUs/internal/pkg/consts"
	"WorkUs/internal/pkg/cron"
	"WorkUs/internal/pkg/es"
	"WorkUs/internal/pkg/kafka"
	"WorkUs/internal/pkg/kvstore"
	"WorkUs/internal/pkg/mongo"
	"WorkUs/internal/pkg/profile"
	"WorkUs/internal/repository"
	"WorkUs/internal/service"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Infra 外部连接，Mongo 与 ES 可为 nil
type Infra struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Mongo   *mongodriver.Database
	Elastic *elasticsearch.TypedClient
}

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	CronMgr      *cron.Manager
	KafkaManager *kafka.ConsumerManager
	Syncer       *service.Syncer
}

func BuildApplication(infra *Infra, cfg *config.Config) (*ApplicationContainer, error) {
	store := kvstore.NewRedisStore(infra.Redis, consts.KVPrefix)
	locker := kvstore.NewRedisLocker(infra.Redis, consts.KVPrefix)

	userRepo := repository.NewUserRepo(infra.DB)
	recordRepo := repository.NewDailyUserRecordRepo(infra.DB)
	overrideRepo := repository.NewOverrideRepo(store)
	registeredRepo := repository.NewRegisteredUserRepo(store)
	statsRepo := repository.NewAdminStatsRepo(store)
	userES := es.NewUserRepo(infra.Elastic, cfg.Elastic.UserIndex)
	notifyRepo := mongo.NewNotificationRepo(infra.Mongo)
	profileClient := profile.NewClient(cfg.Profile)

	syncer := service.NewSyncer()
	userService := service.NewAdminUserService(userRepo, overrideRepo, registeredRepo, profileClient, userES, notifyRepo, syncer)
	statsService := service.NewAdminStatsService(userService, recordRepo, statsRepo, locker, cfg.Stats.HistoryDays)

	handlers := &api.HandlersGroup{
		AdminUserHandler:  handler.NewAdminUserHandler(userService),
		AdminStatsHandler: handler.NewAdminStatsHandler(statsService),
	}
	router := api.SetupRouter(handlers, cfg.Logstash)

	cronMgr := cron.NewCronManager(cfg.Stats.SnapshotCron, job.NewDailySnapshotJob(statsService))

	var kafkaMgr *kafka.ConsumerManager
	if cfg.Kafka.Enable {
		var err error
		kafkaMgr, err = kafka.NewConsumerManager(cfg, statsService)
		if err != nil {
			return nil, err
		}
	}

	return &ApplicationContainer{
		Router:       router,
		CronMgr:      cronMgr,
		KafkaManager: kafkaMgr,
		Syncer:       syncer,
	}, nil
}
