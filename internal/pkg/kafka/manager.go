package kafka

import (
	"WorkUs/internal/api/config"
	"context"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理 Kafka 消费者
type ConsumerManager struct {
	topic         string
	usersConsumer sarama.ConsumerGroup
	usersHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(cfg *config.Config, refresher StatsRefresher) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	usersConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaUserConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		topic:         cfg.KafkaUserConsumer.Topic,
		usersConsumer: usersConsumer,
		usersHandler:  NewUsersHandler(refresher, "users"),
	}, nil
}

// Start 阻塞直到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context) error {
	go func() {
		for err := range m.usersConsumer.Errors() {
			log.Error("Error from users consumer group", "err", err)
		}
	}()

	go func() {
		log.Info("Users consumer started", "topic", m.topic)
		for {
			if err := m.usersConsumer.Consume(ctx, []string{m.topic}, m.usersHandler); err != nil {
				log.Error("Error from consumer", "err", err)
				select {
				case <-ctx.Done():
				case <-time.After(time.Second):
				}
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.usersConsumer.Close(); err != nil {
		log.Error("Failed to close users consumer", "err", err)
	}
	return nil
}
