package mq

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"presence_chat_server/internal/config"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaPublisher 基于 kafka-go Writer 的在线状态发布者
// 以用户 ID 为 key，同一用户的状态事件落在同一分区
type KafkaPublisher struct {
	writer *kafka.Writer
}

// Init 按配置选择发布实现
func Init(cfg *config.KafkaConfig) PresencePublisher {
	if cfg == nil || cfg.MessageMode != "kafka" {
		return NoopPublisher{}
	}
	brokers := splitBrokers(cfg.HostPort)
	EnsureTopic(brokers, cfg.PresenceTopic)

	zap.L().Info("kafka presence publisher ready",
		zap.Strings("brokers", brokers), zap.String("topic", cfg.PresenceTopic))
	return NewKafkaPublisher(brokers, cfg.PresenceTopic, cfg.Timeout*time.Second)
}

// NewKafkaPublisher 创建发布者
func NewKafkaPublisher(brokers []string, topic string, timeout time.Duration) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			WriteTimeout:           timeout,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: false,
		},
	}
}

func (k *KafkaPublisher) Publish(ctx context.Context, event PresenceEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.UserID), 10)),
		Value: value,
		Time:  event.At,
	})
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}

// EnsureTopic 连接任意节点尝试创建主题，已存在或失败只记录日志
func EnsureTopic(brokers []string, topic string) {
	if len(brokers) == 0 {
		return
	}
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		zap.L().Error("kafka dial failed", zap.String("broker", brokers[0]), zap.Error(err))
		return
	}
	defer conn.Close()

	if err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}); err != nil {
		zap.L().Warn("kafka create topic", zap.String("topic", topic), zap.Error(err))
	}
}

func splitBrokers(hostPort string) []string {
	var brokers []string
	for _, b := range strings.Split(hostPort, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
