package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

const designEventsTopic = "design-saved"

// Producer publishes design lifecycle events for downstream order and
// analytics consumers.
type Producer interface {
	SendMessage(topic string, message interface{}) error
	Close() error
}

type kafkaProducer struct {
	writer *kafka.Writer
}

// NewProducer connects to the brokers and ensures the design events
// topic exists. When the brokers are unreachable a logging no-op
// producer is returned instead, so a missing Kafka never blocks saves.
func NewProducer(brokers string) Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers),
		Topic:        designEventsTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := kafka.DialContext(ctx, "tcp", brokers)
	if err != nil {
		logrus.Warnf("kafka unreachable (%v), design events will be logged only", err)
		return &logProducer{}
	}
	defer conn.Close()

	topicConfigs := []kafka.TopicConfig{
		{
			Topic:             designEventsTopic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		},
	}
	if err := conn.CreateTopics(topicConfigs...); err != nil {
		logrus.Debugf("could not create topic (might already exist): %v", err)
	}

	logrus.Infof("kafka producer connected: %s", brokers)
	return &kafkaProducer{writer: writer}
}

func (p *kafkaProducer) SendMessage(topic string, message interface{}) error {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte("design-studio"),
		Value: messageBytes,
		Time:  time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logrus.Errorf("failed to write message to kafka: %v", err)
		return err
	}
	return nil
}

func (p *kafkaProducer) Close() error {
	return p.writer.Close()
}

// logProducer stands in when no broker is configured.
type logProducer struct{}

func (l *logProducer) SendMessage(topic string, message interface{}) error {
	logrus.WithField("topic", topic).Debugf("design event (no broker): %v", message)
	return nil
}

func (l *logProducer) Close() error {
	return nil
}
