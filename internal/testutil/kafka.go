//go:build integration

package testutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// UniqueTopicAndGroup — отдельные топик и группа консьюмера на каждый тест.
func UniqueTopicAndGroup(base string) (topic, group string) {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	topic = base + "-" + id
	return topic, topic + "-grp"
}

// EnsureTopic — создаёт топик через контроллер кластера и ждёт его партиций в метаданных.
// broker принимает "host:port", "PLAINTEXT://host:port" и список через запятую.
func EnsureTopic(ctx context.Context, broker, topic string) error {
	addr := seedAddr(broker)

	conn, err := kafka.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	ctrl, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("controller: %w", err)
	}
	admin, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(ctrl.Host, strconv.Itoa(ctrl.Port)))
	if err != nil {
		return fmt.Errorf("dial controller: %w", err)
	}
	defer admin.Close()

	err = admin.CreateTopics(kafka.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1})
	if err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
		return fmt.Errorf("create topic %q: %w", topic, err)
	}
	return waitPartitions(ctx, addr, topic)
}

// seedAddr — первый адрес bootstrap-строки без схемы.
func seedAddr(raw string) string {
	first := strings.TrimSpace(strings.Split(raw, ",")[0])
	if i := strings.Index(first, "://"); i >= 0 {
		first = first[i+3:]
	}
	return first
}

func waitPartitions(ctx context.Context, addr, topic string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()

	var lastErr error
	for {
		conn, err := kafka.DialContext(ctx, "tcp", addr)
		if err == nil {
			parts, perr := conn.ReadPartitions(topic)
			_ = conn.Close()
			if perr == nil && len(parts) > 0 {
				return nil
			}
			err = perr
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return fmt.Errorf("topic %q not ready: %w", topic, errors.Join(ctx.Err(), lastErr))
		case <-tick.C:
		}
	}
}
