// Package kafka ingests order events relayed through a broker and runs
// them through the same reconciler as the HTTP webhook. Bad messages
// are committed and skipped; storage failures are not committed so the
// broker re-delivers them.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/picknship/backend/internal/reconcile"
	"github.com/picknship/backend/internal/repo"
	"github.com/segmentio/kafka-go"
)

type reconciler interface {
	Reconcile(ctx context.Context, s repo.Snapshot) (bool, reconcile.Diff, error)
}

type notifier interface {
	OrderReconciled(ctx context.Context, isNew bool, o repo.Snapshot, d reconcile.Diff)
}

type reader interface {
	FetchMessage(context.Context) (kafka.Message, error)
	CommitMessages(context.Context, ...kafka.Message) error
	Close() error
}

const (
	minBytes  = 1
	maxBytes  = 10 * 1024 * 1024
	retryBase = 300 * time.Millisecond
)

var newReader = func(cfg kafka.ReaderConfig) reader { return kafka.NewReader(cfg) }

type Decoder func([]byte, *repo.Snapshot) error
type Validator func(*repo.Snapshot) error

func defaultDecode(b []byte, s *repo.Snapshot) error { return json.Unmarshal(b, s) }

func defaultValidate(s *repo.Snapshot) error {
	if s.OrderID == "" {
		return fmt.Errorf("field order_id: empty")
	}
	if len(s.OrderID) > 100 {
		return fmt.Errorf("field order_id: too long")
	}
	if s.StoreID == "" {
		return fmt.Errorf("field store_id: empty")
	}
	if len(s.StoreID) > 100 {
		return fmt.Errorf("field store_id: too long")
	}
	if s.Total.IsNegative() {
		return fmt.Errorf("field total: negative")
	}
	return nil
}

type Consumer struct {
	Brokers []string
	Topic   string
	Group   string

	Rec    reconciler
	Notify notifier

	Logf     func(string, ...any)
	Decode   Decoder
	Validate Validator

	RetryBase time.Duration
}

func NewConsumer(brokersCSV, topic, group string, rec reconciler, n notifier, logf func(string, ...any)) *Consumer {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Consumer{
		Brokers:   splitCSV(brokersCSV),
		Topic:     topic,
		Group:     group,
		Rec:       rec,
		Notify:    n,
		Logf:      logf,
		Decode:    defaultDecode,
		Validate:  defaultValidate,
		RetryBase: retryBase,
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	r := newReader(kafka.ReaderConfig{
		Brokers:        c.Brokers,
		GroupID:        c.Group,
		Topic:          c.Topic,
		MinBytes:       minBytes,
		MaxBytes:       maxBytes,
		CommitInterval: 0,
	})
	defer r.Close()

	c.Logf("[KAFKA] reader connected (group=%s topic=%s brokers=%v)", c.Group, c.Topic, c.Brokers)

	for {
		msg, err := r.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				c.Logf("[KAFKA] stopped: %v", err)
				return err
			}
			c.Logf("[KAFKA] fetch error: %v", err)
			return err
		}
		c.handleMessage(ctx, r, msg)
	}
}

func (c *Consumer) handleMessage(ctx context.Context, r reader, msg kafka.Message) {
	var snap repo.Snapshot

	if err := c.Decode(msg.Value, &snap); err != nil {
		c.Logf("[KAFKA] bad json %s[%d]#%d: %v", msg.Topic, msg.Partition, msg.Offset, err)
		_ = r.CommitMessages(ctx, msg)
		return
	}

	if len(msg.Key) > 0 && string(msg.Key) != snap.OrderID {
		c.Logf("[KAFKA] key/payload mismatch %s[%d]#%d: key=%q payload=%q",
			msg.Topic, msg.Partition, msg.Offset, string(msg.Key), snap.OrderID)
	}

	if err := c.Validate(&snap); err != nil {
		c.Logf("[KAFKA] invalid %q %s[%d]#%d: %v",
			snap.OrderID, msg.Topic, msg.Partition, msg.Offset, err)
		_ = r.CommitMessages(ctx, msg)
		return
	}

	isNew, diff, err := c.Rec.Reconcile(ctx, snap)
	if err != nil {
		c.Logf("[KAFKA] reconcile %s/%s: %v", snap.OrderID, snap.StoreID, err)
		c.backoff()
		return
	}

	if c.Notify != nil {
		c.Notify.OrderReconciled(ctx, isNew, snap, diff)
	}
	c.Logf("[KAFKA] reconciled %s/%s (new=%t changes=%d)", snap.OrderID, snap.StoreID, isNew, len(diff))

	if err := r.CommitMessages(ctx, msg); err != nil {
		c.Logf("[KAFKA] commit error %s[%d]#%d: %v", msg.Topic, msg.Partition, msg.Offset, err)
	}
}

func (c *Consumer) backoff() {
	j := time.Duration(rand.Intn(200)) * time.Millisecond
	time.Sleep(c.RetryBase + j)
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
