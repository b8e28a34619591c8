// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Publisher sends change events on the Valkey channel. The CMS side of
// the integration publishes; slugpress itself publishes from the notify
// endpoint and the test suite.
type Publisher struct {
	client *redis.Client
}

// NewPublisher creates a publisher on the given Valkey client.
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish validates and sends one event.
func (p *Publisher) Publish(ctx context.Context, e Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.client.Publish(ctx, Channel, payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Handler consumes one decoded event.
type Handler func(ctx context.Context, e Event)

// Subscriber listens on the Valkey channel and dispatches decoded
// events to a handler. Malformed payloads are logged and dropped so a
// bad publisher cannot stall slug maintenance.
type Subscriber struct {
	client  *redis.Client
	handler Handler
}

// NewSubscriber creates a subscriber that dispatches to handler.
func NewSubscriber(client *redis.Client, handler Handler) *Subscriber {
	return &Subscriber{client: client, handler: handler}
}

// Run subscribes and dispatches until ctx is canceled. It returns the
// subscription error, or nil on clean shutdown.
func (s *Subscriber) Run(ctx context.Context) error {
	sub := s.client.Subscribe(ctx, Channel)
	defer sub.Close()

	// Wait for the subscription to be confirmed before reporting ready.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", Channel, err)
	}
	slog.Info("event subscriber started", "channel", Channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			slog.Info("event subscriber stopped")
			return nil
		case msg, ok := <-ch:
			if !ok {
				return fmt.Errorf("subscription channel closed")
			}
			e, err := decode(msg.Payload)
			if err != nil {
				slog.Warn("dropping malformed event", "payload", msg.Payload, "error", err)
				continue
			}
			slog.Debug("event received", "kind", e.Kind, "item_type", e.ItemType, "item_id", e.ItemID)
			s.handler(ctx, e)
		}
	}
}
