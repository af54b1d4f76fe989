// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

//go:build nats

package events

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/nats-io/nats-server/v2/server"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/moodmeet/internal/logging"
)

// NATSAvailable reports whether this build includes the JetStream bus.
const NATSAvailable = true

// NewNATSBus connects a JetStream publisher and durable subscriber, starting
// an embedded server first when cfg asks for one.
func NewNATSBus(cfg NATSConfig, logger watermill.LoggerAdapter) (*Bus, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewLogger()
	}

	var closers []func() error
	url := cfg.URL
	if url == "" {
		ns, err := startEmbedded(&cfg)
		if err != nil {
			return nil, err
		}
		url = ns.ClientURL()
		closers = append(closers, func() error {
			ns.Shutdown()
			ns.WaitForShutdown()
			return nil
		})
	}

	log := logging.WithComponent("nats")
	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			AutoProvision: true,
			TrackMsgId:    true,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}, logger)
	if err != nil {
		closeAll(closers)
		return nil, fmt.Errorf("create nats publisher: %w", err)
	}
	closers = append([]func() error{pub.Close}, closers...)

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              url,
		QueueGroupPrefix: cfg.QueueGroup,
		SubscribersCount: 1,
		AckWaitTimeout:   cfg.AckWait,
		CloseTimeout:     10 * time.Second,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			AutoProvision: true,
			DurablePrefix: cfg.DurablePrefix,
			SubscribeOptions: []natsgo.SubOpt{
				natsgo.AckWait(cfg.AckWait),
				natsgo.DeliverNew(),
			},
		},
	}, logger)
	if err != nil {
		closeAll(closers)
		return nil, fmt.Errorf("create nats subscriber: %w", err)
	}
	closers = append([]func() error{sub.Close}, closers...)

	return &Bus{pub: pub, sub: sub, logger: logger, closers: closers}, nil
}

func startEmbedded(cfg *NATSConfig) (*server.Server, error) {
	ns, err := server.NewServer(&server.Options{
		ServerName: "moodmeet-events",
		Host:       cfg.Host,
		Port:       cfg.Port,
		JetStream:  true,
		StoreDir:   cfg.StoreDir,
		MaxPayload: 1024 * 1024,
	})
	if err != nil {
		return nil, fmt.Errorf("create nats server: %w", err)
	}
	ns.ConfigureLogger()
	go ns.Start()
	if !ns.ReadyForConnections(30 * time.Second) {
		ns.Shutdown()
		return nil, fmt.Errorf("nats server not ready within timeout")
	}
	logging.Info().Str("url", ns.ClientURL()).Msg("Embedded NATS server started")
	return ns, nil
}

func closeAll(closers []func() error) {
	for _, c := range closers {
		_ = c()
	}
}
