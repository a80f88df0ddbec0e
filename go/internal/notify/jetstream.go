package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/draftwatch/go/internal/draft/events"
)

type JetStreamConfig struct {
	URL             string
	StreamName      string
	SubjectPrefix   string
	MaxReconnects   int
	ReconnectWait   time.Duration
	MaxAge          time.Duration // How long to keep messages
	Replicas        int
	DuplicateWindow time.Duration // Window for duplicate detection
}

func DefaultJetStreamConfig() JetStreamConfig {
	return JetStreamConfig{
		URL:             nats.DefaultURL,
		StreamName:      "DRAFT_PICKS",
		SubjectPrefix:   "draftwatch.picks",
		MaxReconnects:   5,
		ReconnectWait:   2 * time.Second,
		MaxAge:          30 * 24 * time.Hour,
		Replicas:        1,
		DuplicateWindow: 48 * time.Hour,
	}
}

// JetStreamSink publishes one PickMade message per new pick. The message id
// is derived from the league and pick key, so a re-published pick inside the
// duplicate window is dropped by the stream.
type JetStreamSink struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	config JetStreamConfig
}

func NewJetStreamSink(ctx context.Context, cfg JetStreamConfig) (*JetStreamSink, error) {
	opts := []nats.Option{
		nats.Name("draftwatch"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	s := &JetStreamSink{nc: nc, js: js, config: cfg}
	if err := s.ensureStream(ctx); err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure stream: %w", err)
	}

	return s, nil
}

func (s *JetStreamSink) streamConfig() jetstream.StreamConfig {
	return jetstream.StreamConfig{
		Name:        s.config.StreamName,
		Description: "Newly observed draft picks",
		Subjects:    []string{fmt.Sprintf("%s.>", s.config.SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      s.config.MaxAge,
		Storage:     jetstream.FileStorage,
		Replicas:    s.config.Replicas,
		Duplicates:  s.config.DuplicateWindow,
	}
}

func (s *JetStreamSink) ensureStream(ctx context.Context) error {
	sc := s.streamConfig()

	stream, err := s.js.Stream(ctx, sc.Name)
	if err != nil {
		if _, err = s.js.CreateStream(ctx, sc); err != nil {
			return fmt.Errorf("create stream: %w", err)
		}
		log.Info().Str("stream", sc.Name).Msg("created JetStream stream")
		return nil
	}

	info, err := stream.Info(ctx)
	if err != nil {
		return fmt.Errorf("get stream info: %w", err)
	}
	if !isStreamConfigEqual(info.Config, sc) {
		if _, err = s.js.UpdateStream(ctx, sc); err != nil {
			return fmt.Errorf("update stream: %w", err)
		}
		log.Info().Str("stream", sc.Name).Msg("updated JetStream stream")
	}
	return nil
}

func (s *JetStreamSink) Name() string {
	return "jetstream"
}

func (s *JetStreamSink) Send(ctx context.Context, n Notification) error {
	for _, p := range n.Picks {
		msg, msgID, err := pickMessage(s.config.SubjectPrefix, p)
		if err != nil {
			return err
		}

		ack, err := s.js.PublishMsg(ctx, msg,
			jetstream.WithMsgID(msgID),
			jetstream.WithExpectStream(s.config.StreamName),
		)
		if err != nil {
			return fmt.Errorf("publish to JetStream: %w", err)
		}

		log.Ctx(ctx).Debug().
			Str("subject", msg.Subject).
			Str("msg_id", msgID).
			Uint64("sequence", ack.Sequence).
			Bool("duplicate", ack.Duplicate).
			Msg("published pick")
	}
	return nil
}

func (s *JetStreamSink) Close() error {
	if s.nc != nil {
		s.nc.Close()
	}
	return nil
}

// pickMessage builds the message for one pick and the id JetStream
// deduplicates on.
func pickMessage(subjectPrefix string, p events.PickMadePayload) (*nats.Msg, string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, "", fmt.Errorf("marshal event: %w", err)
	}

	msgID := p.LeagueID + "/" + p.PickKey
	msg := &nats.Msg{
		Subject: fmt.Sprintf("%s.%s", subjectPrefix, p.LeagueID),
		Data:    data,
		Header: nats.Header{
			"Event-Type": []string{events.EventTypePickMade},
			"League-ID":  []string{p.LeagueID},
		},
	}
	return msg, msgID, nil
}

func isStreamConfigEqual(a, b jetstream.StreamConfig) bool {
	if len(a.Subjects) != len(b.Subjects) {
		return false
	}
	for i := range a.Subjects {
		if a.Subjects[i] != b.Subjects[i] {
			return false
		}
	}
	return a.Name == b.Name &&
		a.MaxAge == b.MaxAge &&
		a.Replicas == b.Replicas &&
		a.Duplicates == b.Duplicates
}
