package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/carousell/ct-go/pkg/logger"
	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/gammazero/workerpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nguyentranbao-ct/community-worker/internal/config"
	"github.com/nguyentranbao-ct/community-worker/internal/models"
	"github.com/nguyentranbao-ct/community-worker/internal/trigger"
	"github.com/nguyentranbao-ct/community-worker/pkg/util"
)

type Consumer interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type changeFeedConsumer struct {
	reader         *kafka.Reader
	metrics        *prometheus.HistogramVec
	consumeTimeout time.Duration
	registry       *trigger.Registry
	done           chan struct{}
	workerPool     *workerpool.WorkerPool
}

// NewConsumer builds the change-feed consumer. When Kafka is disabled the
// webhook is the only event source and a noop consumer is returned.
func NewConsumer(cfg config.KafkaConfig, registry *trigger.Registry) (Consumer, error) {
	if !cfg.Enabled {
		return &noopConsumer{}, nil
	}

	metrics, err := util.GetHistogramVec("change_events_consumed", "status", "topic", "group")
	if err != nil {
		return nil, fmt.Errorf("get histogram vec: %w", err)
	}

	return &changeFeedConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     cfg.Brokers,
			Topic:       cfg.Topic,
			GroupID:     cfg.GroupID,
			StartOffset: kafka.LastOffset,
		}),
		metrics:        metrics,
		consumeTimeout: 30 * time.Second,
		registry:       registry,
		done:           make(chan struct{}),
		workerPool:     workerpool.New(4),
	}, nil
}

func (c *changeFeedConsumer) Start(ctx context.Context) error {
	log.Infof(ctx, "Starting change-feed consumer for topic: %s", c.reader.Config().Topic)
	groupID := c.reader.Config().GroupID

	for ctx.Err() == nil {
		select {
		case <-c.done:
			return nil
		default:
		}

		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			log.Errorw(ctx, "Error reading message", "error", err)
			continue
		}

		c.workerPool.Submit(func() {
			c.processMessage(ctx, msg, groupID)
		})
	}
	return nil
}

func (c *changeFeedConsumer) Stop(ctx context.Context) error {
	log.Infof(ctx, "Stopping change-feed consumer")
	close(c.done)
	c.workerPool.StopWait()
	return c.reader.Close()
}

func (c *changeFeedConsumer) processMessage(ctx context.Context, msg kafka.Message, groupID string) {
	start := time.Now()
	lagMs := start.Sub(msg.Time).Milliseconds()

	err := c.handle(ctx, msg)
	duration := time.Since(start)

	code := getCode(err)
	content := "success"
	if err != nil {
		content = err.Error()
	}

	log.Logw(ctx, getLogLevel(code), content,
		"code", code,
		"duration_ms", duration.Milliseconds(),
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
		"lag_ms", lagMs,
		"key", string(msg.Key),
		"value", json.RawMessage(msg.Value),
	)

	c.metrics.
		WithLabelValues(code.String(), msg.Topic, groupID).
		Observe(duration.Seconds())
}

func (c *changeFeedConsumer) handle(msgCtx context.Context, msg kafka.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PANIC RECOVER: %+v", r)
		}
	}()

	var change models.ChangeMessage
	if err := json.Unmarshal(msg.Value, &change); err != nil {
		return fmt.Errorf("unmarshal change message: %w", err)
	}

	if change.Pattern != models.PatternStoreChanged {
		log.Infow(msgCtx, "Ignoring event with unknown pattern", "pattern", change.Pattern)
		return nil
	}
	if change.Data.Path == "" {
		return fmt.Errorf("change event without path")
	}

	ctx, cancel := context.WithTimeout(msgCtx, c.consumeTimeout)
	defer cancel()

	c.registry.Dispatch(ctx, change.Data.Path, change.Data.Before, change.Data.After)
	return nil
}

// StartConsumer hooks the consumer into the fx lifecycle.
func StartConsumer(
	lc fx.Lifecycle,
	sd fx.Shutdowner,
	conf *config.Config,
	registry *trigger.Registry,
) error {
	consumer, err := NewConsumer(conf.Kafka, registry)
	if err != nil {
		return fmt.Errorf("new consumer: %w", err)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := consumer.Start(context.Background()); err != nil {
					log.Errorw(ctx, "consumer stopped with error", "error", err)
					sd.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return consumer.Stop(ctx)
		},
	})
	return nil
}

func getCode(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return codes.DeadlineExceeded
	}
	if errors.Is(err, context.Canceled) {
		return codes.Canceled
	}
	st, ok := status.FromError(err)
	if !ok {
		return status.Code(errors.Unwrap(err))
	}
	return st.Code()
}

// noopConsumer is used when Kafka is disabled
type noopConsumer struct{}

func (n *noopConsumer) Start(ctx context.Context) error {
	log.Infof(ctx, "Change-feed consumer is disabled")
	return nil
}

func (n *noopConsumer) Stop(ctx context.Context) error {
	return nil
}

func getLogLevel(code codes.Code) logger.Level {
	switch code {
	case codes.OK:
		return logger.InfoLevel
	case codes.Canceled,
		codes.InvalidArgument,
		codes.NotFound,
		codes.AlreadyExists,
		codes.PermissionDenied,
		codes.Unauthenticated,
		codes.ResourceExhausted,
		codes.FailedPrecondition,
		codes.Aborted,
		codes.Unimplemented,
		codes.OutOfRange:
		return logger.WarnLevel
	default:
		return logger.ErrorLevel
	}
}
