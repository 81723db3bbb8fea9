package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrBufferFull is returned by Publisher when its buffer has no room.
var ErrBufferFull = errors.New("queue: publish buffer full")

// Publisher forwards activity events to RabbitMQ. PublishActivity only
// enqueues; Run owns the broker connection and does the actual publish,
// so a slow or absent broker never holds up a mutation.
type Publisher struct {
	url   string
	queue string
	log   *slog.Logger
	buf   chan ActivityEvent
}

func NewPublisher(url, queue string, buffer int, log *slog.Logger) *Publisher {
	if queue == "" {
		queue = ActivityQueue
	}
	if buffer <= 0 {
		buffer = 256
	}
	if log == nil {
		log = slog.Default()
	}
	return &Publisher{url: url, queue: queue, log: log, buf: make(chan ActivityEvent, buffer)}
}

// PublishActivity queues ev. When the buffer is full the event is dropped
// and ErrBufferFull returned.
func (p *Publisher) PublishActivity(_ context.Context, ev ActivityEvent) error {
	select {
	case p.buf <- ev:
		return nil
	default:
		p.log.Warn("rabbitmq: buffer full, dropping activity", "activity_id", ev.ActivityID)
		return ErrBufferFull
	}
}

// Pending returns the number of queued events.
func (p *Publisher) Pending() int { return len(p.buf) }

// Run publishes queued events until ctx is done, reconnecting with
// backoff when the broker goes away.
func (p *Publisher) Run(ctx context.Context) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(p.url)
		if err != nil {
			p.log.Warn("rabbitmq: dial failed", "err", err, "retry_in", backoff)
			if !sleep(ctx, backoff) {
				return
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = p.publishLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return
		}
		p.log.Warn("rabbitmq: publish loop ended, reconnecting", "err", err)
		if !sleep(ctx, 2*time.Second) {
			return
		}
	}
}

func (p *Publisher) publishLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return err
	}

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-closed:
			return err
		case ev := <-p.buf:
			body, err := json.Marshal(ev)
			if err != nil {
				p.log.Error("rabbitmq: marshal event failed", "err", err)
				continue
			}
			pub := amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent, // store on disk
				Timestamp:    time.Now().UTC(),
				Body:         body,
			}
			if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
				p.log.Error("rabbitmq: publish failed", "err", err, "activity_id", ev.ActivityID)
				return err
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
