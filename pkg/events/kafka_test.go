package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/huynhanx03/token-dispenser/pkg/dispenser"
	"github.com/huynhanx03/token-dispenser/pkg/mq/batcher"
	"github.com/huynhanx03/token-dispenser/pkg/settings"
	"github.com/huynhanx03/token-dispenser/pkg/timer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func expectKind(seq uint64, kind string) mocks.ValueChecker {
	return func(val []byte) error {
		var msg Message
		if err := json.Unmarshal(val, &msg); err != nil {
			return err
		}
		if msg.Seq != seq || msg.Kind != kind || msg.ID == "" {
			return errors.New("unexpected message " + string(val))
		}
		return nil
	}
}

func TestFromEvent(t *testing.T) {
	at := time.Date(2024, 1, 1, 9, 30, 0, 0, time.FixedZone("ICT", 7*3600))

	issued := FromEvent(dispenser.Event{
		Seq:         4,
		Kind:        dispenser.EventIssued,
		Token:       dispenser.Token{Label: "T-4", Number: 4},
		Waiting:     []dispenser.Token{{Label: "T-3"}, {Label: "T-4"}},
		TotalIssued: 4,
		At:          at,
	})
	if issued.Token != "T-4" || issued.Number != 4 || issued.Waiting != 2 || issued.Reason != "" {
		t.Errorf("FromEvent(issued) = %+v", issued)
	}
	if issued.At.Location() != time.UTC || !issued.At.Equal(at) {
		t.Errorf("At = %v, want %v in UTC", issued.At, at)
	}

	rejected := FromEvent(dispenser.Event{Kind: dispenser.EventRejected, Reason: dispenser.ErrQueueFull})
	if rejected.Reason != "queue is full" || rejected.Token != "" {
		t.Errorf("FromEvent(rejected) = %+v", rejected)
	}
	if issued.ID == rejected.ID {
		t.Error("messages should get distinct IDs")
	}
}

func TestKafkaSink_Consume(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(expectKind(1, "issued"))
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(expectKind(2, "served"))

	sink := NewKafkaSink(producer, settings.DefaultTopic, zap.NewNop())
	err := sink.Consume(context.Background(), []Message{
		{ID: "a", Seq: 1, Kind: "issued"},
		{ID: "b", Seq: 2, Kind: "served"},
	})
	if err != nil {
		t.Fatalf("Consume() = %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}

func TestKafkaSink_ConsumeError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	sink := NewKafkaSink(producer, settings.DefaultTopic, zap.NewNop())
	err := sink.Consume(context.Background(), []Message{{ID: "a", Seq: 1, Kind: "issued"}})
	if err == nil {
		t.Error("Consume() should surface the producer failure")
	}
	_ = sink.Close()
}

func TestKafkaSink_CancelledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	sink := NewKafkaSink(producer, settings.DefaultTopic, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sink.Consume(ctx, []Message{{ID: "a"}}); !errors.Is(err, context.Canceled) {
		t.Errorf("Consume() = %v, want context.Canceled", err)
	}
	_ = sink.Close()
}

func TestProducerConfig(t *testing.T) {
	sc := ProducerConfig(settings.Kafka{MaxRetries: 7, RetryBackoff: 250, MaxMessageBytes: 2048, Timeout: 3})

	if sc.Producer.RequiredAcks != sarama.WaitForAll || !sc.Producer.Return.Successes {
		t.Error("producer should wait for all acks and return successes")
	}
	if sc.Producer.Retry.Max != 7 || sc.Producer.Retry.Backoff != 250*time.Millisecond {
		t.Errorf("retry = %+v", sc.Producer.Retry)
	}
	if sc.Producer.MaxMessageBytes != 2048 || sc.Net.DialTimeout != 3*time.Second {
		t.Errorf("limits = %d / %v", sc.Producer.MaxMessageBytes, sc.Net.DialTimeout)
	}
	if err := sc.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestPublisher_EndToEnd(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(expectKind(1, "issued"))
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(expectKind(2, "issued"))
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(expectKind(3, "served"))
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(expectKind(4, "served"))
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(expectKind(4, "rejected"))

	sink := NewKafkaSink(producer, settings.DefaultTopic, zap.NewNop())
	pub := NewPublisher(batcher.New[Message](sink, batcher.Config{Size: 2, Interval: time.Hour}, nil))

	ctx := context.Background()
	d := dispenser.New(settings.Dispenser{Capacity: 5},
		dispenser.WithTimer(timer.NewManualTimer(time.Unix(0, 0))),
		dispenser.WithObserver(pub),
	)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error)
	go func() { done <- pub.Run(runCtx) }()

	_, _ = d.IssueToken(ctx)
	_, _ = d.IssueToken(ctx)
	_, _ = d.ServeNext(ctx)
	_, _ = d.ServeNext(ctx)
	_, _ = d.ServeNext(ctx) // rejected: empty

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}
