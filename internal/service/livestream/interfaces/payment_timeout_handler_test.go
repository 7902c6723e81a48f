package interfaces

import (
	"context"
	"testing"
	"time"

	"streamcart/internal/pkg/mq"
)

// Stop 必须终止消费 goroutine 并返回，即使从未收到过任何消息。
func TestPaymentTimeoutConsumer_StopTerminates(t *testing.T) {
	reader := mq.NewKafkaReader([]string{"localhost:1"}, "payment-timeout-check-topic", "test-group")
	consumer := NewPaymentTimeoutConsumerAdapter(reader, nil)

	ctx, cancel := context.WithCancel(context.Background())
	consumer.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		consumer.Stop(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop")
	}
}
