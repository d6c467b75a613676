package producer

import (
	"context"
	"encoding/json"

	"github.com/mikrobrand/mikro1/internal/domain/event"
	"github.com/mikrobrand/mikro1/internal/pkg/kafka"
)

// 以buyer id作為partition key，同一買家的事件保證順序
type IOrderEventProducer interface {
	ProduceOrderEvent(ctx context.Context, evt event.OrderEvent) error
	Close() error
}

type OrderEventProducer struct {
	producer kafka.Producer
}

func NewOrderEventProducer(producer kafka.Producer) *OrderEventProducer {
	return &OrderEventProducer{producer: producer}
}

func (p *OrderEventProducer) ProduceOrderEvent(ctx context.Context, evt event.OrderEvent) error {
	msg, err := p.convertToMessage(evt)
	if err != nil {
		return err
	}

	return p.producer.Produce(ctx, []kafka.Message{msg})
}

func (p *OrderEventProducer) Close() error {
	return p.producer.Close()
}

func (p *OrderEventProducer) convertToMessage(evt event.OrderEvent) (kafka.Message, error) {
	value, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Key:   []byte(evt.BuyerID),
		Value: value,
		Headers: []kafka.Header{
			{
				Key:   "event_type",
				Value: []byte(evt.Type),
			},
		},
	}, nil
}

var _ IOrderEventProducer = (*OrderEventProducer)(nil)
