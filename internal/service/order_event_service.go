package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mikrobrand/mikro1/internal/domain/event"
	"github.com/mikrobrand/mikro1/internal/infra/eventdb"
	"github.com/mikrobrand/mikro1/internal/infra/producer"
)

type IOrderEventService interface {
	PublishOrderEvents(ctx context.Context, events []event.OrderEvent) error
}

// OrderEventService commit後的事件扇出，kafka與event journal並行寫入
// producer與journal皆為optional，未配置時直接跳過
// 事件發佈失敗不影響已commit的訂單，caller只記warning
type OrderEventService struct {
	producer producer.IOrderEventProducer
	journal  *eventdb.OrderEventDao
}

func NewOrderEventService(p producer.IOrderEventProducer, journal *eventdb.OrderEventDao) *OrderEventService {
	return &OrderEventService{
		producer: p,
		journal:  journal,
	}
}

func (s *OrderEventService) PublishOrderEvents(ctx context.Context, events []event.OrderEvent) error {
	if len(events) == 0 {
		return nil
	}

	g, gCtx := errgroup.WithContext(ctx)

	if s.producer != nil {
		g.Go(func() error {
			for _, evt := range events {
				if err := s.producer.ProduceOrderEvent(gCtx, evt); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if s.journal != nil {
		g.Go(func() error {
			for _, evt := range events {
				if err := s.journal.AppendOrderEvent(gCtx, evt); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return g.Wait()
}

var _ IOrderEventService = (*OrderEventService)(nil)
