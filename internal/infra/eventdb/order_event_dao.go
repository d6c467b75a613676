package eventdb

import (
	"context"
	"encoding/json"

	"github.com/EventStore/EventStore-Client-Go/v4/esdb"
	"github.com/mikrobrand/mikro1/internal/domain/event"
)

// OrderEventDao 訂單事件日誌，每張訂單一條stream
type OrderEventDao struct {
	client *esdb.Client
}

func NewOrderEventDao(client *esdb.Client) *OrderEventDao {
	return &OrderEventDao{client: client}
}

// AppendOrderEvent 寫入事件（Create）
func (dao *OrderEventDao) AppendOrderEvent(ctx context.Context, evt event.OrderEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	eventData := esdb.EventData{
		ContentType: esdb.ContentTypeJson,
		EventType:   evt.Type,
		Data:        payload,
	}
	_, err = dao.client.AppendToStream(ctx, evt.StreamID(), esdb.AppendToStreamOptions{}, eventData)
	return err
}

// ReadOrderEvents 讀取單一訂單的事件（Read）
func (dao *OrderEventDao) ReadOrderEvents(ctx context.Context, orderID string) ([]event.OrderEvent, error) {
	opts := esdb.ReadStreamOptions{}
	stream, err := dao.client.ReadStream(ctx, "order-"+orderID, opts, 100)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	var events []event.OrderEvent
	for {
		resolved, err := stream.Recv()
		if err != nil {
			break
		}
		var evt event.OrderEvent
		if err := json.Unmarshal(resolved.Event.Data, &evt); err != nil {
			continue
		}
		events = append(events, evt)
	}
	return events, nil
}
