package kafka

import (
	kafkago "github.com/segmentio/kafka-go"
)

type Header struct {
	Key   string
	Value []byte
}

type Message struct {
	Key     []byte
	Value   []byte
	Headers []Header
}

func (m Message) ToKafkaMessage() kafkago.Message {
	headers := make([]kafkago.Header, len(m.Headers))
	for i, h := range m.Headers {
		headers[i] = kafkago.Header{Key: h.Key, Value: h.Value}
	}
	return kafkago.Message{
		Key:     m.Key,
		Value:   m.Value,
		Headers: headers,
	}
}
