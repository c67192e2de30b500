// Package kafka builds producers for the order event stream.
package kafka

import (
	"errors"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

var ErrNoBrokers = errors.New("at least one kafka broker is required")

// ParseBrokers splits a comma separated broker list, dropping blanks.
func ParseBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// NewWriter returns a synchronous writer for topic. Callers own Close.
func NewWriter(topic string, brokers ...string) (*kafkago.Writer, error) {
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.LeastBytes{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
		WriteTimeout:           5 * time.Second,
	}, nil
}
