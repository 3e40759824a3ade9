package mailer

import (
	"context"
	"encoding/json"
	"fmt"
)

// Outcome tells the consumer how to settle a delivery.
type Outcome int

const (
	Sent    Outcome = iota // ack
	Dropped                // nack without requeue, the job can never succeed
	Retry                  // nack with requeue
)

// Handle decodes, renders and sends one queued job.
func Handle(ctx context.Context, s Sender, body []byte) (Outcome, error) {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return Dropped, fmt.Errorf("decode job: %w", err)
	}
	m, err := Prepare(job)
	if err != nil {
		return Dropped, err
	}
	if err := s.Send(ctx, m.To, m.Subject, m.Text, m.HTML); err != nil {
		return Retry, fmt.Errorf("send to %s: %w", m.To, err)
	}
	return Sent, nil
}
