package observability

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus/push"
)

// PushJob is the Pushgateway job name for batch runs.
const PushJob = "near_space_etl"

// Push sends the registry to a Pushgateway, replacing the job's previous
// metrics. It is a no-op when url is empty.
func (m *Metrics) Push(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	if err := push.New(url, PushJob).Gatherer(m.Registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
