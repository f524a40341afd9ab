package application

import (
	"context"
	"fmt"
	"strings"
)

type Notifier interface {
	Notify(ctx context.Context, message string) error
}

type NoopNotifier struct{}

func (n *NoopNotifier) Notify(_ context.Context, _ string) error {
	return nil
}

// Summary renders the executed controls as a one-line-per-write message.
func Summary(results []Result) string {
	var sb strings.Builder
	for _, r := range results {
		sb.WriteString(fmt.Sprintf("%s: %s = %d\n", r.Accessory.Name, r.Characteristic, r.Value))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
