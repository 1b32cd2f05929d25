package roster

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/breakroster/internal/alerts"
)

// CheckAlerts evaluates the day against the thresholds and stores any new
// notifications in the feed. It returns the notifications that were added.
func (s *Service) CheckAlerts(ctx context.Context, day time.Time) ([]alerts.Notification, error) {
	st, err := s.DayStats(ctx, day)
	if err != nil {
		return nil, err
	}
	feed, err := s.feed(ctx)
	if err != nil {
		return nil, err
	}

	added := feed.Merge(alerts.Evaluate(st, s.thresholds, s.now()))
	if len(added) == 0 {
		return nil, nil
	}
	for _, n := range added {
		s.log.Warn("threshold breached", zap.String("title", n.Title), zap.String("severity", string(n.Severity)))
	}
	return added, s.store.SaveNotifications(ctx, feed.All())
}

func (s *Service) Notifications(ctx context.Context) ([]alerts.Notification, error) {
	feed, err := s.feed(ctx)
	if err != nil {
		return nil, err
	}
	return feed.All(), nil
}

// AcknowledgeNotification marks id as seen. It reports false when no
// notification has that id.
func (s *Service) AcknowledgeNotification(ctx context.Context, id string) (bool, error) {
	feed, err := s.feed(ctx)
	if err != nil {
		return false, err
	}
	if !feed.Acknowledge(id) {
		return false, nil
	}
	return true, s.store.SaveNotifications(ctx, feed.All())
}

// UnacknowledgedNotifications returns the notifications still awaiting a manager.
func (s *Service) UnacknowledgedNotifications(ctx context.Context) ([]alerts.Notification, error) {
	feed, err := s.feed(ctx)
	if err != nil {
		return nil, err
	}
	return feed.Unacknowledged(), nil
}

func (s *Service) ClearNotifications(ctx context.Context) error {
	feed, err := s.feed(ctx)
	if err != nil {
		return err
	}
	feed.Clear()
	return s.store.SaveNotifications(ctx, feed.All())
}

func (s *Service) feed(ctx context.Context) (*alerts.Feed, error) {
	saved, err := s.store.LoadNotifications(ctx)
	if err != nil {
		return nil, err
	}
	return alerts.NewFeed(saved), nil
}
