package notifier

import (
	"context"
	"log/slog"

	"github.com/amishk599/internwatch/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes new postings to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each posting via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the posting. Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(_ context.Context, p model.Posting) error {
	n.logger.Info("new internship",
		"source", p.Source,
		"company", p.Company,
		"title", p.Title,
		"url", p.URL,
		"identity", p.Identity(),
	)
	return nil
}
