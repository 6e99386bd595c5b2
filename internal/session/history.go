package session

import (
	"context"
	"log/slog"

	"github.com/justyntemme/comics-t/pkg/models"
)

// Lister fetches session history from the server
type Lister interface {
	ListSessions(ctx context.Context, slug string) ([]models.ReadingSession, error)
}

// History merges the server's session history with the local journal. The
// server's copy wins when both have a session. If one side fails the other
// is used alone; an error is returned only when both fail.
func History(ctx context.Context, remote Lister, journal *Journal, slug string, log *slog.Logger) ([]models.ReadingSession, error) {
	if log == nil {
		log = slog.Default()
	}

	byID := make(map[string]models.ReadingSession)
	var order []string
	add := func(list []models.ReadingSession, overwrite bool) {
		for _, s := range list {
			if _, ok := byID[s.ID]; !ok {
				order = append(order, s.ID)
			} else if !overwrite {
				continue
			}
			byID[s.ID] = s
		}
	}

	var remoteErr, localErr error
	if remote != nil {
		var list []models.ReadingSession
		if list, remoteErr = remote.ListSessions(ctx, slug); remoteErr != nil {
			log.Warn("fetch session history failed", slog.Any("error", remoteErr))
		}
		add(list, true)
	}
	if journal != nil {
		var list []models.ReadingSession
		if list, localErr = journal.List(ctx, slug); localErr != nil {
			log.Warn("read session journal failed", slog.Any("error", localErr))
		}
		add(list, false)
	}

	if remoteErr != nil && (journal == nil || localErr != nil) {
		return nil, remoteErr
	}
	if localErr != nil && remote == nil {
		return nil, localErr
	}

	out := make([]models.ReadingSession, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	return out, nil
}
