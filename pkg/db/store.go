package db

import (
	"context"

	"flash-actu/pkg/domain"
)

// Store archives published episodes. The archive is an optional side
// channel: the pipeline publishes to the feed document regardless, and an
// archive failure is reported as a warning, never as a pipeline failure.
type Store interface {
	// SaveEpisode persists an episode, keyed by its GUID. Re-running a
	// day's publish overwrites that day's record.
	SaveEpisode(ctx context.Context, ep *domain.Episode) error

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}
