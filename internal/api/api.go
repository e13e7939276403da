// Package api defines the contract between the client and the workspace data
// service. The synchronization core only ever sees the Client interface; the
// service behind it is free to be slow, eventually consistent, or remote.
package api

import (
	"context"

	"github.com/teamnexus/nexus/internal/models"
)

// Client is the data service as the client sees it. FetchAll returns the full
// snapshot in one call; the save operations accept partial entities and apply
// the merge on the service side.
type Client interface {
	FetchAll(ctx context.Context) (*models.AppData, error)
	SaveTask(ctx context.Context, patch models.TaskPatch) error
	SavePost(ctx context.Context, patch models.PostPatch) error
	SaveSchedule(ctx context.Context, patch models.SchedulePatch) error
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}
