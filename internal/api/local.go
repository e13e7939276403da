package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/teamnexus/nexus/internal/db"
	"github.com/teamnexus/nexus/internal/models"
)

// ErrBadCredentials is returned by Authenticate when the pair does not match
var ErrBadCredentials = db.ErrBadCredentials

// LocalClient serves the workspace from the embedded sqlite store. Saves are
// also recorded in the activity log so the dashboard feed stays live.
type LocalClient struct {
	store *db.DB

	// actor attribution for activity entries, set after Authenticate
	actorID   string
	actorName string
}

// NewLocalClient creates a client over the given store
func NewLocalClient(store *db.DB) *LocalClient {
	return &LocalClient{store: store}
}

// FetchAll assembles the full snapshot from the store
func (c *LocalClient) FetchAll(ctx context.Context) (*models.AppData, error) {
	tasks, err := c.store.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch tasks: %w", err)
	}
	posts, err := c.store.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch posts: %w", err)
	}
	members, err := c.store.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch members: %w", err)
	}
	schedules, err := c.store.ListSchedules(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch schedules: %w", err)
	}
	projects, err := c.store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch projects: %w", err)
	}
	activities, err := c.store.ListActivities(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("fetch activities: %w", err)
	}
	return &models.AppData{
		Tasks:      tasks,
		Posts:      posts,
		Members:    members,
		Schedules:  schedules,
		Projects:   projects,
		Activities: activities,
	}, nil
}

// SaveTask forwards a partial task to the store
func (c *LocalClient) SaveTask(ctx context.Context, patch models.TaskPatch) error {
	task, err := c.store.SaveTask(ctx, patch)
	if err != nil {
		return err
	}
	c.record(ctx, "업무 저장", task.Title, models.SeverityMedium)
	return nil
}

// SavePost forwards a partial post to the store
func (c *LocalClient) SavePost(ctx context.Context, patch models.PostPatch) error {
	post, err := c.store.SavePost(ctx, patch)
	if err != nil {
		return err
	}
	c.record(ctx, "게시글 저장", post.Title, models.SeverityLow)
	return nil
}

// SaveSchedule forwards a partial schedule to the store
func (c *LocalClient) SaveSchedule(ctx context.Context, patch models.SchedulePatch) error {
	schedule, err := c.store.SaveSchedule(ctx, patch)
	if err != nil {
		return err
	}
	c.record(ctx, "일정 저장", schedule.Name, models.SeverityLow)
	return nil
}

// Authenticate verifies credentials and remembers the actor for attribution
func (c *LocalClient) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := c.store.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, db.ErrBadCredentials) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	c.actorID = user.EmployeeID
	c.actorName = user.Name
	return user, nil
}

func (c *LocalClient) record(ctx context.Context, action, target string, severity models.Severity) {
	// Best effort; a save that cannot be logged is still a save
	_ = c.store.RecordActivity(ctx, models.Activity{
		UserID:   c.actorID,
		UserName: c.actorName,
		Action:   action,
		Target:   target,
		Severity: severity,
	})
}
