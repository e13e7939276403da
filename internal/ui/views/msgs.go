package views

import "github.com/teamnexus/nexus/internal/models"

// Each panel receives only the slice of the snapshot it renders; the root
// model pushes these after every snapshot replacement. Panels that author
// content also get the session user for attribution; read-only panels get
// neither the user nor anything outside their slice. Panels must render from
// these messages alone and never mutate them.

// OverviewMsg feeds the dashboard
type OverviewMsg struct {
	Tasks      []models.Task
	Projects   []models.Project
	Activities []models.Activity
}

// TasksMsg feeds the board
type TasksMsg struct {
	Tasks []models.Task
	User  *models.User
}

// PostsMsg feeds the community panel
type PostsMsg struct {
	Posts []models.Post
	User  *models.User
}

// SchedulesMsg feeds the calendar
type SchedulesMsg struct {
	Schedules []models.Schedule
	User      *models.User
}

// MembersMsg feeds the team directory
type MembersMsg struct {
	Members []models.User
}

// LoggedIn signals that credentials were verified. The root model starts
// the session when it sees this.
type LoggedIn struct {
	User models.User
}

// saveDoneMsg reports the outcome of a save issued by a panel
type saveDoneMsg struct {
	err error
}
