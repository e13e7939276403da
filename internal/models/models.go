package models

import "time"

// Role is a member's permission level
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// TaskStatus is the workflow state of a task
type TaskStatus string

const (
	StatusBacklog    TaskStatus = "BACKLOG"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
	StatusOnHold     TaskStatus = "ON_HOLD"
)

// AllStatuses lists task statuses in board-column order
var AllStatuses = []TaskStatus{StatusBacklog, StatusInProgress, StatusCompleted, StatusOnHold}

// TaskPriority is the urgency of a task
type TaskPriority string

const (
	PriorityEmergency TaskPriority = "EMERGENCY"
	PriorityHigh      TaskPriority = "HIGH"
	PriorityMedium    TaskPriority = "MEDIUM"
	PriorityLow       TaskPriority = "LOW"
)

// TopicType categorizes tasks and posts
type TopicType string

const (
	TopicStrategic   TopicType = "STRATEGIC"
	TopicOperational TopicType = "OPERATIONAL"
	TopicWarRoom     TopicType = "WAR_ROOM"
)

// ProjectHealth is the delivery status of a project
type ProjectHealth string

const (
	HealthOnTrack ProjectHealth = "ON_TRACK"
	HealthAtRisk  ProjectHealth = "AT_RISK"
	HealthDelayed ProjectHealth = "DELAYED"
)

// Severity grades an activity log entry
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Availability is a member's current presence state
type Availability string

const (
	Available Availability = "available"
	Busy      Availability = "busy"
)

// User represents a workspace member
type User struct {
	EmployeeID  string `validate:"required"`
	Email       string `validate:"required,email"`
	Name        string `validate:"required"`
	Role        Role   `validate:"required,oneof=admin member"`
	Position    string
	Department  string
	AvatarColor string
	Expertise   []string
	Workload    *int         `validate:"omitempty,gte=0,lte=100"`
	Status      Availability `validate:"omitempty,oneof=available busy"`
}

// Comment represents a comment on a task. Comments are owned by their task
// and have no lifecycle of their own.
type Comment struct {
	ID        string `validate:"required"`
	Author    string `validate:"required"`
	Content   string `validate:"required"`
	CreatedAt time.Time
}

// Task represents a single work item on the board. Issue is the name the
// data service uses for the same record.
type Task struct {
	ID            string       `validate:"required"`
	Title         string       `validate:"required"`
	Content       string
	Status        TaskStatus   `validate:"required,oneof=BACKLOG IN_PROGRESS COMPLETED ON_HOLD"`
	Priority      TaskPriority `validate:"required,oneof=EMERGENCY HIGH MEDIUM LOW"`
	AssigneeName  string
	AssigneeEmail string `validate:"omitempty,email"`
	DueDate       string
	UpdatedAt     time.Time
	Comments      []Comment `validate:"dive"`
	ProjectID     string
	Tags          []string
	Kudos         int       `validate:"gte=0"`
	Type          TopicType `validate:"omitempty,oneof=STRATEGIC OPERATIONAL WAR_ROOM"`
}

// Post represents an entry on the community board
type Post struct {
	ID      string    `validate:"required"`
	Type    TopicType `validate:"required,oneof=STRATEGIC OPERATIONAL WAR_ROOM"`
	Title   string    `validate:"required"`
	Content string
	Author  string `validate:"required"`
	Date    string
	Views   int `validate:"gte=0"`
	Likes   int `validate:"gte=0"`
}

// Schedule represents a team calendar entry
type Schedule struct {
	ID    string `validate:"required"`
	Name  string `validate:"required"`
	Type  string
	Date  string `validate:"required"`
	Note  string
	Email string `validate:"omitempty,email"`
}

// Project represents a tracked project
type Project struct {
	ID          string        `json:"id" validate:"required"`
	Name        string        `json:"name" validate:"required"`
	Description string        `json:"description"`
	Health      ProjectHealth `json:"status" validate:"required,oneof=ON_TRACK AT_RISK DELAYED"`
	Progress    int           `json:"progress" validate:"gte=0,lte=100"`
}

// Activity represents an audit log entry. The client only displays these.
type Activity struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Action    string    `json:"action"`
	Target    string    `json:"target"`
	Timestamp time.Time `json:"timestamp"`
	Severity  Severity  `json:"severity" validate:"omitempty,oneof=low medium high"`
}

// AppData is the unified snapshot of all workspace state. It is always
// fetched and replaced as a whole, never merged field by field.
type AppData struct {
	User       *User      `json:"user"`
	Tasks      []Task     `json:"tasks"`
	Posts      []Post     `json:"posts"`
	Members    []User     `json:"members"`
	Schedules  []Schedule `json:"schedules"`
	Projects   []Project  `json:"projects"`
	Activities []Activity `json:"activities"`
}

// TaskPatch is a partial task for save operations. Nil fields are left
// untouched by the data service; an empty ID means a new task.
type TaskPatch struct {
	ID            string
	Title         *string
	Content       *string
	Status        *TaskStatus
	Priority      *TaskPriority
	AssigneeName  *string
	AssigneeEmail *string
	DueDate       *string
	ProjectID     *string
	Tags          *[]string
	Kudos         *int
	Type          *TopicType
	Comments      *[]Comment
}

// PostPatch is a partial post for save operations
type PostPatch struct {
	ID      string
	Type    *TopicType
	Title   *string
	Content *string
	Author  *string
	Date    *string
	Views   *int
	Likes   *int
}

// SchedulePatch is a partial schedule for save operations
type SchedulePatch struct {
	ID    string
	Name  *string
	Type  *string
	Date  *string
	Note  *string
	Email *string
}
