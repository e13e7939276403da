package models

import "fmt"

// The data service speaks a bilingual dialect: enum values and field names
// arrive in either Korean or English. Internally there is exactly one
// canonical value per concept; the Korean spellings are parsed at the wire
// boundary and produced again only for display.

var statusKo = map[TaskStatus]string{
	StatusBacklog:    "대기",
	StatusInProgress: "진행중",
	StatusCompleted:  "완료",
	StatusOnHold:     "중단",
}

var priorityKo = map[TaskPriority]string{
	PriorityEmergency: "긴급",
	PriorityHigh:      "높음",
	PriorityMedium:    "보통",
	PriorityLow:       "낮음",
}

var topicKo = map[TopicType]string{
	TopicStrategic:   "예외현안",
	TopicOperational: "지식공유",
	TopicWarRoom:     "공지사항",
}

var roleKo = map[Role]string{
	RoleAdmin:  "관리자",
	RoleMember: "팀원",
}

// Label returns the Korean display form of the status
func (s TaskStatus) Label() string { return statusKo[s] }

// Label returns the Korean display form of the priority
func (p TaskPriority) Label() string { return priorityKo[p] }

// Label returns the Korean display form of the topic type
func (t TopicType) Label() string { return topicKo[t] }

// Label returns the Korean display form of the role
func (r Role) Label() string { return roleKo[r] }

// ParseTaskStatus accepts either spelling of a task status
func ParseTaskStatus(s string) (TaskStatus, error) {
	for canonical, ko := range statusKo {
		if s == string(canonical) || s == ko {
			return canonical, nil
		}
	}
	return "", fmt.Errorf("unknown task status %q", s)
}

// ParseTaskPriority accepts either spelling of a priority
func ParseTaskPriority(s string) (TaskPriority, error) {
	for canonical, ko := range priorityKo {
		if s == string(canonical) || s == ko {
			return canonical, nil
		}
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// ParseTopicType accepts either spelling of a topic type
func ParseTopicType(s string) (TopicType, error) {
	for canonical, ko := range topicKo {
		if s == string(canonical) || s == ko {
			return canonical, nil
		}
	}
	return "", fmt.Errorf("unknown topic type %q", s)
}

// ParseRole accepts either spelling of a role
func ParseRole(s string) (Role, error) {
	for canonical, ko := range roleKo {
		if s == string(canonical) || s == ko {
			return canonical, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}
