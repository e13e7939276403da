package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks an entity against its declared constraints
func Validate(v any) error {
	return validate.Struct(v)
}

// Validate checks every entity in the snapshot. The client never repairs bad
// data; a snapshot that fails here is rejected wholesale.
func (d *AppData) Validate() error {
	if d.User != nil {
		if err := validate.Struct(d.User); err != nil {
			return fmt.Errorf("user: %w", err)
		}
	}
	for i := range d.Tasks {
		if err := validate.Struct(&d.Tasks[i]); err != nil {
			return fmt.Errorf("task %s: %w", d.Tasks[i].ID, err)
		}
	}
	for i := range d.Posts {
		if err := validate.Struct(&d.Posts[i]); err != nil {
			return fmt.Errorf("post %s: %w", d.Posts[i].ID, err)
		}
	}
	for i := range d.Members {
		if err := validate.Struct(&d.Members[i]); err != nil {
			return fmt.Errorf("member %s: %w", d.Members[i].EmployeeID, err)
		}
	}
	for i := range d.Schedules {
		if err := validate.Struct(&d.Schedules[i]); err != nil {
			return fmt.Errorf("schedule %s: %w", d.Schedules[i].ID, err)
		}
	}
	for i := range d.Projects {
		if err := validate.Struct(&d.Projects[i]); err != nil {
			return fmt.Errorf("project %s: %w", d.Projects[i].ID, err)
		}
	}
	for i := range d.Activities {
		if err := validate.Struct(&d.Activities[i]); err != nil {
			return fmt.Errorf("activity %s: %w", d.Activities[i].ID, err)
		}
	}
	return nil
}
