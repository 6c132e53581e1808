package domain

import (
	"strings"
	"time"
)

type Category struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type Priority struct {
	Value     float64 `json:"value"`
	IsDefault bool    `json:"isDefault"`
}

type Task struct {
	ID          string     `db:"id" json:"id"`
	UserID      string     `db:"user_id" json:"userId"`
	Name        string     `db:"name" json:"name"`
	Category    Category   `db:"category" json:"category"`
	StartDate   time.Time  `db:"start_date" json:"startDate"`
	EndDate     time.Time  `db:"end_date" json:"endDate"`
	Priority    Priority   `db:"priority" json:"priority"`
	Note        *string    `db:"note" json:"note,omitempty"`
	Completed   bool       `db:"completed" json:"completed"`
	CompletedAt *time.Time `db:"completed_at" json:"completedAt,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

type CategoryInput struct {
	Name  *string `json:"name"`
	Icon  *string `json:"icon"`
	Color *string `json:"color"`
}

type PriorityInput struct {
	Value     *float64 `json:"value"`
	IsDefault *bool    `json:"isDefault"`
}

// TaskInput is the body of a create request. Owner fields in the body are not decoded.
type TaskInput struct {
	Name        *string        `json:"name"`
	Category    *CategoryInput `json:"category"`
	StartDate   *Timestamp     `json:"startDate"`
	EndDate     *Timestamp     `json:"endDate"`
	Priority    *PriorityInput `json:"priority"`
	Note        *string        `json:"note"`
	Completed   *bool          `json:"completed"`
	CompletedAt *Timestamp     `json:"completedAt"`
}

// NewTask validates in and builds a task owned by ownerID.
func NewTask(ownerID string, in TaskInput, now time.Time) (*Task, error) {
	var missing []string
	if blank(in.Name) {
		missing = append(missing, "name")
	}
	missing = append(missing, in.Category.missing("category")...)
	if in.StartDate == nil {
		missing = append(missing, "startDate")
	}
	if in.EndDate == nil {
		missing = append(missing, "endDate")
	}
	missing = append(missing, in.Priority.missing("priority")...)
	if len(missing) > 0 {
		return nil, validationError(missing)
	}

	t := &Task{
		UserID:    ownerID,
		Name:      strings.TrimSpace(*in.Name),
		Category:  in.Category.value(),
		StartDate: in.StartDate.Time,
		EndDate:   in.EndDate.Time,
		Priority:  in.Priority.value(),
		Note:      in.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}
	switch {
	case in.CompletedAt != nil:
		at := in.CompletedAt.Time
		t.CompletedAt = &at
	case t.Completed:
		at := now
		t.CompletedAt = &at
	}
	return t, nil
}

// TaskPatch is the body of a partial update.
type TaskPatch struct {
	Name        Optional[string]        `json:"name"`
	Category    Optional[CategoryInput] `json:"category"`
	StartDate   Optional[Timestamp]     `json:"startDate"`
	EndDate     Optional[Timestamp]     `json:"endDate"`
	Priority    Optional[PriorityInput] `json:"priority"`
	Note        Optional[string]        `json:"note"`
	Completed   Optional[bool]          `json:"completed"`
	CompletedAt Optional[Timestamp]     `json:"completedAt"`
}

// TaskUpdate is a validated TaskPatch. Nil pointers leave a field unchanged.
type TaskUpdate struct {
	Name        *string
	Category    *Category
	StartDate   *time.Time
	EndDate     *time.Time
	Priority    *Priority
	Note        Optional[string]
	Completed   *bool
	CompletedAt Optional[time.Time]
}

// Normalize checks the patch and converts it into a TaskUpdate.
func (p TaskPatch) Normalize() (TaskUpdate, error) {
	var (
		u       TaskUpdate
		invalid []string
	)

	if p.Name.Set {
		if p.Name.Null || strings.TrimSpace(p.Name.Value) == "" {
			invalid = append(invalid, "name")
		} else {
			name := strings.TrimSpace(p.Name.Value)
			u.Name = &name
		}
	}
	if p.Category.Set {
		in := p.Category.Ptr()
		if m := in.missing("category"); len(m) > 0 {
			invalid = append(invalid, m...)
		} else {
			c := in.value()
			u.Category = &c
		}
	}
	if p.StartDate.Set {
		if p.StartDate.Null {
			invalid = append(invalid, "startDate")
		} else {
			u.StartDate = &p.StartDate.Value.Time
		}
	}
	if p.EndDate.Set {
		if p.EndDate.Null {
			invalid = append(invalid, "endDate")
		} else {
			u.EndDate = &p.EndDate.Value.Time
		}
	}
	if p.Priority.Set {
		in := p.Priority.Ptr()
		if m := in.missing("priority"); len(m) > 0 {
			invalid = append(invalid, m...)
		} else {
			pr := in.value()
			u.Priority = &pr
		}
	}
	if p.Completed.Set {
		if p.Completed.Null {
			invalid = append(invalid, "completed")
		} else {
			u.Completed = &p.Completed.Value
		}
	}
	u.Note = p.Note
	if p.CompletedAt.Set {
		u.CompletedAt = Optional[time.Time]{Set: true, Null: p.CompletedAt.Null, Value: p.CompletedAt.Value.Time}
	}

	if len(invalid) > 0 {
		return TaskUpdate{}, validationError(invalid)
	}
	return u, nil
}

// Apply merges u into t. Stores that cannot express the update natively use it directly.
func (u TaskUpdate) Apply(t *Task, now time.Time) {
	if u.Name != nil {
		t.Name = *u.Name
	}
	if u.Category != nil {
		t.Category = *u.Category
	}
	if u.StartDate != nil {
		t.StartDate = *u.StartDate
	}
	if u.EndDate != nil {
		t.EndDate = *u.EndDate
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.Note.Set {
		t.Note = u.Note.Ptr()
	}
	if u.Completed != nil {
		t.Completed = *u.Completed
	}
	switch {
	case u.CompletedAt.Set:
		t.CompletedAt = u.CompletedAt.Ptr()
	case u.Completed != nil && *u.Completed:
		if t.CompletedAt == nil {
			at := now
			t.CompletedAt = &at
		}
	case u.Completed != nil:
		t.CompletedAt = nil
	}
	t.UpdatedAt = now
}

func (c *CategoryInput) missing(prefix string) []string {
	if c == nil {
		return []string{prefix + ".name", prefix + ".icon", prefix + ".color"}
	}
	var out []string
	if blank(c.Name) {
		out = append(out, prefix+".name")
	}
	if blank(c.Icon) {
		out = append(out, prefix+".icon")
	}
	if blank(c.Color) {
		out = append(out, prefix+".color")
	}
	return out
}

func (c *CategoryInput) value() Category {
	return Category{Name: *c.Name, Icon: *c.Icon, Color: *c.Color}
}

func (p *PriorityInput) missing(prefix string) []string {
	if p == nil {
		return []string{prefix + ".value", prefix + ".isDefault"}
	}
	var out []string
	if p.Value == nil {
		out = append(out, prefix+".value")
	}
	if p.IsDefault == nil {
		out = append(out, prefix+".isDefault")
	}
	return out
}

func (p *PriorityInput) value() Priority {
	return Priority{Value: *p.Value, IsDefault: *p.IsDefault}
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func validationError(paths []string) error {
	return NewError(ErrValidation, "Task validation failed: "+strings.Join(paths, ", ")+" required")
}
