package models

// TodoType discriminates between plain tasks and calendar meetings.
type TodoType string

const (
	TypeTask    TodoType = "task"
	TypeMeeting TodoType = "meeting"
)

// Status is the lifecycle state of a todo.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every valid status.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s Status) bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Priority orders todos by urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ValidPriority reports whether p is one of the known priorities.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// CommentType distinguishes user-authored comments from system events.
type CommentType string

const (
	CommentUser   CommentType = "user"
	CommentSystem CommentType = "system"
)

// Comment is an entry on a todo's activity trail. Comments are appended,
// never edited or removed, and live exclusively on their parent todo.
type Comment struct {
	ID        string
	Text      string
	UserID    string
	Type      CommentType
	CreatedAt int64
}

// Todo is a unit of work (task) or calendar event (meeting) owned by a
// family. The two kinds share one record discriminated by Type; meeting-only
// fields stay empty on tasks and vice versa.
//
// Every mutation bumps Version and UpdatedAt. Status transitions append a
// system comment to the trail.
type Todo struct {
	ID string

	// FamilyID scopes the todo to its family. Indexed in the store;
	// all listing and statistics queries filter on it.
	FamilyID string

	Type        TodoType
	Title       string
	Description string
	Status      Status
	Priority    Priority

	// Category is a free-form grouping label used by the statistics engine.
	Category string

	// AssignedTo references the responsible user's ID.
	AssignedTo string

	// CreatedBy references the authoring user's ID.
	CreatedBy string

	// DueDate is a calendar date in YYYY-MM-DD form, empty when undated.
	DueDate string

	// DueTime is a clock time in HH:MM form. When absent the due instant
	// defaults to midnight of DueDate.
	DueTime string

	// CompletedAt is set exactly when Status == StatusCompleted.
	CompletedAt *int64

	Tags     []string
	Comments []Comment

	// Meeting-only fields.
	StartTime   string
	EndTime     string
	MeetingLink string
	Agenda      string
	Attendees   []string

	CreatedAt int64
	UpdatedAt int64

	// Version increments on every mutation, starting at 1.
	Version int64
}

// IsMeeting reports whether the todo is a calendar meeting.
func (t *Todo) IsMeeting() bool {
	return t.Type == TypeMeeting
}

// HasTag reports whether the todo carries the given tag.
func (t *Todo) HasTag(tag string) bool {
	for _, tg := range t.Tags {
		if tg == tag {
			return true
		}
	}
	return false
}
