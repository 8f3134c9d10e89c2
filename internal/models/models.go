package models

import "time"

const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
)

// AuthorKind discriminates which table a thread message author belongs to.
type AuthorKind string

const (
	AuthorCitizen AuthorKind = "citizen"
	AuthorStaff   AuthorKind = "staff"
)

func ValidStatus(s string) bool {
	return s == StatusOpen || s == StatusInProgress || s == StatusResolved
}

func ValidAuthorKind(k AuthorKind) bool {
	return k == AuthorCitizen || k == AuthorStaff
}

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Department struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	MemberCount    int       `json:"member_count"`
	ComplaintCount int       `json:"complaint_count"`
	CreatedAt      time.Time `json:"created_at"`
}

type DepartmentMember struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	DepartmentID string    `json:"department_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Attachment describes a stored upload. Immutable after creation.
type Attachment struct {
	StoredName   string `json:"stored_name"`
	OriginalName string `json:"original_name"`
	MimeType     string `json:"mime_type"`
	SizeBytes    int64  `json:"size_bytes"`
	Location     string `json:"location"`
}

// AttachmentAnalysis is produced once per attachment at submission time and
// never recomputed. Metadata shape depends on the media type.
type AttachmentAnalysis struct {
	MimeType    string         `json:"mime_type"`
	Metadata    map[string]any `json:"metadata"`
	Description string         `json:"description"`
	Summary     string         `json:"summary"`
}

type ThreadMessage struct {
	Message    string     `json:"message"`
	AuthorKind AuthorKind `json:"author_kind"`
	AuthorID   string     `json:"author_id"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Urgency fields are all-or-nothing on a complaint: either the whole triple
// was produced by scoring, or none of it is set.
type Urgency struct {
	Score  int    `json:"score"`
	Label  string `json:"label"`
	Reason string `json:"reason"`
}

type Complaint struct {
	ID           string               `json:"id"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Address      string               `json:"address,omitempty"`
	AuthorID     string               `json:"author_id"`
	DepartmentID string               `json:"department_id"`
	Status       string               `json:"status"`
	Attachments  []Attachment         `json:"attachments"`
	Analyses     []AttachmentAnalysis `json:"attachment_analyses"`
	Urgency      *Urgency             `json:"urgency"`
	Thread       []ThreadMessage      `json:"thread"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}
