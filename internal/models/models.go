package models

import (
	"time"

	"github.com/google/uuid"
)

// DocumentVersion is the persisted document schema version this build
// reads and writes. Older payloads go through the migration chain in
// the store before they reach these types.
const DocumentVersion = 1

// PersistedDocument is the single root aggregate written to the worker
// store (one blob) or the local key-value fallback (one key per field).
type PersistedDocument struct {
	Version int          `json:"version"`
	SavedAt time.Time    `json:"savedAt"`
	Data    DocumentData `json:"data"`
}

// DocumentData carries every top-level collection of the document.
type DocumentData struct {
	MediaItems   []MediaItem    `json:"mediaItems"`
	Collections  []Collection   `json:"collections"`
	Workflows    []Workflow     `json:"workflows"`
	DeletedItems []DeletedItem  `json:"deletedItems"`
	Settings     AppSettings    `json:"settings"`
	UserProfile  UserProfile    `json:"userProfile"`
	Activities   []ActivityItem `json:"activities"`
}

// MediaType distinguishes video from audio assets.
type MediaType string

const (
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
)

// MediaItemStatus tracks an item's processing lifecycle.
type MediaItemStatus string

const (
	MediaStatusReady        MediaItemStatus = "ready"
	MediaStatusImporting    MediaItemStatus = "importing"
	MediaStatusTranscribing MediaItemStatus = "transcribing"
	MediaStatusProcessing   MediaItemStatus = "processing"
	MediaStatusError        MediaItemStatus = "error"
)

// MediaItem is the central entity. Notes, bookmarks, chats, the
// transcription and the summary are owned by the item and only ever
// mutated through whole-item replacement in the store.
type MediaItem struct {
	ID        string      `json:"id"`
	Type      MediaType   `json:"type"`
	Name      string      `json:"name"`
	Source    MediaSource `json:"source"`
	Thumbnail string      `json:"thumbnail,omitempty"`
	Duration  float64     `json:"duration"` // seconds
	Meta      MediaMeta   `json:"meta"`

	Transcription *Transcription   `json:"transcription,omitempty"`
	Notes         []MediaNote      `json:"notes"`
	Summary       *AISummary       `json:"summary,omitempty"`
	Bookmarks     []Bookmark       `json:"bookmarks"`
	AIChats       []AIConversation `json:"aiChats"`

	Tags     []string `json:"tags"`
	FolderID string   `json:"folderId,omitempty"`

	LastPlayedAt *time.Time `json:"lastPlayedAt,omitempty"`
	LastPosition float64    `json:"lastPosition,omitempty"`
	PlayCount    int        `json:"playCount"`

	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Status    MediaItemStatus `json:"status"`
}

// FileSize reports the local byte size of the item, zero for online
// sources that have not been cached.
func (m MediaItem) FileSize() int64 {
	switch m.Source.Type {
	case SourceLocal:
		if m.Source.Local != nil {
			return m.Source.Local.FileSize
		}
	case SourceOnline:
		if m.Source.Online != nil {
			return m.Source.Online.FileSize
		}
	}
	return 0
}

// Transcription is the worker's transcription result for a media item.
type Transcription struct {
	ID          string                 `json:"id"`
	MediaID     string                 `json:"mediaId"`
	Language    string                 `json:"language"`
	Segments    []TranscriptionSegment `json:"segments"`
	WordCount   int                    `json:"wordCount"`
	GeneratedAt time.Time              `json:"generatedAt"`
	Model       string                 `json:"model,omitempty"`
	Confidence  float64                `json:"confidence,omitempty"`
}

// TranscriptionSegment is one timed span of transcript text.
type TranscriptionSegment struct {
	ID         string  `json:"id"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	Speaker    string  `json:"speaker,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// MediaNote is a markdown note anchored to a media item, optionally to
// a point or range in its timeline.
type MediaNote struct {
	ID           string    `json:"id"`
	MediaID      string    `json:"mediaId"`
	Timestamp    *float64  `json:"timestamp,omitempty"`
	TimestampEnd *float64  `json:"timestampEnd,omitempty"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Color        string    `json:"color,omitempty"`
	IsPinned     bool      `json:"isPinned"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BookmarkColor is the fixed palette for timeline bookmarks.
type BookmarkColor string

const (
	BookmarkRed    BookmarkColor = "red"
	BookmarkOrange BookmarkColor = "orange"
	BookmarkYellow BookmarkColor = "yellow"
	BookmarkGreen  BookmarkColor = "green"
	BookmarkBlue   BookmarkColor = "blue"
	BookmarkPurple BookmarkColor = "purple"
	BookmarkPink   BookmarkColor = "pink"
	BookmarkGray   BookmarkColor = "gray"
)

// Bookmark marks a point in a media item's timeline.
type Bookmark struct {
	ID        string        `json:"id"`
	MediaID   string        `json:"mediaId"`
	Timestamp float64       `json:"timestamp"`
	Label     string        `json:"label"`
	Color     BookmarkColor `json:"color"`
	Emoji     string        `json:"emoji,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

// AISummary is the worker's generated summary for a media item.
type AISummary struct {
	ID          string        `json:"id"`
	MediaID     string        `json:"mediaId"`
	Content     string        `json:"content"` // markdown
	KeyPoints   []string      `json:"keyPoints,omitempty"`
	Mindmap     string        `json:"mindmap,omitempty"` // mermaid
	Chapters    []ChapterMark `json:"chapters,omitempty"`
	GeneratedAt time.Time     `json:"generatedAt"`
	PromptUsed  string        `json:"promptUsed,omitempty"`
	Model       string        `json:"model,omitempty"`
}

// ChapterMark divides a summary into timed chapters.
type ChapterMark struct {
	Timestamp float64 `json:"timestamp"`
	Title     string  `json:"title"`
	Summary   string  `json:"summary,omitempty"`
}

// MessageRole enumerates chat participants.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// AIConversation is a chat thread grounded in one media item.
type AIConversation struct {
	ID        string      `json:"id"`
	MediaID   string      `json:"mediaId"`
	Title     string      `json:"title"`
	Messages  []AIMessage `json:"messages"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// AIMessage is one turn of an AI conversation.
type AIMessage struct {
	ID                 string      `json:"id"`
	Role               MessageRole `json:"role"`
	Content            string      `json:"content"`
	Timestamp          time.Time   `json:"timestamp"`
	ReferencedSegments []string    `json:"referencedSegments,omitempty"`
}

// Collection is a user-defined ordered grouping of media item ids. It
// references items, it does not own them. SortOrder stays a dense
// 0..N-1 sequence across reorders.
type Collection struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	Icon      string    `json:"icon,omitempty"`
	MediaIDs  []string  `json:"mediaIds"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WorkflowStatus tracks a workflow's lifecycle.
type WorkflowStatus string

const (
	WorkflowActive    WorkflowStatus = "active"
	WorkflowDraft     WorkflowStatus = "draft"
	WorkflowArchiving WorkflowStatus = "archiving"
)

// WorkflowNode is one step of a pipeline definition. Opaque to the
// core; the worker interprets node configs.
type WorkflowNode struct {
	ID      string         `json:"id"`
	Type    string         `json:"type"` // input/process/output
	Label   string         `json:"label"`
	X       float64        `json:"x"`
	Y       float64        `json:"y"`
	Config  map[string]any `json:"config,omitempty"`
	Inputs  []string       `json:"inputs,omitempty"`
	Outputs []string       `json:"outputs,omitempty"`
}

// WorkflowConnection wires two workflow nodes together.
type WorkflowConnection struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

// Workflow is a stored processing pipeline definition.
type Workflow struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Desc        string               `json:"desc"`
	Status      WorkflowStatus       `json:"status"`
	Runs        int                  `json:"runs"`
	Modified    time.Time            `json:"modified"`
	CreatedAt   time.Time            `json:"createdAt"`
	Nodes       []WorkflowNode       `json:"nodes"`
	Connections []WorkflowConnection `json:"connections"`
}

// DeletedItemType names the origin collection of a trashed entity.
type DeletedItemType string

const (
	DeletedMedia    DeletedItemType = "media"
	DeletedWorkflow DeletedItemType = "workflow"
	DeletedFolder   DeletedItemType = "folder"
)

// DeletedItem wraps a verbatim snapshot of a deleted entity. Restore
// re-inserts the snapshot into its origin collection unchanged.
type DeletedItem struct {
	ID         string          `json:"id"`
	OriginalID string          `json:"originalId"`
	Type       DeletedItemType `json:"type"`
	Name       string          `json:"name"`
	Preview    string          `json:"preview,omitempty"`
	DeletedAt  time.Time       `json:"deletedAt"`
	Data       DeletedPayload  `json:"data"`
}

// DeletedPayload holds the snapshot for exactly one entity kind.
type DeletedPayload struct {
	Media    *MediaItem  `json:"media,omitempty"`
	Workflow *Workflow   `json:"workflow,omitempty"`
	Folder   *Collection `json:"folder,omitempty"`
}

// UserProfile is the single local user's profile.
type UserProfile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Avatar     string `json:"avatar,omitempty"`
	Bio        string `json:"bio,omitempty"`
	Location   string `json:"location,omitempty"`
	CoverImage string `json:"coverImage,omitempty"`
}

// JobType enumerates local processing job kinds.
type JobType string

const (
	JobImport        JobType = "import"
	JobTranscription JobType = "transcription"
	JobOptimize      JobType = "optimize"
	JobSummary       JobType = "summary"
	JobDownload      JobType = "download"
	JobExport        JobType = "export"
	JobSubtitle      JobType = "subtitle"
)

// JobStatus enumerates local processing job states.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
	JobCancelled  JobStatus = "cancelled"
)

// Terminal reports whether the status is final.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed || s == JobCancelled
}

// ProcessingJob is a client-visible record of an asynchronous worker
// operation, reconciled from progress events by job id.
type ProcessingJob struct {
	ID          string     `json:"id"`
	MediaID     string     `json:"mediaId"`
	Type        JobType    `json:"type"`
	Status      JobStatus  `json:"status"`
	Progress    int        `json:"progress"` // 0-100
	Message     string     `json:"message,omitempty"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// ActivityType enumerates activity log categories.
type ActivityType string

const (
	ActivityImport        ActivityType = "import"
	ActivityExport        ActivityType = "export"
	ActivityTranscription ActivityType = "transcription"
	ActivitySummary       ActivityType = "summary"
	ActivityNote          ActivityType = "note"
	ActivityBookmark      ActivityType = "bookmark"
	ActivityOther         ActivityType = "other"
)

// ActivityItem is one entry of the bounded activity log.
type ActivityItem struct {
	ID      string       `json:"id"`
	Type    ActivityType `json:"type"`
	Title   string       `json:"title"`
	Desc    string       `json:"desc"`
	Time    time.Time    `json:"time"`
	MediaID string       `json:"mediaId,omitempty"`
	Status  string       `json:"status,omitempty"` // success/failed/pending
	Icon    string       `json:"icon,omitempty"`
	Color   string       `json:"color,omitempty"`
}

// NewID generates a prefixed entity id, e.g. "media-4f9c...".
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}
