package paperless

import "time"

// TaskStatus is one record from GET /tasks/?task_id=…
type TaskStatus struct {
	ID              int        `json:"id"`
	TaskID          string     `json:"task_id"`
	TaskFileName    string     `json:"task_file_name"`
	DateCreated     time.Time  `json:"date_created"`
	DateDone        *time.Time `json:"date_done"`
	Type            string     `json:"type"`
	Status          string     `json:"status"`
	Result          string     `json:"result"`
	Acknowledged    bool       `json:"acknowledged"`
	RelatedDocument string     `json:"related_document"`
}

// RemoteDocument is the metadata Paperless holds for a processed document.
// It is returned to callers live and never persisted locally.
type RemoteDocument struct {
	ID               int        `json:"id"`
	Correspondent    *string    `json:"correspondent"`
	DocumentType     int        `json:"document_type"`
	Title            string     `json:"title"`
	Content          string     `json:"content"`
	Tags             []string   `json:"tags"`
	Created          string     `json:"created"`
	Modified         time.Time  `json:"modified"`
	Added            time.Time  `json:"added"`
	DeletedAt        *time.Time `json:"deleted_at"`
	OriginalFileName string     `json:"original_file_name"`
	ArchivedFileName string     `json:"archived_file_name"`
	Owner            int        `json:"owner"`
	PageCount        *int       `json:"page_count"`
	MimeType         string     `json:"mime_type"`
}

// DocumentType is a Paperless document type, the remote side of a category.
type DocumentType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type taskListResponse []TaskStatus

type documentListResponse struct {
	Results []RemoteDocument `json:"results"`
}

type bulkEditRequest struct {
	Documents  []int          `json:"documents"`
	Method     string         `json:"method"`
	Parameters map[string]any `json:"parameters"`
}
