package domain

type TaskStatus string

const (
	TaskValidating    TaskStatus = "validating"
	TaskRequestingURL TaskStatus = "requesting_url"
	TaskUploading     TaskStatus = "uploading"
	TaskProcessing    TaskStatus = "processing"
	TaskFinalizing    TaskStatus = "finalizing"
	TaskCompleted     TaskStatus = "completed"
	TaskError         TaskStatus = "error"
)

// UploadTask is the client-local unit of work tracking one file from
// selection to completion or terminal error. Never persisted.
type UploadTask struct {
	FileID      string
	FileName    string
	ContentType string
	Size        int64
	Progress    float64
	Status      TaskStatus
	RetryCount  int
	Error       string
}

func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskError
}

// StatusEvent is published to the broker whenever an image record changes
// status, so collaborators can react without polling.
type StatusEvent struct {
	ImageID   string      `json:"image_id"`
	Status    ImageStatus `json:"status"`
	Timestamp int64       `json:"timestamp"`
}
