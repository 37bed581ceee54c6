package paperless

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/llsaimur/papertrails/internal/config"
)

// Client is the protocol client for the Paperless processing API. Every call
// is a single attempt with no retries; retry policy, if any, belongs to the
// caller.
type Client interface {
	// UploadDocument submits a file for processing and returns the opaque
	// task handle Paperless assigns to the ingestion job.
	UploadDocument(ctx context.Context, r io.Reader, fileName, title string, documentTypeID int, description string) (string, error)
	// GetTaskStatus returns the task record for the handle, or nil if
	// Paperless has no record of it yet (still-pending, not an error).
	GetTaskStatus(ctx context.Context, taskID string) (*TaskStatus, error)
	// GetDocument fetches live metadata for a processed document.
	GetDocument(ctx context.Context, id int) (*RemoteDocument, error)
	// GetDocuments fetches metadata for several documents in one call.
	GetDocuments(ctx context.Context, ids []int) ([]RemoteDocument, error)
	// DeleteDocument removes a document on the Paperless side. Deletion is
	// not idempotent remotely; call it at most once per record.
	DeleteDocument(ctx context.Context, id int) error
	// SetDocumentType re-types a processed document. Paperless acknowledges
	// synchronously, no task handle is involved.
	SetDocumentType(ctx context.Context, documentID, documentTypeID int) error
	// CreateDocumentType registers a new document type.
	CreateDocumentType(ctx context.Context, name string) (*DocumentType, error)
	// UpdateDocumentType renames an existing document type.
	UpdateDocumentType(ctx context.Context, id int, name string) (*DocumentType, error)
	// DeleteDocumentType removes a document type.
	DeleteDocumentType(ctx context.Context, id int) error
	// DownloadDocument streams the archived file behind a content URL.
	DownloadDocument(ctx context.Context, contentURL string) (io.ReadCloser, error)
	// ContentURL builds the download address for a processed document.
	ContentURL(documentID int) string
}

type httpClient struct {
	baseURL string
	token   string
	http    *http.Client
	calls   *prometheus.CounterVec
}

// NewClient builds a Paperless client from configuration. The URL and API key
// are required; the HTTP client carries an explicit timeout so a stalled
// remote surfaces as ErrRemoteUnreachable instead of an indefinite wait.
func NewClient(cfg config.PaperlessConfig, reg prometheus.Registerer) (Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("paperless url is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("paperless api key is required")
	}
	timeout := 30 * time.Second
	if cfg.TimeoutSec > 0 {
		timeout = time.Duration(cfg.TimeoutSec) * time.Second
	}

	calls := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paperless_client_calls_total",
			Help: "Total number of Paperless API calls by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)
	if reg != nil {
		if err := reg.Register(calls); err != nil {
			return nil, fmt.Errorf("register paperless metrics: %w", err)
		}
	}

	return &httpClient{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		token:   cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		calls:   calls,
	}, nil
}

func (c *httpClient) ContentURL(documentID int) string {
	return fmt.Sprintf("%s/documents/%d/download/", c.baseURL, documentID)
}

func (c *httpClient) UploadDocument(ctx context.Context, r io.Reader, fileName, title string, documentTypeID int, description string) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("document", fileName)
	if err != nil {
		return "", fmt.Errorf("build multipart: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if title != "" {
		_ = w.WriteField("title", title)
	}
	_ = w.WriteField("document_type", strconv.Itoa(documentTypeID))
	if description != "" {
		_ = w.WriteField("description", description)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("build multipart: %w", err)
	}

	resp, err := c.do(ctx, "upload_document", http.MethodPost, c.baseURL+"/documents/post_document/", &body, w.FormDataContentType())
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := c.checkStatus("upload_document", resp); err != nil {
		return "", err
	}

	// Paperless answers with the task UUID as a JSON string.
	var taskID string
	if err := json.NewDecoder(resp.Body).Decode(&taskID); err != nil {
		return "", fmt.Errorf("decode task id: %w", err)
	}
	return taskID, nil
}

func (c *httpClient) GetTaskStatus(ctx context.Context, taskID string) (*TaskStatus, error) {
	resp, err := c.do(ctx, "get_task_status", http.MethodGet, c.baseURL+"/tasks/?task_id="+taskID, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus("get_task_status", resp); err != nil {
		return nil, err
	}

	var tasks taskListResponse
	if err := json.NewDecoder(resp.Body).Decode(&tasks); err != nil {
		return nil, fmt.Errorf("decode task status: %w", err)
	}
	if len(tasks) == 0 {
		// The queue has not picked the task up yet; treated as still-pending.
		return nil, nil
	}
	return &tasks[0], nil
}

func (c *httpClient) GetDocument(ctx context.Context, id int) (*RemoteDocument, error) {
	resp, err := c.do(ctx, "get_document", http.MethodGet, fmt.Sprintf("%s/documents/%d/", c.baseURL, id), nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: id %d", ErrRemoteNotFound, id)
	}
	if err := c.checkStatus("get_document", resp); err != nil {
		return nil, err
	}

	var doc RemoteDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}

func (c *httpClient) GetDocuments(ctx context.Context, ids []int) ([]RemoteDocument, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}

	resp, err := c.do(ctx, "get_documents", http.MethodGet, c.baseURL+"/documents/?id__in="+strings.Join(parts, ","), nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus("get_documents", resp); err != nil {
		return nil, err
	}

	var list documentListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	return list.Results, nil
}

func (c *httpClient) DeleteDocument(ctx context.Context, id int) error {
	resp, err := c.do(ctx, "delete_document", http.MethodDelete, fmt.Sprintf("%s/documents/%d/", c.baseURL, id), nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.checkStatus("delete_document", resp)
}

func (c *httpClient) SetDocumentType(ctx context.Context, documentID, documentTypeID int) error {
	payload := bulkEditRequest{
		Documents:  []int{documentID},
		Method:     "set_document_type",
		Parameters: map[string]any{"document_type": documentTypeID},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode bulk edit: %w", err)
	}

	resp, err := c.do(ctx, "set_document_type", http.MethodPost, c.baseURL+"/documents/bulk_edit/", bytes.NewReader(body), "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.checkStatus("set_document_type", resp)
}

func (c *httpClient) CreateDocumentType(ctx context.Context, name string) (*DocumentType, error) {
	return c.writeDocumentType(ctx, "create_document_type", http.MethodPost, c.baseURL+"/document_types/", name)
}

func (c *httpClient) UpdateDocumentType(ctx context.Context, id int, name string) (*DocumentType, error) {
	return c.writeDocumentType(ctx, "update_document_type", http.MethodPut, fmt.Sprintf("%s/document_types/%d/", c.baseURL, id), name)
}

func (c *httpClient) writeDocumentType(ctx context.Context, op, method, url, name string) (*DocumentType, error) {
	body, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return nil, fmt.Errorf("encode document type: %w", err)
	}

	resp, err := c.do(ctx, op, method, url, bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(op, resp); err != nil {
		return nil, err
	}

	var dt DocumentType
	if err := json.NewDecoder(resp.Body).Decode(&dt); err != nil {
		return nil, fmt.Errorf("decode document type: %w", err)
	}
	return &dt, nil
}

func (c *httpClient) DeleteDocumentType(ctx context.Context, id int) error {
	resp, err := c.do(ctx, "delete_document_type", http.MethodDelete, fmt.Sprintf("%s/document_types/%d/", c.baseURL, id), nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.checkStatus("delete_document_type", resp)
}

func (c *httpClient) DownloadDocument(ctx context.Context, contentURL string) (io.ReadCloser, error) {
	resp, err := c.do(ctx, "download_document", http.MethodGet, contentURL, nil, "")
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrRemoteNotFound, contentURL)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		c.count("download_document", "rejected")
		return nil, &RemoteError{Op: "download_document", StatusCode: resp.StatusCode, Body: string(body)}
	}
	return resp.Body, nil
}

// do performs one request with the static token header. Transport failures,
// including client timeout expiry, are reported as ErrRemoteUnreachable.
func (c *httpClient) do(ctx context.Context, op, method, url string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.count(op, "unreachable")
		return nil, fmt.Errorf("%w: %s %s: %v", ErrRemoteUnreachable, method, url, err)
	}
	return resp, nil
}

func (c *httpClient) checkStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.count(op, "ok")
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	c.count(op, "rejected")
	return &RemoteError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
}

func (c *httpClient) count(op, outcome string) {
	c.calls.WithLabelValues(op, outcome).Inc()
}
