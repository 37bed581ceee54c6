package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/llsaimur/papertrails/internal/model"
	"github.com/llsaimur/papertrails/internal/paperless"
	"github.com/llsaimur/papertrails/internal/repository"
	"github.com/llsaimur/papertrails/internal/storage"
)

var (
	ErrIDRequired        = errors.New("id is required")
	ErrNotFound          = errors.New("document not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrDuplicateDocument = errors.New("a document with the same title already exists in this category")
	ErrFileRequired      = errors.New("file is required")
	ErrFileNotReady      = errors.New("document file not available yet")
	ErrNotProcessed      = errors.New("document has not finished processing yet")

	// ErrRemoteProcessing means Paperless itself reported the task as failed.
	// The remote system failed, not this one; handlers surface it as a
	// gateway failure.
	ErrRemoteProcessing = errors.New("document processing failed at Paperless")
)

const presignExpiry = 15 * time.Minute

// SubmitInput carries a new upload into the async processing path.
type SubmitInput struct {
	OwnerID     string
	File        io.Reader
	FileName    string
	Size        int64
	ContentType string
	Title       string
	Description string
	CategoryID  string
}

// UpdateInput carries an edit. A nil File means no re-submission; empty
// strings leave the corresponding field untouched.
type UpdateInput struct {
	File        io.Reader
	FileName    string
	Size        int64
	ContentType string
	Title       string
	Description string
	CategoryID  string
}

// DocumentDetail is a stored record joined with the metadata Paperless holds
// for it right now. PaperlessData is never persisted locally.
type DocumentDetail struct {
	model.Document
	PaperlessData       *paperless.RemoteDocument `json:"paperless_data,omitempty"`
	OriginalDownloadURL string                    `json:"original_download_url,omitempty"`
}

// SubmitResult is returned from Submit once the remote accepted the file.
type SubmitResult struct {
	Message  string          `json:"message"`
	TaskID   string          `json:"task_id"`
	Document *model.Document `json:"document"`
}

// StatusResult is the outcome of one reconciliation poll.
type StatusResult struct {
	Message  string          `json:"message"`
	Document *DocumentDetail `json:"document,omitempty"`
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	Total      int              `json:"total"`
	TotalPages int              `json:"total_pages"`
	Items      []DocumentDetail `json:"data"`
}

// DocumentService tracks each upload from submission through remote
// processing to terminal resolution, keeping the local record reconciled
// with the eventually-consistent remote state.
type DocumentService interface {
	// Submit retains the original, hands the file to Paperless and creates
	// the local record in SUBMITTED with the returned task handle.
	Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error)

	// CheckStatus polls the remote task once, translates its status and
	// applies the matching local transition. Polling is caller-driven; the
	// service never retries or polls in the background.
	CheckStatus(ctx context.Context, ownerID, taskID string) (*StatusResult, error)

	// Get returns a record with live remote metadata.
	Get(ctx context.Context, ownerID, id string) (*DocumentDetail, error)

	// List returns a page of records, each joined with live remote metadata
	// fetched in one bulk call.
	List(ctx context.Context, ownerID, categoryID string, importantOnly bool, page, limit int) (*DocumentListResult, error)

	// Update edits a record. A new file re-submits and resets the lifecycle;
	// a category-only change re-types the processed document synchronously.
	Update(ctx context.Context, ownerID, id string, in UpdateInput) (*DocumentDetail, error)

	// Delete removes the record, the remote document (if one was assigned)
	// and the retained original.
	Delete(ctx context.Context, ownerID, id string) error

	// SetImportant flips the importance flag.
	SetImportant(ctx context.Context, ownerID, id string, important bool) error

	// DownloadPDF streams the processed file from Paperless.
	DownloadPDF(ctx context.Context, ownerID, id string) (io.ReadCloser, string, error)
}

type documentService struct {
	remote     paperless.Client
	retention  storage.Retention
	repo       repository.DocumentRepository
	categories repository.CategoryRepository
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(remote paperless.Client, retention storage.Retention, repo repository.DocumentRepository, categories repository.CategoryRepository) DocumentService {
	return &documentService{
		remote:     remote,
		retention:  retention,
		repo:       repo,
		categories: categories,
	}
}

func (s *documentService) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	if in.File == nil {
		return nil, ErrFileRequired
	}

	cat, err := s.categories.FindByID(ctx, in.OwnerID, in.CategoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	// Retain the original before submitting: the upload stream can only be
	// read once, and the retained copy doubles as the recovery path should
	// the remote accept the file but the local write below fail.
	key := retentionKey(in.FileName)
	if err := s.retention.Save(ctx, key, in.File, storage.SaveOptions{
		Size:             in.Size,
		ContentType:      in.ContentType,
		OriginalFilename: in.FileName,
	}); err != nil {
		return nil, fmt.Errorf("retain original: %w", err)
	}

	taskID, err := s.submitRetained(ctx, key, in.FileName, in.Title, cat.DocumentTypeID, in.Description)
	if err != nil {
		return nil, err
	}

	title := in.Title
	if title == "" {
		title = in.FileName
	}

	now := time.Now().UTC()
	doc := &model.Document{
		ID:          uuid.New().String(),
		UserID:      in.OwnerID,
		Title:       title,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		TaskID:      taskID,
		DocumentID:  model.UnassignedDocumentID,
		ContentURL:  model.ContentURLProcessing,
		Status:      model.StatusSubmitted,
		StoragePath: key,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		// Paperless already owns the task at this point. There is no
		// compensating delete for an unfinished task, so record enough to
		// recover by hand from the retained original.
		log.Error().Err(err).
			Str("task_id", taskID).
			Str("storage_path", key).
			Msg("local record write failed after remote submission; remote task orphaned")
		return nil, fmt.Errorf("save record: %w", err)
	}

	return &SubmitResult{
		Message:  "Document upload started!",
		TaskID:   taskID,
		Document: stored,
	}, nil
}

// submitRetained streams a retained original to Paperless and returns the
// task handle.
func (s *documentService) submitRetained(ctx context.Context, key, fileName, title string, documentTypeID int, description string) (string, error) {
	rc, err := s.retention.Open(ctx, key)
	if err != nil {
		return "", fmt.Errorf("open retained original: %w", err)
	}
	defer rc.Close()

	taskID, err := s.remote.UploadDocument(ctx, rc, fileName, title, documentTypeID, description)
	if err != nil {
		return "", err
	}
	return taskID, nil
}

func (s *documentService) CheckStatus(ctx context.Context, ownerID, taskID string) (*StatusResult, error) {
	if taskID == "" {
		return nil, ErrIDRequired
	}

	doc, err := s.repo.FindByTaskID(ctx, ownerID, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	st, err := s.remote.GetTaskStatus(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		// Paperless has no record of the task yet; still pending.
		return &StatusResult{Message: "Document is still being processed."}, nil
	}

	outcome, err := paperless.TranslateStatus(st.Status)
	if err != nil {
		// A contract change or defect, never a processing result. Logged
		// distinctly so it cannot be mistaken for a remote failure.
		log.Error().
			Str("task_id", taskID).
			Str("raw_status", st.Status).
			Msg("unknown task status received from paperless")
		return nil, err
	}

	switch outcome {
	case paperless.OutcomeRunning:
		if doc.Status == model.StatusSubmitted {
			if _, err := s.repo.MarkRunning(ctx, ownerID, doc.ID); err != nil {
				return nil, err
			}
		}
		if st.Status == paperless.StatusStarted {
			return &StatusResult{Message: "Document processing has started."}, nil
		}
		return &StatusResult{Message: "Document is still being processed."}, nil

	case paperless.OutcomeFailed:
		if !doc.Status.Terminal() {
			// Remote identifiers stay untouched on failure; only the state
			// moves. The conditional write makes a concurrent loser a no-op.
			if _, err := s.repo.Finalize(ctx, ownerID, doc.ID, model.StatusFailed, doc.DocumentID, doc.ContentURL); err != nil {
				return nil, err
			}
		}
		return nil, ErrRemoteProcessing

	default: // success
		return s.finalizeSuccess(ctx, ownerID, doc, st)
	}
}

// finalizeSuccess applies the terminal success transition and joins the
// response with freshly fetched remote metadata.
func (s *documentService) finalizeSuccess(ctx context.Context, ownerID string, doc *model.Document, st *paperless.TaskStatus) (*StatusResult, error) {
	documentID, err := strconv.Atoi(st.RelatedDocument)
	if err != nil {
		return nil, fmt.Errorf("parse related document id %q: %w", st.RelatedDocument, err)
	}
	contentURL := s.remote.ContentURL(documentID)

	applied, err := s.repo.Finalize(ctx, ownerID, doc.ID, model.StatusSucceeded, documentID, contentURL)
	if err != nil {
		return nil, err
	}
	if applied {
		doc.Status = model.StatusSucceeded
		doc.DocumentID = documentID
		doc.ContentURL = contentURL
		doc.UpdatedAt = time.Now().UTC()
	} else {
		// A concurrent poll already finalized the record; re-read instead of
		// double-applying.
		doc, err = s.repo.FindByID(ctx, ownerID, doc.ID)
		if err != nil {
			return nil, err
		}
	}

	meta, err := s.remote.GetDocument(ctx, doc.DocumentID)
	if err != nil {
		return nil, err
	}

	return &StatusResult{
		Message: fmt.Sprintf("Document '%s' has been uploaded successfully!", doc.Title),
		Document: &DocumentDetail{
			Document:      *doc,
			PaperlessData: meta,
		},
	}, nil
}

func (s *documentService) Get(ctx context.Context, ownerID, id string) (*DocumentDetail, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	detail := &DocumentDetail{Document: *doc}
	if doc.DocumentID != model.UnassignedDocumentID {
		meta, err := s.remote.GetDocument(ctx, doc.DocumentID)
		if err != nil {
			return nil, err
		}
		detail.PaperlessData = meta
	}
	if doc.StoragePath != "" {
		url, err := s.retention.PresignDownload(ctx, doc.StoragePath, presignExpiry)
		if err != nil {
			log.Debug().Err(err).Str("storage_path", doc.StoragePath).Msg("presign retained original failed")
		} else {
			detail.OriginalDownloadURL = url
		}
	}
	return detail, nil
}

func (s *documentService) List(ctx context.Context, ownerID, categoryID string, importantOnly bool, page, limit int) (*DocumentListResult, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	res, err := s.repo.List(ctx, ownerID,
		repository.DocumentFilter{CategoryID: categoryID, ImportantOnly: importantOnly},
		repository.PageQuery{Limit: limit, Offset: (page - 1) * limit},
	)
	if err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(res.Items))
	for _, d := range res.Items {
		if d.DocumentID != model.UnassignedDocumentID {
			ids = append(ids, d.DocumentID)
		}
	}

	metaByID := make(map[int]paperless.RemoteDocument, len(ids))
	if len(ids) > 0 {
		metas, err := s.remote.GetDocuments(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, m := range metas {
			metaByID[m.ID] = m
		}
	}

	items := make([]DocumentDetail, 0, len(res.Items))
	for _, d := range res.Items {
		detail := DocumentDetail{Document: d}
		if m, ok := metaByID[d.DocumentID]; ok {
			meta := m
			detail.PaperlessData = &meta
		}
		items = append(items, detail)
	}

	return &DocumentListResult{
		Page:       page,
		Limit:      limit,
		Total:      res.Total,
		TotalPages: (res.Total + limit - 1) / limit,
		Items:      items,
	}, nil
}

func (s *documentService) Update(ctx context.Context, ownerID, id string, in UpdateInput) (*DocumentDetail, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	title := doc.Title
	if in.Title != "" {
		title = in.Title
	}
	categoryID := doc.CategoryID
	if in.CategoryID != "" {
		categoryID = in.CategoryID
	}

	exists, err := s.repo.Exists(ctx, ownerID, title, categoryID, doc.DocumentID, doc.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateDocument
	}

	hasFile := in.File != nil
	if hasFile || in.CategoryID != "" {
		cat, err := s.categories.FindByID(ctx, ownerID, categoryID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}

		if hasFile {
			if err := s.resubmit(ctx, doc, &in, cat.DocumentTypeID); err != nil {
				return nil, err
			}
		} else {
			// Metadata-only edit: no new file means no async round trip.
			// Paperless acknowledges the re-type synchronously, so the
			// lifecycle goes straight to SUCCEEDED.
			if doc.DocumentID == model.UnassignedDocumentID {
				return nil, ErrNotProcessed
			}
			if err := s.remote.SetDocumentType(ctx, doc.DocumentID, cat.DocumentTypeID); err != nil {
				return nil, err
			}
			doc.Status = model.StatusSucceeded
		}
		doc.CategoryID = categoryID
	}

	doc.Title = title
	if in.Description != "" {
		doc.Description = in.Description
	}
	doc.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, err
	}

	detail := &DocumentDetail{Document: *doc}
	if doc.Status == model.StatusSucceeded && doc.DocumentID != model.UnassignedDocumentID {
		meta, err := s.remote.GetDocument(ctx, doc.DocumentID)
		if err != nil {
			return nil, err
		}
		detail.PaperlessData = meta
	}
	return detail, nil
}

// resubmit sends a replacement file to Paperless and resets the record's
// lifecycle: new task handle, remote id back to the unassigned sentinel,
// state back to SUBMITTED.
func (s *documentService) resubmit(ctx context.Context, doc *model.Document, in *UpdateInput, documentTypeID int) error {
	key := retentionKey(in.FileName)
	if err := s.retention.Save(ctx, key, in.File, storage.SaveOptions{
		Size:             in.Size,
		ContentType:      in.ContentType,
		OriginalFilename: in.FileName,
	}); err != nil {
		return fmt.Errorf("retain original: %w", err)
	}

	taskID, err := s.submitRetained(ctx, key, in.FileName, in.Title, documentTypeID, in.Description)
	if err != nil {
		return err
	}

	if doc.StoragePath != "" && doc.StoragePath != key {
		if err := s.retention.Remove(ctx, doc.StoragePath); err != nil {
			log.Warn().Err(err).Str("storage_path", doc.StoragePath).Msg("remove superseded retained original failed")
		}
	}

	doc.TaskID = taskID
	doc.DocumentID = model.UnassignedDocumentID
	doc.ContentURL = model.ContentURLProcessing
	doc.Status = model.StatusSubmitted
	doc.StoragePath = key
	return nil
}

func (s *documentService) Delete(ctx context.Context, ownerID, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	// Remote deletion is not idempotent, so it happens exactly once, and
	// only for records that ever got a remote document assigned.
	if doc.DocumentID != model.UnassignedDocumentID {
		if err := s.remote.DeleteDocument(ctx, doc.DocumentID); err != nil {
			return err
		}
	}

	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}

	if doc.StoragePath != "" {
		if err := s.retention.Remove(ctx, doc.StoragePath); err != nil {
			log.Warn().Err(err).Str("storage_path", doc.StoragePath).Msg("remove retained original failed")
		}
	}
	return nil
}

func (s *documentService) SetImportant(ctx context.Context, ownerID, id string, important bool) error {
	if id == "" {
		return ErrIDRequired
	}
	if err := s.repo.SetImportant(ctx, ownerID, id, important); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *documentService) DownloadPDF(ctx context.Context, ownerID, id string) (io.ReadCloser, string, error) {
	doc, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}
	if doc.ContentURL == "" || doc.ContentURL == model.ContentURLProcessing {
		return nil, "", ErrFileNotReady
	}

	rc, err := s.remote.DownloadDocument(ctx, doc.ContentURL)
	if err != nil {
		return nil, "", err
	}
	return rc, doc.Title + ".pdf", nil
}

// retentionKey builds the object key for a retained original: UUID plus the
// upload's extension, under a fixed prefix.
func retentionKey(fileName string) string {
	return filepath.ToSlash(filepath.Join("documents", uuid.New().String()+filepath.Ext(fileName)))
}
