package paperless

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llsaimur/papertrails/internal/config"
)

func newTestClient(t *testing.T, handler http.Handler) (Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cli, err := NewClient(config.PaperlessConfig{
		URL:        srv.URL,
		APIKey:     "test-key",
		TimeoutSec: 5,
	}, prometheus.NewRegistry())
	require.NoError(t, err)
	return cli, srv
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(config.PaperlessConfig{APIKey: "k"}, nil)
	assert.Error(t, err)

	_, err = NewClient(config.PaperlessConfig{URL: "http://paperless"}, nil)
	assert.Error(t, err)
}

func TestUploadDocument(t *testing.T) {
	cli, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/documents/post_document/", r.URL.Path)
		assert.Equal(t, "Token test-key", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, fh, err := r.FormFile("document")
		require.NoError(t, err)
		defer f.Close()
		content, _ := io.ReadAll(f)

		assert.Equal(t, "invoice.pdf", fh.Filename)
		assert.Equal(t, "hello", string(content))
		assert.Equal(t, "Invoice", r.FormValue("title"))
		assert.Equal(t, "7", r.FormValue("document_type"))
		assert.Equal(t, "march invoice", r.FormValue("description"))

		json.NewEncoder(w).Encode("abc123")
	}))

	taskID, err := cli.UploadDocument(context.Background(), readerOf("hello"), "invoice.pdf", "Invoice", 7, "march invoice")
	require.NoError(t, err)
	assert.Equal(t, "abc123", taskID)
}

func TestUploadDocument_Rejected(t *testing.T) {
	cli, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"unsupported file type"}`, http.StatusBadRequest)
	}))

	_, err := cli.UploadDocument(context.Background(), readerOf("x"), "x.bin", "", 1, "")
	assert.ErrorIs(t, err, ErrRemoteRejected)

	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusBadRequest, re.StatusCode)
	assert.Contains(t, re.Body, "unsupported file type")
}

func TestGetTaskStatus(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		cli, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/tasks/", r.URL.Path)
			assert.Equal(t, "abc123", r.URL.Query().Get("task_id"))
			json.NewEncoder(w).Encode([]map[string]any{{
				"task_id":          "abc123",
				"status":           "SUCCESS",
				"related_document": "42",
			}})
		}))

		st, err := cli.GetTaskStatus(context.Background(), "abc123")
		require.NoError(t, err)
		require.NotNil(t, st)
		assert.Equal(t, "SUCCESS", st.Status)
		assert.Equal(t, "42", st.RelatedDocument)
	})

	t.Run("no record yet", func(t *testing.T) {
		cli, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]any{})
		}))

		st, err := cli.GetTaskStatus(context.Background(), "abc123")
		assert.NoError(t, err)
		assert.Nil(t, st)
	})
}

func TestGetDocument(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		cli, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/documents/42/", r.URL.Path)
			json.NewEncoder(w).Encode(map[string]any{"id": 42, "title": "Invoice"})
		}))

		doc, err := cli.GetDocument(context.Background(), 42)
		require.NoError(t, err)
		assert.Equal(t, 42, doc.ID)
		assert.Equal(t, "Invoice", doc.Title)
	})

	t.Run("not found", func(t *testing.T) {
		cli, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))

		_, err := cli.GetDocument(context.Background(), 99)
		assert.ErrorIs(t, err, ErrRemoteNotFound)
	})
}

func TestGetDocuments(t *testing.T) {
	cli, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "42,43", r.URL.Query().Get("id__in"))
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{{"id": 42}, {"id": 43}},
		})
	}))

	docs, err := cli.GetDocuments(context.Background(), []int{42, 43})
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	// Empty input never hits the network.
	docs, err = cli.GetDocuments(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, docs)
}

func TestSetDocumentType(t *testing.T) {
	cli, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents/bulk_edit/", r.URL.Path)

		var req bulkEditRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []int{42}, req.Documents)
		assert.Equal(t, "set_document_type", req.Method)
		assert.Equal(t, float64(9), req.Parameters["document_type"])

		w.WriteHeader(http.StatusOK)
	}))

	err := cli.SetDocumentType(context.Background(), 42, 9)
	assert.NoError(t, err)
}

func TestDocumentTypes(t *testing.T) {
	cli, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/document_types/":
			json.NewEncoder(w).Encode(DocumentType{ID: 5, Name: "Invoices"})
		case r.Method == http.MethodPut && r.URL.Path == "/document_types/5/":
			json.NewEncoder(w).Encode(DocumentType{ID: 5, Name: "Bills"})
		case r.Method == http.MethodDelete && r.URL.Path == "/document_types/5/":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))

	ctx := context.Background()

	dt, err := cli.CreateDocumentType(ctx, "Invoices")
	require.NoError(t, err)
	assert.Equal(t, 5, dt.ID)

	dt, err = cli.UpdateDocumentType(ctx, 5, "Bills")
	require.NoError(t, err)
	assert.Equal(t, "Bills", dt.Name)

	assert.NoError(t, cli.DeleteDocumentType(ctx, 5))
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on

	cli, err := NewClient(config.PaperlessConfig{URL: srv.URL, APIKey: "k", TimeoutSec: 1}, prometheus.NewRegistry())
	require.NoError(t, err)

	_, err = cli.GetTaskStatus(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrRemoteUnreachable)
}

func TestContentURL(t *testing.T) {
	cli, err := NewClient(config.PaperlessConfig{URL: "http://paperless:8000/", APIKey: "k"}, prometheus.NewRegistry())
	require.NoError(t, err)

	assert.Equal(t, "http://paperless:8000/documents/42/download/", cli.ContentURL(42))
}

func readerOf(s string) io.Reader {
	return &oneShotReader{data: []byte(s)}
}

// oneShotReader mimics an upload stream that cannot be re-read.
type oneShotReader struct {
	data []byte
	off  int
}

func (r *oneShotReader) Read(p []byte) (int, error) {
	if r.off >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.off:])
	r.off += n
	return n, nil
}
