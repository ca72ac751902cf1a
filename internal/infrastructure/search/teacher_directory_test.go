package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a704/dodream-backend/config"
	"github.com/a704/dodream-backend/internal/application"
)

type esCall struct {
	method, path, body string
}

// fakeES answers like an Elasticsearch node and records requests.
func fakeES(t *testing.T, status int, reply string) (*elasticsearch.Client, *[]esCall) {
	t.Helper()
	calls := &[]esCall{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		*calls = append(*calls, esCall{r.Method, r.URL.Path, string(b)})
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es, calls
}

func TestTeacherDirectory_Index(t *testing.T) {
	es, calls := fakeES(t, http.StatusCreated, `{"result":"created"}`)
	d := NewTeacherDirectory(es, "teachers")

	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	err := d.Index(context.Background(), application.TeacherDoc{ID: "u1", Name: "Kim", CreatedAt: created})
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, http.MethodPut, call.method)
	assert.Equal(t, "/teachers/_doc/u1", call.path)
	assert.JSONEq(t, `{"id":"u1","name":"Kim","created_at":"2024-03-01T09:00:00Z"}`, call.body)
}

func TestTeacherDirectory_IndexError(t *testing.T) {
	es, _ := fakeES(t, http.StatusBadRequest, `{"error":"bad"}`)
	d := NewTeacherDirectory(es, "teachers")

	err := d.Index(context.Background(), application.TeacherDoc{ID: "u1", Name: "Kim"})
	assert.Error(t, err)
}

func TestTeacherDirectory_Search(t *testing.T) {
	es, calls := fakeES(t, http.StatusOK, `{"hits":{"hits":[
		{"_id":"u1","_source":{"id":"u1","name":"Kim","created_at":"2024-03-01T09:00:00Z"}},
		{"_id":"u2","_source":{"id":"u2","name":"Kimura","created_at":"bad"}}
	]}}`)
	d := NewTeacherDirectory(es, "teachers")

	hits, err := d.Search(context.Background(), "kim", 5)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "Kim", hits[0].Name)
	assert.Equal(t, 2024, hits[0].CreatedAt.Year())
	assert.True(t, hits[1].CreatedAt.IsZero())

	call := (*calls)[0]
	assert.True(t, strings.HasSuffix(call.path, "/teachers/_search"))
	var q map[string]any
	require.NoError(t, json.Unmarshal([]byte(call.body), &q))
	assert.EqualValues(t, 5, q["size"])
}

func TestNewClient(t *testing.T) {
	es, err := NewClient(config.SearchConfig{})
	require.NoError(t, err)
	assert.Nil(t, es, "no address disables search")

	es, err = NewClient(config.SearchConfig{Addrs: "http://localhost:9200, http://localhost:9201"})
	require.NoError(t, err)
	assert.NotNil(t, es)
}
