package search

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/samber/oops"

	"github.com/a704/dodream-backend/internal/application"
)

// TeacherDirectory keeps a name-searchable copy of teacher accounts in Elasticsearch.
type TeacherDirectory struct {
	ES        *elasticsearch.Client
	IndexName string
	Timeout   time.Duration
}

func NewTeacherDirectory(es *elasticsearch.Client, index string) *TeacherDirectory {
	return &TeacherDirectory{ES: es, IndexName: index, Timeout: 3 * time.Second}
}

type teacherSource struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// Index upserts doc under its user id.
func (d *TeacherDirectory) Index(ctx context.Context, doc application.TeacherDoc) error {
	b, err := json.Marshal(teacherSource{
		ID:        doc.ID,
		Name:      doc.Name,
		CreatedAt: doc.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: d.IndexName, DocumentID: doc.ID, Body: bytes.NewReader(b), Refresh: "false"}

	c, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()
	res, err := req.Do(c, d.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return oops.Code("SEARCH_INDEX").With("user_id", doc.ID).Errorf("elasticsearch index: %s", res.Status())
	}
	return nil
}

// Search runs a fuzzy match on name.
func (d *TeacherDirectory) Search(ctx context.Context, q string, size int) ([]application.TeacherDoc, error) {
	query := map[string]any{
		"query": map[string]any{
			"match": map[string]any{
				"name": map[string]any{"query": q, "fuzziness": "AUTO"},
			},
		},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()
	res, err := d.ES.Search(
		d.ES.Search.WithContext(c),
		d.ES.Search.WithIndex(d.IndexName),
		d.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, oops.Code("SEARCH_QUERY").Errorf("elasticsearch search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source teacherSource `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]application.TeacherDoc, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		created, _ := time.Parse(time.RFC3339Nano, h.Source.CreatedAt)
		out = append(out, application.TeacherDoc{ID: h.Source.ID, Name: h.Source.Name, CreatedAt: created})
	}
	return out, nil
}

var _ application.TeacherDirectory = (*TeacherDirectory)(nil)
