package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/phuwanat/devicehub/internal/models"
)

// Indexer is the subset the device handlers need to keep the search
// index in sync with catalog mutations.
type Indexer interface {
	IndexDevice(ctx context.Context, d models.Device) error
	DeleteDevice(ctx context.Context, id uint) error
}

type Service struct {
	ES    *elasticsearch.Client
	Index string
}

func New(es *elasticsearch.Client, index string) *Service {
	return &Service{ES: es, Index: index}
}

func (s *Service) Search(ctx context.Context, query string, from, size int) (int64, []models.Device, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "brand", "model", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(s.Index),
		s.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct{ Value int64 } `json:"total"`
			Hits  []struct {
				Source models.Device `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	devices := make([]models.Device, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		devices[i] = hit.Source
	}
	return r.Hits.Total.Value, devices, nil
}

func (s *Service) IndexDevice(ctx context.Context, d models.Device) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("index device: %w", err)
	}

	res, err := s.ES.Index(
		s.Index,
		bytes.NewReader(data),
		s.ES.Index.WithDocumentID(strconv.FormatUint(uint64(d.ID), 10)),
		s.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index device: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index device: %s", res.Status())
	}
	return nil
}

func (s *Service) DeleteDevice(ctx context.Context, id uint) error {
	res, err := s.ES.Delete(
		s.Index,
		strconv.FormatUint(uint64(id), 10),
		s.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete device: %w", err)
	}
	defer res.Body.Close()

	// 404 means the document was never indexed, nothing to undo.
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete device: %s", res.Status())
	}
	return nil
}
