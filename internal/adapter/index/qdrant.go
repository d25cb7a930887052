package index

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"docsearch/internal/domain"
	"docsearch/internal/port"
)

// Payload keys reserved by the adapter; everything else in a point payload
// is caller metadata.
const (
	payloadDocID = "doc_id"
	payloadText  = "text"
)

// QdrantConfig holds Qdrant connection configuration.
type QdrantConfig struct {
	// URL is the Qdrant server address (e.g. "https://example.qdrant.io:6334").
	URL string

	// Collection is the name of the collection to use.
	Collection string

	// APIKey is an optional API key for authentication.
	APIKey string

	// Dimension is the vector size the collection is created with.
	Dimension int
}

// QdrantIndex implements port.VectorIndex against a Qdrant collection.
// Qdrant point ids must be numeric or UUID, so document ids are mapped to
// deterministic UUIDs and the original id travels in the payload.
type QdrantIndex struct {
	client     *qdrant.Client
	collection string
	dimension  int
}

// NewQdrantIndex connects to Qdrant and ensures the collection exists with
// cosine distance and the configured dimension.
func NewQdrantIndex(ctx context.Context, cfg QdrantConfig) (*QdrantIndex, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("qdrant url is required")
	}

	parsedURL := cfg.URL
	if !strings.HasPrefix(parsedURL, "http://") && !strings.HasPrefix(parsedURL, "https://") {
		parsedURL = "https://" + parsedURL
	}

	u, err := url.Parse(parsedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse qdrant url: %w", err)
	}

	host := u.Hostname()
	port := 6334 // default gRPC port
	if u.Port() != "" {
		p, err := strconv.Atoi(u.Port())
		if err != nil {
			return nil, fmt.Errorf("invalid port: %w", err)
		}
		port = p
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: u.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	idx := &QdrantIndex{
		client:     client,
		collection: cfg.Collection,
		dimension:  cfg.Dimension,
	}
	if err := idx.ensureCollection(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return idx, nil
}

// ensureCollection creates the collection if it does not exist. The
// distance metric is fixed here, at creation time, not per query.
func (s *QdrantIndex) ensureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("%w: check collection: %v", domain.ErrIndex, err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(s.dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("%w: create collection: %v", domain.ErrIndex, err)
	}
	return nil
}

// Upsert implements port.VectorIndex.
func (s *QdrantIndex) Upsert(ctx context.Context, entries []port.Entry) error {
	points := make([]*qdrant.PointStruct, 0, len(entries))
	for _, e := range entries {
		payload := map[string]any{
			payloadDocID: e.ID,
			payloadText:  e.Text,
		}
		for k, v := range e.Metadata {
			if k == payloadDocID || k == payloadText {
				continue
			}
			payload[k] = v
		}

		points = append(points, &qdrant.PointStruct{
			Id:      pointID(e.ID),
			Vectors: qdrant.NewVectors(e.Vector...),
			Payload: qdrant.NewValueMap(payload),
		})
	}

	wait := true
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
		Wait:           &wait,
	})
	if err != nil {
		return fmt.Errorf("%w: upsert: %v", domain.ErrIndex, err)
	}
	return nil
}

// DeleteByIDs implements port.VectorIndex. Qdrant treats deletion of
// absent points as a no-op, which matches the idempotence contract.
func (s *QdrantIndex) DeleteByIDs(ctx context.Context, ids []string) error {
	pointIDs := make([]*qdrant.PointId, 0, len(ids))
	for _, id := range ids {
		pointIDs = append(pointIDs, pointID(id))
	}

	wait := true
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Points:         qdrant.NewPointsSelector(pointIDs...),
		Wait:           &wait,
	})
	if err != nil {
		return fmt.Errorf("%w: delete: %v", domain.ErrIndex, err)
	}
	return nil
}

// GetByID implements port.VectorIndex.
func (s *QdrantIndex) GetByID(ctx context.Context, id string) (port.Match, bool, error) {
	points, err := s.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: s.collection,
		Ids:            []*qdrant.PointId{pointID(id)},
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return port.Match{}, false, fmt.Errorf("%w: get: %v", domain.ErrIndex, err)
	}
	if len(points) == 0 {
		return port.Match{}, false, nil
	}

	match := matchFromPayload(points[0].Payload)
	match.Score = 1.0 // identity lookup, not a similarity comparison
	if match.ID == "" {
		match.ID = id
	}
	return match, true, nil
}

// Query implements port.VectorIndex.
func (s *QdrantIndex) Query(ctx context.Context, vector []float32, limit int) ([]port.Match, error) {
	limitUint64 := uint64(limit)
	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limitUint64,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", domain.ErrIndex, err)
	}

	matches := make([]port.Match, 0, len(points))
	for _, point := range points {
		match := matchFromPayload(point.Payload)
		match.Score = point.Score
		matches = append(matches, match)
	}
	return matches, nil
}

// Close implements port.VectorIndex.
func (s *QdrantIndex) Close() error {
	return s.client.Close()
}

// pointID derives a stable UUID point id from a document id.
func pointID(id string) *qdrant.PointId {
	u := uuid.NewSHA1(uuid.NameSpaceOID, []byte(id)).String()
	return &qdrant.PointId{
		PointIdOptions: &qdrant.PointId_Uuid{Uuid: u},
	}
}

// matchFromPayload splits a point payload into the reserved fields and
// caller metadata. Score is left for the caller to fill.
func matchFromPayload(payload map[string]*qdrant.Value) port.Match {
	match := port.Match{}
	for k, v := range payload {
		switch k {
		case payloadDocID:
			match.ID = v.GetStringValue()
		case payloadText:
			match.Text = v.GetStringValue()
		default:
			if match.Metadata == nil {
				match.Metadata = make(map[string]string)
			}
			match.Metadata[k] = v.GetStringValue()
		}
	}
	return match
}
