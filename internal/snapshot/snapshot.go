// Package snapshot serialises introspected schemas to YAML and publishes
// them to object storage.
package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/sqlens/sqlens/internal/filestore"
	"github.com/sqlens/sqlens/internal/logger"
	"github.com/sqlens/sqlens/internal/schema"
)

const contentType = "application/yaml"

// downloadTTL bounds how long a published snapshot's download URL stays
// valid.
const downloadTTL = 15 * time.Minute

// Exporter builds schema snapshots and writes them to a filestore bucket.
type Exporter struct {
	reader schema.Reader
	store  filestore.Store
	bucket string
	dbName string
	log    *logger.Logger
}

// Result describes one published snapshot. URL is a time-limited download
// link for the uploaded document.
type Result struct {
	Key    string `json:"key"`
	Bucket string `json:"bucket"`
	Size   int64  `json:"size"`
	Tables int    `json:"tables"`
	URL    string `json:"url"`
}

// New creates an Exporter that snapshots reader into bucket under store.
// dbName namespaces the object keys so one bucket can hold snapshots of
// several databases.
func New(reader schema.Reader, store filestore.Store, bucket, dbName string, log *logger.Logger) *Exporter {
	if log == nil {
		log = logger.New(nil)
	}
	return &Exporter{
		reader: reader,
		store:  store,
		bucket: bucket,
		dbName: dbName,
		log:    log,
	}
}

// Export introspects the full schema, encodes it as YAML, and uploads it.
// The object key is snapshots/<db>/<timestamp>.yaml.
func (e *Exporter) Export(ctx context.Context) (*Result, error) {
	snap, err := schema.Inspect(ctx, e.reader, e.dbName)
	if err != nil {
		return nil, fmt.Errorf("inspecting schema: %w", err)
	}

	doc, err := Encode(snap)
	if err != nil {
		return nil, err
	}

	if err := e.store.EnsureBucket(ctx, e.bucket); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("snapshots/%s/%s.yaml", e.dbName, snap.GeneratedAt.Format("20060102T150405Z"))
	if err := e.store.PutObject(ctx, e.bucket, key, bytes.NewReader(doc), int64(len(doc)), contentType); err != nil {
		return nil, err
	}

	// Confirm the upload landed and take the stored size as authoritative.
	info, err := e.store.StatObject(ctx, e.bucket, key)
	if err != nil {
		return nil, fmt.Errorf("verifying snapshot %s: %w", key, err)
	}

	url, err := e.store.PresignGetURL(ctx, e.bucket, key, downloadTTL)
	if err != nil {
		return nil, fmt.Errorf("presigning snapshot %s: %w", key, err)
	}

	e.log.With().
		Str("bucket", e.bucket).
		Str("key", key).
		Int("tables", len(snap.Tables)).
		Logger().
		Info("schema snapshot published")

	return &Result{
		Key:    key,
		Bucket: e.bucket,
		Size:   info.Size,
		Tables: len(snap.Tables),
		URL:    url,
	}, nil
}

// Encode marshals a snapshot to its YAML document form.
func Encode(snap *schema.Snapshot) ([]byte, error) {
	doc, err := yaml.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return doc, nil
}

// Decode parses a YAML snapshot document, the inverse of Encode.
func Decode(doc []byte) (*schema.Snapshot, error) {
	var snap schema.Snapshot
	if err := yaml.Unmarshal(doc, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &snap, nil
}
