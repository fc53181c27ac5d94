// Package archive stores rendered dump payloads in an S3-compatible bucket.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const keyPrefix = "dns-dumps/"

// Config contains connection settings for the archive bucket.
type Config struct {
	Endpoint         string
	AccessKey        string
	SecretKey        string
	Bucket           string
	UseSSL           bool
	BucketPath       string // optional path prefix within the bucket
	HTTPTimeout      time.Duration
	AutoCreateBucket bool
}

// Manager uploads, lists, and fetches dump archives.
type Manager struct {
	client *minio.Client
	config *Config
}

// Entry describes one stored dump archive.
type Entry struct {
	Key          string    `json:"key"`
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// NewManager returns a Manager; the connection is established lazily.
func NewManager(config *Config) *Manager {
	return &Manager{config: config}
}

func (m *Manager) init(ctx context.Context) error {
	if m.client != nil {
		return nil
	}
	if m.config == nil || m.config.Endpoint == "" {
		return fmt.Errorf("archive endpoint is not configured")
	}

	tr := &http.Transport{
		IdleConnTimeout:     5 * time.Minute,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
	}
	if m.config.HTTPTimeout > 0 {
		tr.ResponseHeaderTimeout = m.config.HTTPTimeout
	}

	client, err := minio.New(m.config.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(m.config.AccessKey, m.config.SecretKey, ""),
		Secure:    m.config.UseSSL,
		Transport: tr,
	})
	if err != nil {
		return fmt.Errorf("create archive client: %w", err)
	}
	m.client = client

	exists, err := m.client.BucketExists(ctx, m.config.Bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if !m.config.AutoCreateBucket {
			return fmt.Errorf("bucket %s does not exist", m.config.Bucket)
		}
		if err := m.client.MakeBucket(ctx, m.config.Bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", m.config.Bucket, err)
		}
	}
	return nil
}

// Put uploads a dump payload and returns the generated object key. The name
// identifies what was dumped (a zone name, or "zones" for the full listing);
// format picks the key extension and content type.
func (m *Manager) Put(ctx context.Context, name string, payload []byte, format string) (string, error) {
	if err := m.init(ctx); err != nil {
		return "", err
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("refusing to upload an empty dump")
	}

	key := objectKey(name, format, time.Now().UTC())
	if m.config.BucketPath != "" {
		key = filepath.Join(m.config.BucketPath, key)
	}

	_, err := m.client.PutObject(ctx, m.config.Bucket, key,
		bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
			ContentType: contentType(format),
		})
	if err != nil {
		return "", fmt.Errorf("upload dump: %w", err)
	}
	return key, nil
}

// List returns stored dump archives, newest first.
func (m *Manager) List(ctx context.Context, prefix string, limit int) ([]Entry, error) {
	if err := m.init(ctx); err != nil {
		return nil, err
	}

	if prefix != "" && !strings.HasPrefix(prefix, keyPrefix) {
		prefix = keyPrefix + prefix
	} else if prefix == "" {
		prefix = keyPrefix
	}
	if m.config.BucketPath != "" {
		prefix = filepath.Join(m.config.BucketPath, prefix)
	}

	var entries []Entry
	for obj := range m.client.ListObjects(ctx, m.config.Bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list archives: %w", obj.Err)
		}
		entries = append(entries, Entry{
			Key:          obj.Key,
			Name:         extractDumpName(obj.Key),
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
		if limit > 0 && len(entries) >= limit {
			break
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LastModified.After(entries[j].LastModified)
	})
	return entries, nil
}

// Get downloads a stored dump payload.
func (m *Manager) Get(ctx context.Context, key string) ([]byte, error) {
	if err := m.init(ctx); err != nil {
		return nil, err
	}
	object, err := m.client.GetObject(ctx, m.config.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetch archive: %w", err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	return data, nil
}

// Delete removes stored dump archives.
func (m *Manager) Delete(ctx context.Context, keys []string) error {
	if err := m.init(ctx); err != nil {
		return err
	}
	for _, key := range keys {
		if err := m.client.RemoveObject(ctx, m.config.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return nil
}

func objectKey(name, format string, now time.Time) string {
	return fmt.Sprintf("%s%s-%s.%s", keyPrefix, sanitizeName(name), now.Format("20060102-150405"), extension(format))
}

func sanitizeName(name string) string {
	name = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), ".")
	if name == "" {
		return "dump"
	}
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteRune('-')
		}
	}
	clean := strings.Trim(b.String(), "-")
	if clean == "" {
		return "dump"
	}
	return clean
}

func extension(format string) string {
	switch strings.ToLower(format) {
	case "csv":
		return "csv"
	case "yaml", "yml":
		return "yaml"
	default:
		return "json"
	}
}

func contentType(format string) string {
	switch strings.ToLower(format) {
	case "csv":
		return "text/csv"
	case "yaml", "yml":
		return "application/yaml"
	default:
		return "application/json"
	}
}

// extractDumpName recovers the dump name from a stored key shaped like
// dns-dumps/{name}-YYYYMMDD-HHMMSS.{ext}.
func extractDumpName(key string) string {
	filename := filepath.Base(key)
	name := strings.TrimSuffix(filename, filepath.Ext(filename))

	// The timestamp suffix is exactly -8digits-6digits.
	if len(name) > 16 {
		suffix := name[len(name)-16:]
		if suffix[0] == '-' && suffix[9] == '-' && isDigits(suffix[1:9]) && isDigits(suffix[10:16]) {
			return name[:len(name)-16]
		}
	}
	return name
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
