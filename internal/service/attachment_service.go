package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"spatialboard/internal/config"
	"spatialboard/internal/repository"
)

// AttachmentFile is one image carried by a save request.
type AttachmentFile struct {
	Name string
	MIME string
	Data []byte
}

// Sink uploads one attachment and returns a shareable URL.
type Sink interface {
	Upload(ctx context.Context, filename, mime string, data []byte) (string, error)
	Enabled() bool
}

// AttachmentService runs best-effort uploads for a save: per-file failures
// are logged and skipped, never fatal to the save itself.
type AttachmentService struct {
	sink Sink
}

func NewAttachmentService(sink Sink) *AttachmentService {
	return &AttachmentService{sink: sink}
}

// UploadAll returns the URLs of the files that uploaded successfully, in
// input order. With no sink configured it returns an empty list without
// error.
func (s *AttachmentService) UploadAll(ctx context.Context, files []AttachmentFile) []string {
	urls := make([]string, 0, len(files))
	if !s.sink.Enabled() {
		return urls
	}
	for _, f := range files {
		url, err := s.sink.Upload(ctx, f.Name, f.MIME, f.Data)
		if err != nil {
			log.Printf("attachment upload failed for %s: %v", f.Name, err)
			continue
		}
		urls = append(urls, url)
	}
	return urls
}

// driveSink uploads to a folder in Google Drive via the multipart upload
// endpoint and returns viewer links.
type driveSink struct {
	cfg    config.DriveConfig
	client *http.Client
}

func NewDriveSink(cfg config.DriveConfig) Sink {
	return &driveSink{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *driveSink) Enabled() bool { return s.cfg.Configured() }

func (s *driveSink) Upload(ctx context.Context, filename, mime string, data []byte) (string, error) {
	var buf bytes.Buffer
	mp := multipart.NewWriter(&buf)

	meta, err := mp.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"application/json; charset=UTF-8"},
	})
	if err != nil {
		return "", err
	}
	metadata := map[string]interface{}{
		"name":    filename,
		"parents": []string{s.cfg.FolderID},
	}
	if err := json.NewEncoder(meta).Encode(metadata); err != nil {
		return "", err
	}

	content, err := mp.CreatePart(textproto.MIMEHeader{
		"Content-Type": {mime},
	})
	if err != nil {
		return "", err
	}
	if _, err := content.Write(data); err != nil {
		return "", err
	}
	if err := mp.Close(); err != nil {
		return "", err
	}

	url := s.cfg.UploadURL + "?uploadType=multipart&fields=id"
	req, err := http.NewRequestWithContext(ctx, "POST", url, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "multipart/related; boundary="+mp.Boundary())
	req.Header.Set("Authorization", "Bearer "+s.cfg.AccessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("drive upload status %d: %s", resp.StatusCode, body)
	}

	var uploaded struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &uploaded); err != nil {
		return "", fmt.Errorf("parse drive response: %w", err)
	}
	if uploaded.ID == "" {
		return "", fmt.Errorf("drive upload returned no file id")
	}
	return "https://drive.google.com/file/d/" + uploaded.ID + "/view", nil
}

// blobSink stores attachments in the Mongo blob store and mints links the
// server itself serves from /v1/files/{id}.
type blobSink struct {
	repo    repository.AttachmentRepo
	baseURL string
}

func NewBlobSink(repo repository.AttachmentRepo, baseURL string) Sink {
	return &blobSink{repo: repo, baseURL: baseURL}
}

func (s *blobSink) Enabled() bool { return s.repo != nil }

func (s *blobSink) Upload(ctx context.Context, filename, mime string, data []byte) (string, error) {
	id, err := s.repo.Save(ctx, filename, mime, data)
	if err != nil {
		return "", err
	}
	return s.baseURL + "/v1/files/" + id, nil
}

// disabledSink is used when neither Drive nor Mongo is configured; saves
// then proceed with empty file link lists.
type disabledSink struct{}

func NewDisabledSink() Sink { return disabledSink{} }

func (disabledSink) Enabled() bool { return false }

func (disabledSink) Upload(context.Context, string, string, []byte) (string, error) {
	return "", fmt.Errorf("attachment sink not configured")
}
