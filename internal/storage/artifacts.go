package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service is the domain-aware layer over the object store: it knows which
// bucket holds which artifact class.
type Service struct {
	store          ObjectStore
	bucketQRCodes  string
	bucketEvidence string
	bucketFiles    string
}

// NewService creates the storage service for the portal's three buckets.
func NewService(store ObjectStore, cfg Config) *Service {
	return &Service{
		store:          store,
		bucketQRCodes:  cfg.GetMinioBucketQRCodes(),
		bucketEvidence: cfg.GetMinioBucketEvidence(),
		bucketFiles:    cfg.GetMinioBucketSeminarFiles(),
	}
}

// EnsureBuckets creates the portal buckets on startup.
func (s *Service) EnsureBuckets(ctx context.Context) error {
	for _, bucket := range []string{s.bucketQRCodes, s.bucketEvidence, s.bucketFiles} {
		if err := s.store.EnsureBucketExists(ctx, bucket); err != nil {
			return err
		}
	}
	return nil
}

// UploadQRCode stores a rendered QR PNG for a schedule and returns its key.
func (s *Service) UploadQRCode(ctx context.Context, scheduleID uuid.UUID, png []byte) (string, error) {
	fileName := fmt.Sprintf("%s.png", scheduleID)
	return s.store.UploadFile(ctx, s.bucketQRCodes, "schedules", fileName, "image/png",
		bytes.NewReader(png), int64(len(png)))
}

// SeminarFileUploadURL presigns an upload slot for a seminar document.
func (s *Service) SeminarFileUploadURL(ctx context.Context, studentID uuid.UUID, fileName, contentType string, sizeBytes int64) (*PresignedURL, error) {
	return s.store.GenerateUploadURL(ctx, s.bucketFiles, studentID.String(), fileName, contentType, sizeBytes)
}

// EvidenceUploadURL presigns an upload slot for attendance revision
// evidence. Only images are accepted.
func (s *Service) EvidenceUploadURL(ctx context.Context, studentID uuid.UUID, fileName, contentType string, sizeBytes int64) (*PresignedURL, error) {
	if !IsImageContentType(contentType) {
		return nil, fmt.Errorf("evidence must be an image, got %q", contentType)
	}
	return s.store.GenerateUploadURL(ctx, s.bucketEvidence, studentID.String(), fileName, contentType, sizeBytes)
}

// SeminarFileDownloadURL presigns a download for a seminar document.
func (s *Service) SeminarFileDownloadURL(ctx context.Context, fileKey string) (*PresignedURL, error) {
	return s.store.GenerateDownloadURL(ctx, s.bucketFiles, fileKey)
}

// EvidenceDownloadURL presigns a download for revision evidence.
func (s *Service) EvidenceDownloadURL(ctx context.Context, fileKey string) (*PresignedURL, error) {
	return s.store.GenerateDownloadURL(ctx, s.bucketEvidence, fileKey)
}

// QRCodeDownloadURL presigns a download for a schedule's QR artifact.
func (s *Service) QRCodeDownloadURL(ctx context.Context, fileKey string) (*PresignedURL, error) {
	return s.store.GenerateDownloadURL(ctx, s.bucketQRCodes, fileKey)
}
