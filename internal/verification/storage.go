package verification

import (
	"context"
	"fmt"
	"io"
	"time"

	"homematch/landlord-portal/landlord-portal-backend/pkg/storage"
)

const presignExpiry = 24 * time.Hour

// StorageProvider uploads evidence to the external object store and hands
// back retrieval references. A slot counts as present only after Upload
// returned without error.
type StorageProvider struct {
	s3     storage.S3Client
	bucket string
}

func NewStorageProvider(s3 storage.S3Client, bucket string) *StorageProvider {
	return &StorageProvider{s3: s3, bucket: bucket}
}

func (p *StorageProvider) GenerateKey(landlordID string, slot Slot, fileName string) string {
	return fmt.Sprintf("landlords/%s/verification/%s/%s", landlordID, slot, fileName)
}

// UploadEvidence stores one evidence file and returns its confirmed reference.
func (p *StorageProvider) UploadEvidence(ctx context.Context, landlordID string, slot Slot, name, contentType string, size int64, body io.Reader) (*EvidenceRef, error) {
	key := p.GenerateKey(landlordID, slot, name)
	if err := p.s3.Upload(ctx, p.bucket, key, body); err != nil {
		return nil, fmt.Errorf("%w: slot %s: %v", ErrUploadFailed, slot, err)
	}
	url, err := p.s3.GetPresignedURL(ctx, p.bucket, key, presignExpiry)
	if err != nil {
		return nil, fmt.Errorf("%w: slot %s: %v", ErrUploadFailed, slot, err)
	}
	return &EvidenceRef{
		Name:        name,
		Size:        size,
		ContentType: contentType,
		Key:         key,
		URL:         url,
	}, nil
}

// RefFromKey rebuilds a reference for an already-stored object, re-presigning
// its retrieval URL. Used when a retried submission reuses confirmed uploads.
func (p *StorageProvider) RefFromKey(ctx context.Context, key, name, contentType string, size int64) (*EvidenceRef, error) {
	url, err := p.s3.GetPresignedURL(ctx, p.bucket, key, presignExpiry)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	return &EvidenceRef{
		Name:        name,
		Size:        size,
		ContentType: contentType,
		Key:         key,
		URL:         url,
	}, nil
}
