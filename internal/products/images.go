package products

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"kalastra-backend/internal/common/storage"
)

// ListingImageStore keeps submitted product photos in object storage. Keys
// are listings/{submissionID}/image_{index}{ext} so all photos of one
// submission share a prefix.
type ListingImageStore struct {
	client *storage.MinIOClient
	bucket string
}

func NewListingImageStore(client *storage.MinIOClient, bucket string) *ListingImageStore {
	return &ListingImageStore{client: client, bucket: bucket}
}

func (s *ListingImageStore) SaveListingImage(ctx context.Context, submissionID string, index int, filename string, data []byte) (string, error) {
	key := fmt.Sprintf("listings/%s/image_%d%s", submissionID, index, safeExt(filename))

	contentType := http.DetectContentType(data)
	if err := s.client.Put(ctx, s.bucket, key, contentType, data); err != nil {
		return "", err
	}
	return s.bucket + "/" + key, nil
}

func safeExt(filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(filename)))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return ext
	default:
		return ""
	}
}
