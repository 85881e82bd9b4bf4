package mongodb

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/printtrack/tracking-service/internal/domain"
)

// FileStore implements domain.FileStore on top of GridFS. Stage attachments
// are small (POs, proofs, QC photos), so a single bucket is enough.
type FileStore struct {
	bucket  *gridfs.Bucket
	baseURL string
}

type fileMetadata struct {
	ContentType string `bson:"contentType"`
}

// NewFileStore creates a FileStore backed by the given database. baseURL is
// the public path prefix under which stored files are served.
func NewFileStore(db *mongo.Database, baseURL string) (*FileStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName("stage_files"))
	if err != nil {
		return nil, fmt.Errorf("failed to create gridfs bucket: %w", err)
	}

	return &FileStore{bucket: bucket, baseURL: baseURL}, nil
}

// Store uploads the content and returns the file ID and its fetch URL
func (s *FileStore) Store(ctx context.Context, content io.Reader, name, contentType string) (string, string, error) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = s.bucket.SetWriteDeadline(deadline)
	}

	opts := options.GridFSUpload().SetMetadata(fileMetadata{ContentType: contentType})

	id, err := s.bucket.UploadFromStream(name, content, opts)
	if err != nil {
		return "", "", fmt.Errorf("failed to upload file: %w", err)
	}

	fileID := id.Hex()
	return fileID, s.baseURL + "/" + fileID, nil
}

// Fetch retrieves a stored file's content by its ID; nil when not found
func (s *FileStore) Fetch(ctx context.Context, fileID string) (*domain.StoredFile, error) {
	id, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return nil, nil
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = s.bucket.SetReadDeadline(deadline)
	}

	stream, err := s.bucket.OpenDownloadStream(id)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) || errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open download stream: %w", err)
	}

	file := stream.GetFile()

	var meta fileMetadata
	if len(file.Metadata) > 0 {
		_ = bson.Unmarshal(file.Metadata, &meta)
	}
	if meta.ContentType == "" {
		meta.ContentType = "application/octet-stream"
	}

	return &domain.StoredFile{
		Name:        file.Name,
		ContentType: meta.ContentType,
		Content:     stream,
	}, nil
}
