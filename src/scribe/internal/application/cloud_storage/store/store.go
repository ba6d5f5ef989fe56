package store

import (
	"context"
	"io"
	"mime"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/apex/log"
	cloudstorage "github.com/veedubyou/chord-paper-scribe/src/scribe/internal/application/cloud_storage/entity"
	"github.com/veedubyou/chord-paper-scribe/src/scribe/internal/lib/cerr"
	"google.golang.org/api/option"
)

var _ cloudstorage.FileStore = GoogleFileStore{}

func NewGoogleFileStore(storageHost string, options ...option.ClientOption) (GoogleFileStore, error) {
	client, err := storage.NewClient(context.Background(), options...)
	if err != nil {
		return GoogleFileStore{}, cerr.Wrap(err).Error("Failed to create google cloud client")
	}

	return GoogleFileStore{
		storageHost: strings.TrimSuffix(storageHost, "/"),
		client:      client,
	}, nil
}

type GoogleFileStore struct {
	storageHost string
	client      *storage.Client
}

func (g GoogleFileStore) GetFile(ctx context.Context, fileURL string) ([]byte, error) {
	errctx := cerr.Field("file_url", fileURL)

	bucketName, objectName, err := g.splitURL(fileURL)
	if err != nil {
		return nil, errctx.Wrap(err).Error("Failed to parse file URL")
	}

	reader, err := g.client.Bucket(bucketName).Object(objectName).NewReader(ctx)
	if err != nil {
		return nil, errctx.Wrap(err).Error("Failed to open object for reading")
	}
	defer reader.Close()

	contents, err := io.ReadAll(reader)
	if err != nil {
		return nil, errctx.Wrap(err).Error("Failed to read object")
	}

	return contents, nil
}

func (g GoogleFileStore) WriteFile(ctx context.Context, fileURL string, contents []byte) error {
	errctx := cerr.Field("file_url", fileURL)

	bucketName, objectName, err := g.splitURL(fileURL)
	if err != nil {
		return errctx.Wrap(err).Error("Failed to parse file URL")
	}

	writer := g.client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	if contentType := mime.TypeByExtension(path.Ext(objectName)); contentType != "" {
		writer.ContentType = contentType
	}

	if _, err := writer.Write(contents); err != nil {
		_ = writer.Close()
		return errctx.Wrap(err).Error("Failed to write object")
	}

	if err := writer.Close(); err != nil {
		return errctx.Wrap(err).Error("Failed to finalize object")
	}

	log.WithFields(log.Fields{
		"fileURL": fileURL,
		"bytes":   len(contents),
	}).Debug("Wrote file to cloud storage")

	return nil
}

// splitURL turns <host>/<bucket>/<object...> into its bucket and object.
func (g GoogleFileStore) splitURL(fileURL string) (string, string, error) {
	if !strings.HasPrefix(fileURL, g.storageHost+"/") {
		return "", "", cerr.Field("storage_host", g.storageHost).Error("URL is not on the storage host")
	}

	rest := strings.TrimPrefix(fileURL, g.storageHost+"/")
	bucketName, objectName, found := strings.Cut(rest, "/")
	if !found || bucketName == "" || objectName == "" {
		return "", "", cerr.Error("URL is missing a bucket or object name")
	}

	return bucketName, objectName, nil
}
