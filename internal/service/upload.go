package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"regulariza/internal/engine"
	"regulariza/internal/model"
	"regulariza/pkg/apperror"
	"regulariza/pkg/blob"

	"github.com/google/uuid"
)

// FileUpload carries one incoming file from the HTTP layer.
type FileUpload struct {
	Name        string
	Size        int64
	ContentType string
	Content     io.Reader
}

// sanitizeFilename keeps just the base name so a crafted filename cannot
// escape the owner's blob prefix.
func sanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		return "arquivo"
	}
	return base
}

// storeUpload writes the blob under the owner's prefix and returns the
// metadata record to be attached by the engine. The blob goes in first; if
// the surrounding transaction later fails the caller removes it again.
func storeUpload(ctx context.Context, store blob.Store, keyPrefix string, up FileUpload, actor engine.Actor) (model.FileAttachment, error) {
	if up.Name == "" || up.Content == nil {
		return model.FileAttachment{}, apperror.Validationf("arquivo inválido")
	}

	id := uuid.New()
	name := sanitizeFilename(up.Name)
	key := fmt.Sprintf("%s/%s_%s", strings.TrimRight(keyPrefix, "/"), id, name)

	url, err := store.Put(ctx, key, up.Content, up.Size, up.ContentType)
	if err != nil {
		return model.FileAttachment{}, apperror.Wrap(apperror.Storage, err, "falha ao armazenar o arquivo %q", name)
	}

	return model.FileAttachment{
		ID:          id,
		Name:        name,
		URL:         url,
		StorageKey:  key,
		ContentType: up.ContentType,
		Size:        up.Size,
		UploadedBy:  actor.Role,
		UploadedAt:  time.Now(),
	}, nil
}
