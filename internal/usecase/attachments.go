package usecase

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"postboard/internal/entity"

	"github.com/gabriel-vasile/mimetype"
)

const MaxAttachments = 10

var attachmentTypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
}

var avatarExtensions = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
}

// detectAttachment returns the sniffed content type of u, or a validation
// error when it is not an accepted attachment type.
func detectAttachment(u Upload) (string, error) {
	if len(u.Data) == 0 {
		return "", entity.Validation("file %s is empty", u.Filename)
	}

	mt := mimetype.Detect(u.Data)
	for _, allowed := range attachmentTypes {
		if mt.Is(allowed) {
			return allowed, nil
		}
	}
	return "", entity.Validation("file %s has unsupported type %s", u.Filename, mt.String())
}

func attachmentKey(userID string, at time.Time, filename string) string {
	return fmt.Sprintf("posts/%s/%d-%s", userID, at.UnixMilli(), sanitizeFilename(filename))
}

// avatarUpload checks the extension of an avatar and returns its storage key
// and content type.
func avatarUpload(userID string, u Upload) (string, string, error) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(u.Filename), "."))
	contentType, ok := avatarExtensions[ext]
	if !ok {
		return "", "", entity.Validation("file type not supported")
	}
	if len(u.Data) == 0 {
		return "", "", entity.Validation("no file found")
	}

	mt := mimetype.Detect(u.Data)
	if !mt.Is("image/jpeg") && !mt.Is("image/png") {
		return "", "", entity.Validation("file type not supported")
	}

	return fmt.Sprintf("avatars/%s.%s", userID, ext), contentType, nil
}

func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	return strings.ReplaceAll(name, " ", "_")
}

// uploadAttachments stores every upload, removing already stored files if a
// later one fails.
func uploadAttachments(ctx context.Context, storage FileStorage, userID string, uploads []Upload, now func() time.Time) ([]entity.File, error) {
	if len(uploads) > MaxAttachments {
		return nil, entity.Validation("maximum %d files allowed per post", MaxAttachments)
	}

	types := make([]string, len(uploads))
	for i, u := range uploads {
		ct, err := detectAttachment(u)
		if err != nil {
			return nil, err
		}
		types[i] = ct
	}

	files := make([]entity.File, 0, len(uploads))
	used := make(map[string]bool, len(uploads))
	for i, u := range uploads {
		key := attachmentKey(userID, now(), u.Filename)
		if used[key] {
			key = attachmentKey(userID, now(), fmt.Sprintf("%d-%s", i, u.Filename))
		}
		used[key] = true
		url, err := storage.UploadFile(ctx, key, bytes.NewReader(u.Data), types[i])
		if err != nil {
			for _, f := range files {
				_ = storage.DeleteFile(ctx, f.FileName)
			}
			return nil, entity.Upstream("failed to upload file", err)
		}
		files = append(files, entity.File{URL: url, Name: u.Filename, FileName: key})
	}
	return files, nil
}
