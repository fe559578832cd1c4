// Package storage writes uploaded document files to object storage and
// hands back the public URL they can be fetched from.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// ObjectStorage stores a binary object under objectPath and returns its public URL
type ObjectStorage interface {
	Upload(ctx context.Context, objectPath string, content io.Reader) (string, error)
}

// DocumentPath derives the storage path for an uploaded document:
// <uid>/<vehicleID>/<unix millis>_<file name>
func DocumentPath(uid, vehicleID string, uploadedAt time.Time, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" {
		name = "file"
	}
	return fmt.Sprintf("%s/%s/%d_%s", uid, vehicleID, uploadedAt.UnixMilli(), name)
}
