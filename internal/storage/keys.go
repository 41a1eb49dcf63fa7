package storage

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// ArchiveKey builds the object key an imported file is archived under:
// <prefix>/<yyyy>/<mm>/<dd>/<unix-nanos>-<base name>.
func ArchiveKey(prefix, filename string, at time.Time) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" {
		name = "upload"
	}
	at = at.UTC()
	key := fmt.Sprintf("%s/%d-%s", at.Format("2006/01/02"), at.UnixNano(), name)
	if p := strings.Trim(strings.TrimSpace(prefix), "/"); p != "" {
		key = p + "/" + key
	}
	return key
}

// ResolveObjectKey joins an override key to prefix unless it already
// carries it.
func ResolveObjectKey(prefix, override string) string {
	if override == "" {
		return strings.TrimSpace(prefix)
	}
	if prefix == "" {
		return strings.TrimPrefix(override, "/")
	}

	prefixTrimmed := strings.TrimSuffix(strings.TrimSpace(prefix), "/")
	overrideTrimmed := strings.TrimPrefix(strings.TrimSpace(override), "/")

	if strings.HasPrefix(overrideTrimmed, prefixTrimmed) {
		return overrideTrimmed
	}
	return fmt.Sprintf("%s/%s", prefixTrimmed, overrideTrimmed)
}

// ObjectRelativePath returns key relative to prefix, for mirroring a bucket
// listing on disk.
func ObjectRelativePath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	prefixTrimmed := strings.TrimSuffix(strings.TrimSpace(prefix), "/")
	rel := strings.TrimPrefix(key, prefixTrimmed+"/")
	if rel == "" {
		return filepath.Base(key)
	}
	return rel
}
