package nacosconfig

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// ContentMD5 returns the lowercase hex MD5 digest of the document content.
// MD5 is what the server declares for every document; it is an integrity
// check against transport corruption, not a security measure, and must not be
// swapped for a stronger hash without breaking interoperability.
func (d *Document) ContentMD5() string {
	sum := md5.Sum([]byte(d.Content))
	return hex.EncodeToString(sum[:])
}

// Validate checks the document against the coordinates the caller asked for
// and verifies the declared checksum against a digest recomputed from the
// content. Fields are compared in a fixed order (namespace, dataId, group,
// checksum) with exact string equality and no normalization; the first
// mismatch fails with a *ConfigError naming that field.
func (d *Document) Validate(namespace, dataID, group string) error {
	if d.Namespace != namespace {
		return &ConfigError{
			DataID:  d.DataID,
			Group:   d.Group,
			Field:   "namespace",
			Message: fmt.Sprintf("namespace mismatch: got %q, want %q", d.Namespace, namespace),
		}
	}
	if d.DataID != dataID {
		return &ConfigError{
			DataID:  d.DataID,
			Group:   d.Group,
			Field:   "dataId",
			Message: fmt.Sprintf("dataId mismatch: got %q, want %q", d.DataID, dataID),
		}
	}
	if d.Group != group {
		return &ConfigError{
			DataID:  d.DataID,
			Group:   d.Group,
			Field:   "group",
			Message: fmt.Sprintf("group mismatch: got %q, want %q", d.Group, group),
		}
	}
	if sum := d.ContentMD5(); d.MD5 != sum {
		return &ConfigError{
			DataID:  d.DataID,
			Group:   d.Group,
			Field:   "checksum",
			Message: fmt.Sprintf("content checksum mismatch: declared %s, computed %s", d.MD5, sum),
		}
	}
	return nil
}
