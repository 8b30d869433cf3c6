package nacosconfig

import (
	"context"
)

// Document is a configuration document as returned by the server, carrying
// the identity fields and declared checksum alongside the raw content.
type Document struct {
	// Content is the raw document body
	Content string

	// Namespace is the namespace (tenant) the server resolved the document in
	Namespace string

	// DataID is the document identifier the server resolved
	DataID string

	// Group is the group the server resolved the document in
	Group string

	// MD5 is the server-declared hex digest of Content
	MD5 string

	// Type is the server-declared content format ("json", "yaml", ...).
	// Optional; Decode falls back to JSON when it is empty or unknown.
	Type string
}

// ConfigService fetches configuration documents. It is the narrow seam
// between the loader and the configuration server: production code uses the
// HTTP client in internal/nacos, tests substitute a deterministic fake via
// WithConfigService.
//
// Implementations return plain errors; the loader wraps every failure into a
// *ConfigError carrying the requested coordinates.
type ConfigService interface {
	// GetConfig retrieves the document identified by dataID and group.
	GetConfig(ctx context.Context, dataID, group string) (*Document, error)
}
