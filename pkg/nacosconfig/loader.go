package nacosconfig

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/systmms/nacosconf/internal/metrics"
	"github.com/systmms/nacosconf/internal/nacos"
)

// DefaultKMSRegion is the fallback region for the KMS client, applied only
// when the ambient AWS chain does not resolve a region. Override it with
// WithKMSRegion.
const DefaultKMSRegion = "ap-southeast-1"

// Loader runs the retrieval pipeline for one set of document coordinates:
// decrypt the credential, connect, fetch, validate integrity, and (through
// Load) decode. Every call to Fetch constructs its own connection; the Loader
// itself holds no mutable state and is safe to reuse.
type Loader struct {
	settings   Settings
	service    ConfigService
	decrypter  Decrypter
	kmsRegion  string
	schema     string
	httpClient *http.Client
	log        *slog.Logger
}

// Option is a functional option for configuring a Loader.
type Option func(*Loader)

// WithConfigService sets a custom configuration service (for testing or
// alternative transports).
func WithConfigService(svc ConfigService) Option {
	return func(l *Loader) {
		l.service = svc
	}
}

// WithDecrypter sets a custom decrypter (for testing).
func WithDecrypter(dec Decrypter) Option {
	return func(l *Loader) {
		l.decrypter = dec
	}
}

// WithKMSRegion sets the fallback region for the KMS client.
func WithKMSRegion(region string) Option {
	return func(l *Loader) {
		l.kmsRegion = region
	}
}

// WithSchema sets a JSON Schema that fetched documents must satisfy before
// they are decoded.
func WithSchema(schema string) Option {
	return func(l *Loader) {
		l.schema = schema
	}
}

// WithHTTPClient sets the HTTP client used to reach the nacos server.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		l.httpClient = client
	}
}

// WithLogger sets the logger for debug breadcrumbs. Credential values are
// never logged.
func WithLogger(log *slog.Logger) Option {
	return func(l *Loader) {
		l.log = log
	}
}

// NewLoader creates a Loader for the given settings.
func NewLoader(settings Settings, opts ...Option) *Loader {
	l := &Loader{
		settings:  settings,
		kmsRegion: DefaultKMSRegion,
		log:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// InitMetrics registers the Prometheus pipeline metrics. Recording is a
// no-op until this is called; call it once at startup if metrics are wanted.
func InitMetrics() {
	metrics.Init()
}

// Fetch runs the pipeline up to and including integrity validation and
// returns the verified document. Steps run strictly in order and the first
// failure aborts the call; there is no retry and no caching.
func (l *Loader) Fetch(ctx context.Context) (*Document, error) {
	password, err := l.decryptPassword(ctx)
	metrics.RecordDecrypt(IsEncrypted(l.settings.Password), statusOf(err))
	if err != nil {
		return nil, err
	}

	svc := l.service
	if svc == nil {
		client, err := nacos.New(nacos.Config{
			Addr:       l.settings.ServerAddr,
			Namespace:  l.settings.Namespace,
			Username:   l.settings.Username,
			Password:   password,
			HTTPClient: l.httpClient,
			Logger:     l.log,
		})
		if err != nil {
			return nil, &ConnectionError{Addr: l.settings.ServerAddr, Cause: err}
		}
		svc = nacosService{client: client}
	}

	start := time.Now()
	doc, err := svc.GetConfig(ctx, l.settings.DataID, l.settings.Group)
	metrics.RecordFetch(statusOf(err), time.Since(start).Seconds())
	if err != nil {
		return nil, &ConfigError{
			DataID:  l.settings.DataID,
			Group:   l.settings.Group,
			Message: "failed to get config",
			Cause:   err,
		}
	}

	if err := doc.Validate(l.settings.Namespace, l.settings.DataID, l.settings.Group); err != nil {
		var ce *ConfigError
		if errors.As(err, &ce) {
			metrics.RecordIntegrityFailure(ce.Field)
		}
		return nil, err
	}

	if l.schema != "" {
		if err := validateSchema(doc, l.schema); err != nil {
			return nil, err
		}
	}

	l.log.DebugContext(ctx, "fetched config document",
		"dataId", doc.DataID, "group", doc.Group, "type", doc.Type, "bytes", len(doc.Content))
	return doc, nil
}

// Load fetches, validates, and decodes a document into T.
func Load[T any](ctx context.Context, l *Loader) (T, error) {
	start := time.Now()

	doc, err := l.Fetch(ctx)
	if err != nil {
		metrics.RecordLoad("error", time.Since(start).Seconds())
		var zero T
		return zero, err
	}

	out, err := Decode[T](doc)
	metrics.RecordLoad(statusOf(err), time.Since(start).Seconds())
	return out, err
}

// FromEnv reads Settings from the environment and loads the document it
// describes into T. This is the one-call entry point for services that keep
// their nacos coordinates in NACOS_* environment variables.
func FromEnv[T any](ctx context.Context, opts ...Option) (T, error) {
	settings, err := SettingsFromEnv()
	if err != nil {
		var zero T
		return zero, err
	}
	return Load[T](ctx, NewLoader(settings, opts...))
}

// nacosService adapts the HTTP client in internal/nacos to ConfigService.
type nacosService struct {
	client *nacos.Client
}

func (s nacosService) GetConfig(ctx context.Context, dataID, group string) (*Document, error) {
	item, err := s.client.GetConfig(ctx, dataID, group)
	if err != nil {
		return nil, err
	}
	return &Document{
		Content:   item.Content,
		Namespace: item.Tenant,
		DataID:    item.DataID,
		Group:     item.Group,
		MD5:       item.MD5,
		Type:      item.Type,
	}, nil
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
