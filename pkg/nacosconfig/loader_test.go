package nacosconfig_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/nacosconf/pkg/nacosconfig"
)

func testSettings() nacosconfig.Settings {
	return nacosconfig.Settings{
		ServerAddr: "localhost:8848",
		Group:      "DEFAULT_GROUP",
		Namespace:  "prod",
		Username:   "nacos",
		Password:   "plain-password",
		DataID:     "app-config",
	}
}

func TestLoader_Fetch(t *testing.T) {
	t.Parallel()

	svc := &fakeService{doc: validDocument("prod", "app-config", "DEFAULT_GROUP", `{"port":8080}`)}
	dec := &fakeDecrypter{}

	l := nacosconfig.NewLoader(testSettings(),
		nacosconfig.WithConfigService(svc),
		nacosconfig.WithDecrypter(dec))

	doc, err := l.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"port":8080}`, doc.Content)

	assert.Equal(t, 1, svc.calls)
	assert.Equal(t, "app-config", svc.gotDataID)
	assert.Equal(t, "DEFAULT_GROUP", svc.gotGroup)
	assert.Zero(t, dec.calls, "plain password must not involve the decrypter")
}

func TestLoader_Fetch_EncryptedPassword(t *testing.T) {
	t.Parallel()

	blob := []byte{0x01, 0x02, 0x03, 0x04}
	settings := testSettings()
	settings.Password = "ENC(" + base64.StdEncoding.EncodeToString(blob) + ")"
	settings.KMSKeyID = "alias/config-key"

	svc := &fakeService{doc: validDocument("prod", "app-config", "DEFAULT_GROUP", `{}`)}
	dec := &fakeDecrypter{plaintext: []byte("decrypted-password")}

	l := nacosconfig.NewLoader(settings,
		nacosconfig.WithConfigService(svc),
		nacosconfig.WithDecrypter(dec))

	_, err := l.Fetch(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, dec.calls)
	assert.Equal(t, "alias/config-key", dec.gotKeyID)
	assert.Equal(t, blob, dec.gotCiphertext)
	assert.Equal(t, 1, svc.calls)
}

func TestLoader_Fetch_DecryptFailureShortCircuits(t *testing.T) {
	t.Parallel()

	settings := testSettings()
	settings.Password = "ENC(QUJD)"
	settings.KMSKeyID = "alias/config-key"

	svc := &fakeService{doc: validDocument("prod", "app-config", "DEFAULT_GROUP", `{}`)}
	dec := &fakeDecrypter{err: errors.New("key disabled")}

	l := nacosconfig.NewLoader(settings,
		nacosconfig.WithConfigService(svc),
		nacosconfig.WithDecrypter(dec))

	_, err := l.Fetch(context.Background())
	require.Error(t, err)

	var kmsErr *nacosconfig.KMSError
	require.True(t, errors.As(err, &kmsErr))
	assert.Zero(t, svc.calls, "decrypt failure must abort before the fetch")
}

func TestLoader_Fetch_InvalidBase64ShortCircuits(t *testing.T) {
	t.Parallel()

	settings := testSettings()
	settings.Password = "ENC(%%%)"
	settings.KMSKeyID = "alias/config-key"

	svc := &fakeService{doc: validDocument("prod", "app-config", "DEFAULT_GROUP", `{}`)}
	dec := &fakeDecrypter{}

	l := nacosconfig.NewLoader(settings,
		nacosconfig.WithConfigService(svc),
		nacosconfig.WithDecrypter(dec))

	_, err := l.Fetch(context.Background())
	require.Error(t, err)

	var b64Err *nacosconfig.Base64DecodeError
	require.True(t, errors.As(err, &b64Err))
	assert.Equal(t, "%%%", b64Err.Payload)
	assert.Zero(t, dec.calls)
	assert.Zero(t, svc.calls)
}

func TestLoader_Fetch_MissingKeyID(t *testing.T) {
	t.Parallel()

	settings := testSettings()
	settings.Password = "ENC(QUJD)"
	settings.KMSKeyID = ""

	svc := &fakeService{doc: validDocument("prod", "app-config", "DEFAULT_GROUP", `{}`)}

	l := nacosconfig.NewLoader(settings, nacosconfig.WithConfigService(svc))

	_, err := l.Fetch(context.Background())
	require.Error(t, err)

	var envErr *nacosconfig.EnvVarError
	require.True(t, errors.As(err, &envErr))
	assert.Equal(t, nacosconfig.EnvKMSKeyID, envErr.Name)
	assert.Zero(t, svc.calls)
}

func TestLoader_Fetch_ServiceError(t *testing.T) {
	t.Parallel()

	cause := errors.New("config not found (status 404)")
	svc := &fakeService{err: cause}

	l := nacosconfig.NewLoader(testSettings(), nacosconfig.WithConfigService(svc))

	_, err := l.Fetch(context.Background())
	require.Error(t, err)

	var cfgErr *nacosconfig.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "app-config", cfgErr.DataID)
	assert.Equal(t, "DEFAULT_GROUP", cfgErr.Group)
	assert.Empty(t, cfgErr.Field)
	assert.True(t, errors.Is(err, cause))
}

func TestLoader_Fetch_ValidationFailure(t *testing.T) {
	t.Parallel()

	doc := validDocument("staging", "app-config", "DEFAULT_GROUP", `{}`)
	svc := &fakeService{doc: doc}

	l := nacosconfig.NewLoader(testSettings(), nacosconfig.WithConfigService(svc))

	_, err := l.Fetch(context.Background())
	require.Error(t, err)

	var cfgErr *nacosconfig.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "namespace", cfgErr.Field)
}

func TestLoader_Fetch_ChecksumFailure(t *testing.T) {
	t.Parallel()

	doc := validDocument("prod", "app-config", "DEFAULT_GROUP", `{"port":8080}`)
	doc.Content = `{"port":9090}`
	svc := &fakeService{doc: doc}

	l := nacosconfig.NewLoader(testSettings(), nacosconfig.WithConfigService(svc))

	_, err := l.Fetch(context.Background())
	require.Error(t, err)

	var cfgErr *nacosconfig.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "checksum", cfgErr.Field)
}

func TestLoader_Fetch_SchemaEnforced(t *testing.T) {
	t.Parallel()

	schema := `{"type":"object","required":["port"],"properties":{"port":{"type":"integer"}}}`

	svc := &fakeService{doc: validDocument("prod", "app-config", "DEFAULT_GROUP", `{"port":8080}`)}
	l := nacosconfig.NewLoader(testSettings(),
		nacosconfig.WithConfigService(svc),
		nacosconfig.WithSchema(schema))

	_, err := l.Fetch(context.Background())
	require.NoError(t, err)

	svc = &fakeService{doc: validDocument("prod", "app-config", "DEFAULT_GROUP", `{"name":"x"}`)}
	l = nacosconfig.NewLoader(testSettings(),
		nacosconfig.WithConfigService(svc),
		nacosconfig.WithSchema(schema))

	_, err = l.Fetch(context.Background())
	require.Error(t, err)

	var parseErr *nacosconfig.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Contains(t, err.Error(), "port is required")
}

func TestLoader_Fetch_ConnectionError(t *testing.T) {
	t.Parallel()

	settings := testSettings()
	settings.ServerAddr = "https://"

	l := nacosconfig.NewLoader(settings)

	_, err := l.Fetch(context.Background())
	require.Error(t, err)

	var connErr *nacosconfig.ConnectionError
	require.True(t, errors.As(err, &connErr))
	assert.Equal(t, "https://", connErr.Addr)
}

func TestLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	want := appConfig{Name: "billing", Port: 8080, Tags: []string{"prod"}}
	want.Database.Host = "db.internal"
	want.Database.Pool = 4

	raw, err := json.Marshal(want)
	require.NoError(t, err)

	svc := &fakeService{doc: validDocument("prod", "app-config", "DEFAULT_GROUP", string(raw))}
	l := nacosconfig.NewLoader(testSettings(), nacosconfig.WithConfigService(svc))

	got, err := nacosconfig.Load[appConfig](context.Background(), l)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoad_MalformedContent(t *testing.T) {
	t.Parallel()

	content := `{"port": }`
	svc := &fakeService{doc: validDocument("prod", "app-config", "DEFAULT_GROUP", content)}
	l := nacosconfig.NewLoader(testSettings(), nacosconfig.WithConfigService(svc))

	_, err := nacosconfig.Load[appConfig](context.Background(), l)
	require.Error(t, err)

	var parseErr *nacosconfig.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, content, parseErr.Content)
	assert.Contains(t, err.Error(), content)
}

func TestFromEnv(t *testing.T) {
	setFullEnv(t)

	svc := &fakeService{doc: validDocument("prod", "app-config", "DEFAULT_GROUP", `{"port":8080}`)}

	got, err := nacosconfig.FromEnv[appConfig](context.Background(),
		nacosconfig.WithConfigService(svc))
	require.NoError(t, err)
	assert.Equal(t, 8080, got.Port)

	// Coordinates come from the environment
	assert.Equal(t, "app-config", svc.gotDataID)
	assert.Equal(t, "DEFAULT_GROUP", svc.gotGroup)
}

func TestFromEnv_MissingVarBeforeNetwork(t *testing.T) {
	setFullEnv(t)
	unsetEnv(t, nacosconfig.EnvServerAddr)

	svc := &fakeService{doc: validDocument("prod", "app-config", "DEFAULT_GROUP", `{}`)}

	_, err := nacosconfig.FromEnv[appConfig](context.Background(),
		nacosconfig.WithConfigService(svc))
	require.Error(t, err)

	var envErr *nacosconfig.EnvVarError
	require.True(t, errors.As(err, &envErr))
	assert.Equal(t, nacosconfig.EnvServerAddr, envErr.Name)
	assert.Zero(t, svc.calls, "environment failures must precede any fetch")
}

func TestLoader_Fetch_HTTPEndToEnd(t *testing.T) {
	t.Parallel()

	content := `{"feature":true,"port":8080}`
	md5sum := (&nacosconfig.Document{Content: content}).ContentMD5()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/nacos/v1/cs/configs", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "all", q.Get("show"))
		assert.Equal(t, "app-config", q.Get("dataId"))
		assert.Equal(t, "DEFAULT_GROUP", q.Get("group"))
		assert.Equal(t, "prod", q.Get("tenant"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"dataId":"app-config","group":"DEFAULT_GROUP","content":%q,"md5":%q,"tenant":"prod","type":"json"}`,
			content, md5sum)
	}))
	defer srv.Close()

	settings := nacosconfig.Settings{
		ServerAddr: srv.URL,
		Group:      "DEFAULT_GROUP",
		Namespace:  "prod",
		DataID:     "app-config",
	}

	l := nacosconfig.NewLoader(settings, nacosconfig.WithHTTPClient(srv.Client()))

	doc, err := l.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, content, doc.Content)
	assert.Equal(t, "prod", doc.Namespace)
	assert.Equal(t, "json", doc.Type)
	assert.Equal(t, md5sum, doc.MD5)
}

func TestLoader_Fetch_RejectedLogin(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/nacos/v1/auth/login" {
			http.Error(w, "unknown user", http.StatusForbidden)
			return
		}
		t.Errorf("unexpected request to %s after rejected login", r.URL.Path)
	}))
	defer srv.Close()

	settings := nacosconfig.Settings{
		ServerAddr: srv.URL,
		Group:      "DEFAULT_GROUP",
		Namespace:  "prod",
		Username:   "nacos",
		Password:   "wrong-password",
		DataID:     "app-config",
	}

	l := nacosconfig.NewLoader(settings, nacosconfig.WithHTTPClient(srv.Client()))

	_, err := l.Fetch(context.Background())
	var cfgErr *nacosconfig.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "app-config", cfgErr.DataID)
	assert.Equal(t, "DEFAULT_GROUP", cfgErr.Group)
	assert.Contains(t, err.Error(), "login failed (status 403)")
	assert.NotContains(t, err.Error(), "wrong-password")
}
