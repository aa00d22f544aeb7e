package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type botRequest struct {
	Method string
	Body   map[string]any
}

func fakeBotAPI(t *testing.T) (*httptest.Server, func() []botRequest) {
	t.Helper()
	var mu sync.Mutex
	var calls []botRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		calls = append(calls, botRequest{Method: r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:], Body: body})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	t.Cleanup(srv.Close)
	return srv, func() []botRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]botRequest(nil), calls...)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd("1.2.3")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "checkd 1.2.3\n", out)
}

func TestTriggerSendsTodaysChecklist(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	api, calls := fakeBotAPI(t)

	tmplPath := filepath.Join(dir, "templates.yaml")
	var tmpl strings.Builder
	for _, day := range []string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"} {
		tmpl.WriteString(day + ": [Stretch, Water plants]\n")
	}
	require.NoError(t, os.WriteFile(tmplPath, []byte(tmpl.String()), 0o644))

	cfgPath := filepath.Join(dir, "checkd.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
telegram:
  token: "123:abc"
  chat_id: 42
  api_url: "`+api.URL+`"
store:
  driver: memory
templates:
  path: "`+tmplPath+`"
log:
  format: text
`), 0o644))

	_, err := run(t, "--config", cfgPath, "trigger")
	require.NoError(t, err)

	got := calls()
	require.Len(t, got, 1)
	assert.Equal(t, "sendMessage", got[0].Method)
	assert.Equal(t, float64(42), got[0].Body["chat_id"])
	assert.Equal(t, "☐ Stretch\n☐ Water plants", got[0].Body["text"])
}

func TestTriggerRequiresChat(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CHECKD_STORE_DRIVER", "memory")
	t.Setenv("CHECKD_TELEGRAM_TOKEN", "123:abc")

	_, err := run(t, "trigger")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat_id")
}

func TestServeRequiresToken(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CHECKD_STORE_DRIVER", "memory")

	_, err := run(t, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram.token")
}

func TestInvalidConfigFails(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CHECKD_STORE_DRIVER", "postgres")

	_, err := run(t, "trigger")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Driver")
}
