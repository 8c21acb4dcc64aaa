// config/config_test.go
package config

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	configContent := `
logger:
  level: debug
  format: json
server:
  addr: ":9090"
  shutdown_timeout: 3s
search:
  top_n: 10
rules:
  path: rules.yaml
`

	require.NoError(t, InitConfig(bytes.NewReader([]byte(configContent))))

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, 10, cfg.Search.TopN)

	config := GetConfig()

	assert.Equal(t, "json", config.Logger.Format)
	assert.Equal(t, "cardiag", config.Logger.ServiceName)
	assert.Equal(t, "rules.yaml", config.Rules.Path)
	assert.Equal(t, "gpt-4o-mini", config.OpenAI.Model)

	serverConfig := GetServerConfig()

	assert.Equal(t, ":9090", serverConfig.Addr)
	assert.Equal(t, 3*time.Second, serverConfig.ShutdownTimeout)
	assert.Equal(t, 10*time.Second, serverConfig.ReadTimeout)

	assert.Equal(t, 10, GetSearchConfig().TopN)
	assert.Equal(t, "debug", GetLoggerConfig().Level)
}

func TestConfigDefaults(t *testing.T) {
	require.NoError(t, InitConfig(nil))

	config := GetConfig()
	assert.Equal(t, "info", config.Logger.Level)
	assert.Equal(t, "console", config.Logger.Format)
	assert.Equal(t, ":8080", config.Server.Addr)
	assert.Equal(t, 0, config.Search.TopN)
	assert.Empty(t, config.Rules.Path)
}

func TestConfigEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")
	t.Setenv("CARDIAG_SEARCH_TOP_N", "3")

	require.NoError(t, InitConfig(strings.NewReader("search:\n  top_n: 1\n")))

	config := GetConfig()
	assert.Equal(t, "sk-test", config.OpenAI.APIKey)
	assert.Equal(t, "postgres://u:p@db:5432/x", config.Postgres.URL)
	assert.Equal(t, 3, config.Search.TopN)
}

func TestConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "negative top_n", content: "search:\n  top_n: -1\n"},
		{name: "unknown log format", content: "logger:\n  format: xml\n"},
		{name: "broken yaml", content: "search: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := GetConfig()
			assert.Error(t, InitConfig(strings.NewReader(tt.content)))
			assert.Equal(t, before, GetConfig())
		})
	}
}

func TestCreateDefaultConfigFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-secret")

	var buf bytes.Buffer
	require.NoError(t, CreateDefaultConfigFile(&buf))

	out := buf.String()
	assert.Contains(t, out, "service_name: cardiag")
	assert.Contains(t, out, "model: gpt-4o-mini")
	assert.NotContains(t, out, "sk-secret")

	require.NoError(t, InitConfig(&buf))
	assert.Equal(t, Default().Server, GetConfig().Server)
}

func TestRedacted(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "password", url: "postgres://cardiag:secret@db:5432/cardiag?sslmode=disable", want: "postgres://cardiag:xxxxx@db:5432/cardiag?sslmode=disable"},
		{name: "no password", url: "postgres://db:5432/cardiag", want: "postgres://db:5432/cardiag"},
		{name: "key value", url: "host=db user=cardiag password=secret", want: "xxxxx"},
		{name: "empty", url: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			c.Postgres.URL = tt.url
			c.OpenAI.APIKey = "sk-secret"

			got := c.Redacted()
			assert.Equal(t, tt.want, got.Postgres.URL)
			assert.Empty(t, got.OpenAI.APIKey)
			assert.Equal(t, tt.url, c.Postgres.URL)
		})
	}
}
