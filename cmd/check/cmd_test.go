package check

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/nakamasato/cardiag/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := Command()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "not diagnosed",
			args: []string{"--mileage", "80000", "--symptom", "Скрип"},
			want: "⛔️ Критическая ошибка: Автомобиль не прошел диагностику\n",
		},
		{
			name: "nothing due",
			args: []string{"--mileage", "5000", "--diagnosed"},
			want: "✅ Автомобиль не требует обслуживания\n",
		},
		{
			name: "service and symptoms",
			args: []string{"--mileage", "45000", "--diagnosed", "--symptom", "Скрип", "--symptom", "Неизвестный"},
			want: "🛢 Требуется замена масла\n🛑 Проверка тормозной системы\n❗ Симптом 'Скрип' → Износ тормозных колодок\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestCheckJSON(t *testing.T) {
	out, err := run(t, "--mileage", "70000", "--diagnosed", "--json")
	require.NoError(t, err)

	var v rules.Verdict
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, rules.StatusAttention, v.Status)
	assert.Equal(t, []rules.ServiceItem{rules.ServiceOilChange, rules.ServiceBrakeService, rules.ServiceSuspensionCheck}, v.Service)
}

func TestCheckCustomRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
critical_rules:
  must_be_diagnosed: false
mileage_rules:
  oil_change: 15000
`), 0o600))

	out, err := run(t, "--mileage", "15000", "--rules", path)
	require.NoError(t, err)
	assert.Equal(t, "🛢 Требуется замена масла\n", out)
}

func TestCheckErrors(t *testing.T) {
	_, err := run(t, "--mileage", "-1")
	assert.ErrorContains(t, err, "negative")

	_, err = run(t, "--rules", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to open rules file")
}
