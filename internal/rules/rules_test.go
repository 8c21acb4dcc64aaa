package rules

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	r := Default()
	assert.True(t, r.CriticalRules.MustBeDiagnosed)
	assert.Equal(t, MileageRules{OilChange: 10000, BrakeService: 40000, SuspensionCheck: 70000}, r.MileageRules)
	assert.Equal(t, "Износ тормозных колодок", r.SymptomMapping["Скрип"])
}

func TestCheck(t *testing.T) {
	r := Default()

	tests := []struct {
		name string
		car  Car
		want Verdict
	}{
		{
			name: "not diagnosed is blocked",
			car:  Car{Mileage: 90000, Symptoms: []string{"Скрип"}},
			want: Verdict{Status: StatusBlocked, Service: []ServiceItem{}, Findings: []SymptomFinding{}},
		},
		{
			name: "new car needs nothing",
			car:  Car{Mileage: 5000, IsDiagnosed: true},
			want: Verdict{Status: StatusOK, Service: []ServiceItem{}, Findings: []SymptomFinding{}},
		},
		{
			name: "threshold is inclusive",
			car:  Car{Mileage: 40000, IsDiagnosed: true},
			want: Verdict{
				Status:   StatusAttention,
				Service:  []ServiceItem{ServiceOilChange, ServiceBrakeService},
				Findings: []SymptomFinding{},
			},
		},
		{
			name: "symptoms keep input order, unknown ignored",
			car:  Car{Mileage: 1000, IsDiagnosed: true, Symptoms: []string{"Вибрация", "Шум", "Скрип"}},
			want: Verdict{
				Status:  StatusAttention,
				Service: []ServiceItem{},
				Findings: []SymptomFinding{
					{Symptom: "Вибрация", Problem: "Дисбаланс колес"},
					{Symptom: "Скрип", Problem: "Износ тормозных колодок"},
				},
			},
		},
		{
			name: "everything due",
			car:  Car{Mileage: 120000, IsDiagnosed: true, Symptoms: []string{"Стуки"}},
			want: Verdict{
				Status:   StatusAttention,
				Service:  []ServiceItem{ServiceOilChange, ServiceBrakeService, ServiceSuspensionCheck},
				Findings: []SymptomFinding{{Symptom: "Стуки", Problem: "Люфт в подвеске"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Check(tt.car))
		})
	}
}

func TestCheckWithoutDiagnosisRule(t *testing.T) {
	r, err := Load(strings.NewReader(`
critical_rules:
  must_be_diagnosed: false
mileage_rules:
  oil_change: 15000
`))
	require.NoError(t, err)

	v := r.Check(Car{Mileage: 200000})
	assert.Equal(t, StatusAttention, v.Status)
	// zero thresholds are disabled
	assert.Equal(t, []ServiceItem{ServiceOilChange}, v.Service)
	assert.NotNil(t, r.SymptomMapping)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "negative threshold", content: "mileage_rules:\n  oil_change: -1\n"},
		{name: "unknown key", content: "mileage_rule:\n  oil_change: 1\n"},
		{name: "bad yaml", content: "mileage_rules: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	r, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, Default(), r)

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("symptom_mapping:\n  Скрип: Тормоза\n"), 0o644))
	r, err = LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Тормоза", r.SymptomMapping["Скрип"])

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
