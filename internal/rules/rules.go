// Package rules implements the rule-based maintenance check: a hard
// diagnosis filter, mileage service thresholds and a symptom to problem
// mapping.
package rules

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v2"
)

//go:embed default_rules.yaml
var defaultRules []byte

type CriticalRules struct {
	MustBeDiagnosed bool `yaml:"must_be_diagnosed" json:"must_be_diagnosed"`
}

// MileageRules are thresholds in km. Zero disables a rule.
type MileageRules struct {
	OilChange       int `yaml:"oil_change" json:"oil_change"`
	BrakeService    int `yaml:"brake_service" json:"brake_service"`
	SuspensionCheck int `yaml:"suspension_check" json:"suspension_check"`
}

// Rules is the rules file.
type Rules struct {
	CriticalRules  CriticalRules     `yaml:"critical_rules" json:"critical_rules"`
	MileageRules   MileageRules      `yaml:"mileage_rules" json:"mileage_rules"`
	SymptomMapping map[string]string `yaml:"symptom_mapping" json:"symptom_mapping"`
}

// Car is the input of a check.
type Car struct {
	Model       string   `json:"car_model"`
	Mileage     int      `json:"mileage"`
	Symptoms    []string `json:"symptoms"`
	IsDiagnosed bool     `json:"is_diagnosed"`
}

type Status string

const (
	StatusBlocked   Status = "blocked"
	StatusAttention Status = "attention"
	StatusOK        Status = "ok"
)

type ServiceItem string

const (
	ServiceOilChange       ServiceItem = "oil_change"
	ServiceBrakeService    ServiceItem = "brake_service"
	ServiceSuspensionCheck ServiceItem = "suspension_check"
)

// SymptomFinding links a reported symptom to the problem it points at.
type SymptomFinding struct {
	Symptom string `json:"symptom"`
	Problem string `json:"problem"`
}

// Verdict is the outcome of a check.
type Verdict struct {
	Status   Status           `json:"status"`
	Service  []ServiceItem    `json:"service"`
	Findings []SymptomFinding `json:"findings"`
}

// Default returns the compiled-in rules.
func Default() *Rules {
	r, err := Load(bytes.NewReader(defaultRules))
	if err != nil {
		panic("default rules: " + err.Error())
	}
	return r
}

// Load parses and validates a rules document.
func Load(r io.Reader) (*Rules, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}
	var rules Rules
	if err := yaml.UnmarshalStrict(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if rules.SymptomMapping == nil {
		rules.SymptomMapping = map[string]string{}
	}
	return &rules, nil
}

// LoadFile reads rules from path. An empty path yields the defaults.
func LoadFile(path string) (*Rules, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rules file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func (r *Rules) Validate() error {
	m := r.MileageRules
	if m.OilChange < 0 || m.BrakeService < 0 || m.SuspensionCheck < 0 {
		return fmt.Errorf("mileage thresholds must not be negative: %+v", m)
	}
	return nil
}

// Check evaluates the rules against a car. An undiagnosed car is blocked
// outright when the rules require a diagnosis; nothing else is evaluated.
func (r *Rules) Check(car Car) Verdict {
	v := Verdict{Service: []ServiceItem{}, Findings: []SymptomFinding{}}

	if r.CriticalRules.MustBeDiagnosed && !car.IsDiagnosed {
		v.Status = StatusBlocked
		return v
	}

	thresholds := []struct {
		item  ServiceItem
		limit int
	}{
		{ServiceOilChange, r.MileageRules.OilChange},
		{ServiceBrakeService, r.MileageRules.BrakeService},
		{ServiceSuspensionCheck, r.MileageRules.SuspensionCheck},
	}
	for _, th := range thresholds {
		if th.limit > 0 && car.Mileage >= th.limit {
			v.Service = append(v.Service, th.item)
		}
	}

	for _, s := range car.Symptoms {
		if problem, ok := r.SymptomMapping[s]; ok {
			v.Findings = append(v.Findings, SymptomFinding{Symptom: s, Problem: problem})
		}
	}

	if len(v.Service) == 0 && len(v.Findings) == 0 {
		v.Status = StatusOK
	} else {
		v.Status = StatusAttention
	}
	return v
}
