// Package format renders graph entities as one-line, human readable text.
package format

import (
	"fmt"
	"strings"

	"github.com/nakamasato/cardiag/internal/graph"
)

var severityEmoji = map[string]string{
	graph.SeverityLow:    "🟢",
	graph.SeverityMedium: "🟡",
	graph.SeverityHigh:   "🔴",
}

var repairEmoji = map[string]string{
	graph.RepairReplace:     "🔄",
	graph.RepairService:     "🔧",
	graph.RepairDiagnostics: "🔍",
}

var typeLabels = map[graph.EntityType]string{
	graph.TypeComponent: "Компонент",
	graph.TypeSymptom:   "Симптом",
	graph.TypeProblem:   "Проблема",
	graph.TypeTask:      "Задача ТО",
}

// TypeLabel returns the display label of an entity type.
func TypeLabel(t graph.EntityType) string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	return string(t)
}

// Describe returns the description of a node, derived from its detail.
// Nodes without a detail fall back to "[type] name".
func Describe(n graph.Node) string {
	switch d := n.Detail.(type) {
	case graph.Component:
		return Component(d)
	case graph.Symptom:
		return Symptom(d)
	case graph.Problem:
		return Problem(d)
	case graph.MaintenanceTask:
		return Task(d)
	default:
		return fmt.Sprintf("[%s] %s", n.Type, n.Name)
	}
}

func Component(c graph.Component) string {
	status := "🟡 Важна"
	if c.Critical {
		status = "🔴 КРИТИЧНА"
	}
	return fmt.Sprintf("[%s] %s: %s", status, c.Name, c.Description)
}

func Symptom(s graph.Symptom) string {
	emoji, ok := severityEmoji[s.Severity]
	if !ok {
		emoji = "⚪"
	}
	return fmt.Sprintf("%s %s (тяжесть: %s)", emoji, s.Name, s.Severity)
}

func Problem(p graph.Problem) string {
	emoji, ok := repairEmoji[p.RepairType]
	if !ok {
		emoji = "⚙️"
	}
	return fmt.Sprintf("%s %s (%s)", emoji, p.Name, p.AffectedComponent)
}

func Task(t graph.MaintenanceTask) string {
	return fmt.Sprintf("📋 %s (через %d км) для: %s", t.Name, t.MileageInterval, strings.Join(t.Components, ", "))
}
