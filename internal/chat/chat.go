// Package chat renders resolver responses and rule verdicts as the
// multi-line text shown on the chat surface.
package chat

import (
	"fmt"
	"strings"

	"github.com/nakamasato/cardiag/internal/format"
	"github.com/nakamasato/cardiag/internal/resolver"
	"github.com/nakamasato/cardiag/internal/rules"
)

const (
	GreetingText = "Привет! Я помогу с диагностикой автомобиля. Опишите симптом, назовите компонент, проблему или задачу ТО."
	HelpText     = "Примеры запросов:\n" +
		"  • скрип, вибрация, запах горелого (симптомы)\n" +
		"  • двигатель, подвеска, аккумулятор (компоненты)\n" +
		"  • утечка масла, люфт в подвеске (проблемы)\n" +
		"  • ТО-1, ТО-2, сезонное (задачи ТО)"
	EmptyText   = "Введите запрос: симптом, компонент, проблему или задачу ТО. Напишите «помощь», чтобы увидеть примеры."
	NoMatchText = "Ничего не найдено. Попробуйте другие слова, например: скрип, двигатель, ТО-2."
)

var serviceText = map[rules.ServiceItem]string{
	rules.ServiceOilChange:       "🛢 Требуется замена масла",
	rules.ServiceBrakeService:    "🛑 Проверка тормозной системы",
	rules.ServiceSuspensionCheck: "🔧 Осмотр подвески",
}

// Reply renders a response as chat text.
func Reply(resp resolver.Response) string {
	switch resp.Kind {
	case resolver.KindGreeting:
		return GreetingText
	case resolver.KindHelp:
		return HelpText
	case resolver.KindNoMatch:
		return NoMatchText
	case resolver.KindMatches:
		blocks := make([]string, 0, len(resp.Matches))
		for _, m := range resp.Matches {
			blocks = append(blocks, Match(m))
		}
		return fmt.Sprintf("Найдено совпадений: %d\n\n%s", len(resp.Matches), strings.Join(blocks, "\n\n"))
	default:
		return EmptyText
	}
}

// Match renders one node with its neighborhood.
func Match(m resolver.Match) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s\n", format.TypeLabel(m.Type), m.Description)
	if len(m.Related) == 0 {
		sb.WriteString("  (нет связей)")
		return sb.String()
	}
	sb.WriteString("Связи:")
	for _, r := range m.Related {
		fmt.Fprintf(&sb, "\n  • %s → %s [%s]", r.Relation, r.Description, format.TypeLabel(r.Type))
	}
	return sb.String()
}

// Verdict renders the result of a rule check.
func Verdict(v rules.Verdict) string {
	switch v.Status {
	case rules.StatusBlocked:
		return "⛔️ Критическая ошибка: Автомобиль не прошел диагностику"
	case rules.StatusOK:
		return "✅ Автомобиль не требует обслуживания"
	}

	lines := make([]string, 0, len(v.Service)+len(v.Findings))
	for _, item := range v.Service {
		text, ok := serviceText[item]
		if !ok {
			text = string(item)
		}
		lines = append(lines, text)
	}
	for _, f := range v.Findings {
		lines = append(lines, fmt.Sprintf("❗ Симптом '%s' → %s", f.Symptom, f.Problem))
	}
	return strings.Join(lines, "\n")
}
