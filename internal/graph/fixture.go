package graph

import "sync"

var components = []Component{
	{Name: "Двигатель", Description: "Основной силовой агрегат", Critical: true},
	{Name: "Тормозная система", Description: "Система безопасности", Critical: true},
	{Name: "Подвеска", Description: "Система амортизации", Critical: false},
	{Name: "Масло двигателя", Description: "Смазка и охлаждение", Critical: true},
	{Name: "Колеса", Description: "Система движения", Critical: true},
	{Name: "Аккумулятор", Description: "Источник электроэнергии", Critical: false},
	{Name: "Тормозные колодки", Description: "Элемент тормоза", Critical: true},
	{Name: "Роторы", Description: "Диски тормозов", Critical: true},
	{Name: "Амортизаторы", Description: "Гасители колебаний", Critical: false},
	{Name: "Фильтры", Description: "Очистка системы", Critical: false},
}

var symptoms = []Symptom{
	{Name: "Скрип", Severity: SeverityHigh, RelatedComponents: []string{"Тормозная система", "Подвеска"}},
	{Name: "Вибрация", Severity: SeverityMedium, RelatedComponents: []string{"Колеса", "Роторы"}},
	{Name: "Стуки", Severity: SeverityHigh, RelatedComponents: []string{"Подвеска", "Двигатель"}},
	{Name: "Запах горелого", Severity: SeverityHigh, RelatedComponents: []string{"Тормозные колодки", "Масло двигателя"}},
	{Name: "Слабый пуск двигателя", Severity: SeverityMedium, RelatedComponents: []string{"Аккумулятор", "Двигатель"}},
}

var problems = []Problem{
	{Name: "Износ тормозных колодок", Description: "Излишний износ материала", AffectedComponent: "Тормозная система", RepairType: RepairReplace},
	{Name: "Дисбаланс колес", Description: "Неточная балансировка", AffectedComponent: "Колеса", RepairType: RepairService},
	{Name: "Утечка масла", Description: "Потеря рабочей жидкости", AffectedComponent: "Двигатель", RepairType: RepairDiagnostics},
	{Name: "Люфт в подвеске", Description: "Ослабление крепежей", AffectedComponent: "Подвеска", RepairType: RepairService},
	{Name: "Разряженный аккумулятор", Description: "Недостаточная емкость", AffectedComponent: "Аккумулятор", RepairType: RepairReplace},
}

var tasks = []MaintenanceTask{
	{Name: "ТО-1 (10,000 км)", MileageInterval: 10000, Components: []string{"Масло двигателя", "Фильтры"}, Description: "Замена масла и масляного фильтра"},
	{Name: "ТО-2 (40,000 км)", MileageInterval: 40000, Components: []string{"Тормозная система", "Колеса"}, Description: "Проверка тормозной системы и балансировка колес"},
	{Name: "ТО-3 (70,000 км)", MileageInterval: 70000, Components: []string{"Подвеска", "Амортизаторы"}, Description: "Осмотр подвески и замена амортизаторов"},
	// Коробка передач is listed for the task but is not a node of its own.
	{Name: "ТО-4 (100,000 км)", MileageInterval: 100000, Components: []string{"Двигатель", "Коробка передач"}, Description: "Полная диагностика двигателя"},
	{Name: "ТО-5 (Сезонное)", MileageInterval: 0, Components: []string{"Колеса", "Аккумулятор"}, Description: "Замена сезонной резины и проверка заряда"},
}

var relations = []Edge{
	// symptom -> component
	{A: "Скрип", B: "Тормозная система", Relation: "может быть на"},
	{A: "Скрип", B: "Подвеска", Relation: "может быть на"},
	{A: "Вибрация", B: "Колеса", Relation: "может быть на"},
	{A: "Вибрация", B: "Роторы", Relation: "может быть на"},
	{A: "Стуки", B: "Подвеска", Relation: "может быть на"},
	{A: "Стуки", B: "Двигатель", Relation: "может быть в"},
	{A: "Запах горелого", B: "Тормозные колодки", Relation: "свидетельствует об износе"},
	{A: "Запах горелого", B: "Масло двигателя", Relation: "указывает на проблему с"},
	{A: "Слабый пуск двигателя", B: "Аккумулятор", Relation: "вызван слабым"},
	{A: "Слабый пуск двигателя", B: "Двигатель", Relation: "может быть в"},

	// problem -> component
	{A: "Износ тормозных колодок", B: "Тормозные колодки", Relation: "проблема в"},
	{A: "Износ тормозных колодок", B: "Тормозная система", Relation: "влияет на"},
	{A: "Дисбаланс колес", B: "Колеса", Relation: "проблема в"},
	{A: "Утечка масла", B: "Двигатель", Relation: "проблема в"},
	{A: "Утечка масла", B: "Масло двигателя", Relation: "связана с"},
	{A: "Люфт в подвеске", B: "Подвеска", Relation: "проблема в"},
	{A: "Люфт в подвеске", B: "Амортизаторы", Relation: "может быть в"},
	{A: "Разряженный аккумулятор", B: "Аккумулятор", Relation: "проблема в"},

	// task -> component
	{A: "ТО-1 (10,000 км)", B: "Масло двигателя", Relation: "замена на"},
	{A: "ТО-1 (10,000 км)", B: "Фильтры", Relation: "замена на"},
	{A: "ТО-2 (40,000 км)", B: "Тормозная система", Relation: "проверка"},
	{A: "ТО-2 (40,000 км)", B: "Колеса", Relation: "балансировка"},
	{A: "ТО-3 (70,000 км)", B: "Подвеска", Relation: "осмотр"},
	{A: "ТО-3 (70,000 км)", B: "Амортизаторы", Relation: "замена на"},
	{A: "ТО-4 (100,000 км)", B: "Двигатель", Relation: "полная диагностика"},
	{A: "ТО-5 (Сезонное)", B: "Колеса", Relation: "замена на"},
	{A: "ТО-5 (Сезонное)", B: "Аккумулятор", Relation: "проверка"},

	// problem -> task
	{A: "Износ тормозных колодок", B: "ТО-2 (40,000 км)", Relation: "решается в"},
	{A: "Дисбаланс колес", B: "ТО-2 (40,000 км)", Relation: "решается в"},
	{A: "Люфт в подвеске", B: "ТО-3 (70,000 км)", Relation: "решается в"},
	{A: "Утечка масла", B: "ТО-4 (100,000 км)", Relation: "диагностируется в"},
	{A: "Разряженный аккумулятор", B: "ТО-5 (Сезонное)", Relation: "проверяется в"},
}

// Build returns a fresh graph populated from the compiled-in fixture.
// The fixture is static, so any error here is a bug in this file.
func Build() *Graph {
	b := NewBuilder()
	for _, c := range components {
		mustAdd(b, Node{Name: c.Name, Type: TypeComponent, Detail: c})
	}
	for _, s := range symptoms {
		mustAdd(b, Node{Name: s.Name, Type: TypeSymptom, Detail: s})
	}
	for _, p := range problems {
		mustAdd(b, Node{Name: p.Name, Type: TypeProblem, Detail: p})
	}
	for _, t := range tasks {
		mustAdd(b, Node{Name: t.Name, Type: TypeTask, Detail: t})
	}
	for _, e := range relations {
		if err := b.AddEdge(e.A, e.B, e.Relation); err != nil {
			panic("graph fixture: " + err.Error())
		}
	}
	return b.Graph()
}

func mustAdd(b *Builder, n Node) {
	if err := b.AddNode(n); err != nil {
		panic("graph fixture: " + err.Error())
	}
}

// Default returns the process-wide graph, built on first use.
var Default = sync.OnceValue(Build)
