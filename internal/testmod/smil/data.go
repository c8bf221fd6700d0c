package smil

import "github.com/psyvista/psytest/internal/scoring"

// Display names, Sobchik adaptation.
var scaleNames = map[string]string{
	"L": "Ложь",
	"F": "Достоверность",
	"K": "Коррекция",
	"1": "Ипохондрия (Hs)",
	"2": "Депрессия (D)",
	"3": "Истерия (Hy)",
	"4": "Психопатия (Pd)",
	"5": "Паранойя (Pa)",
	"6": "Психастения (Pt)",
	"7": "Шизофрения (Sc)",
	"8": "Гипомания (Ma)",
	"9": "Интроверсия (Si)",
}

var validityScales = []string{"L", "F", "K"}

// Declaration order doubles as the dominant-scale tie-break order.
var clinicalScales = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}

var profileRules = scoring.ProfileRules{
	NeuroticTriad:     []string{"1", "2", "3"},
	PsychoticTetrad:   []string{"6", "7", "8", "9"},
	PersonalDeviation: []string{"4", "5"},
}

// K-correction fractions per clinical scale.
var kCorrections = map[string]float64{
	"1": 0.5,
	"3": 0.3,
	"4": 0.4,
	"6": 0.3,
	"7": 0.5,
	"8": 0.2,
	"9": 0.3,
}

// T-score tables. Sparse: intermediate raw values are interpolated by the
// engine. Swappable data, not logic — a full normative set drops in without
// code changes. The K table is reverse-keyed on purpose (higher raw K maps
// to lower T).
var normsMale = scoring.NormTables{
	"L": {0: 35, 1: 40, 2: 45, 3: 50, 4: 55, 5: 60, 6: 65},
	"F": {0: 40, 1: 45, 2: 50, 3: 55, 4: 60, 5: 65, 6: 70},
	"K": {0: 55, 1: 50, 2: 45, 3: 40, 4: 35, 5: 30},
	"1": {0: 35, 5: 45, 10: 55, 15: 65, 20: 75},
	"2": {0: 40, 5: 50, 10: 60, 15: 70, 20: 80},
	"3": {0: 40, 5: 50, 10: 60, 15: 70},
	"4": {0: 40, 5: 50, 10: 60, 15: 70, 20: 80},
	"5": {0: 45, 5: 55, 10: 65, 15: 75},
	"6": {0: 40, 5: 50, 10: 60, 15: 70},
	"7": {0: 35, 5: 45, 10: 55, 15: 65, 20: 75},
	"8": {0: 40, 5: 50, 10: 60, 15: 70, 20: 80},
	"9": {0: 45, 5: 55, 10: 65, 15: 75},
}

var normsFemale = scoring.NormTables{
	"L": {0: 35, 1: 40, 2: 45, 3: 50, 4: 55, 5: 60},
	"F": {0: 40, 1: 45, 2: 50, 3: 55, 4: 60, 5: 65},
	"K": {0: 55, 1: 50, 2: 45, 3: 40, 4: 35},
	"1": {0: 40, 5: 50, 10: 60, 15: 70, 20: 80},
	"2": {0: 45, 5: 55, 10: 65, 15: 75, 20: 85},
	"3": {0: 45, 5: 55, 10: 65, 15: 75},
	"4": {0: 40, 5: 50, 10: 60, 15: 70},
	"5": {0: 45, 5: 55, 10: 65, 15: 75},
	"6": {0: 40, 5: 50, 10: 60, 15: 70},
	"7": {0: 40, 5: 50, 10: 60, 15: 70},
	"8": {0: 40, 5: 50, 10: 60, 15: 70},
	"9": {0: 45, 5: 55, 10: 65, 15: 75},
}

var interpretations = scoring.ScaleTexts{
	"L": {
		scoring.LevelLow:      "Низкая социальная желательность, искренность",
		scoring.LevelNormal:   "Умеренная социальная желательность",
		scoring.LevelElevated: "Стремление представить себя в лучшем свете",
		scoring.LevelHigh:     "Высокая социальная желательность, возможная неискренность",
		scoring.LevelVeryHigh: "Очень высокая социальная желательность, результаты недостоверны",
	},
	"F": {
		scoring.LevelLow:      "Осторожные ответы, возможная скрытность",
		scoring.LevelNormal:   "Достоверные ответы",
		scoring.LevelElevated: "Возможное преувеличение проблем",
		scoring.LevelHigh:     "Выраженное преувеличение проблем или непонимание вопросов",
		scoring.LevelVeryHigh: "Результаты недостоверны, случайные ответы",
	},
	"K": {
		scoring.LevelLow:      "Открытость, самокритичность",
		scoring.LevelNormal:   "Умеренная защитная позиция",
		scoring.LevelElevated: "Защитная позиция, стремление скрыть проблемы",
		scoring.LevelHigh:     "Высокая психологическая защита",
		scoring.LevelVeryHigh: "Очень высокая защита, результаты могут быть занижены",
	},
	"1": {
		scoring.LevelLow:      "Оптимизм, отсутствие ипохондрических тенденций",
		scoring.LevelNormal:   "Нормальный уровень заботы о здоровье",
		scoring.LevelElevated: "Повышенное внимание к здоровью, возможны соматические жалобы",
		scoring.LevelHigh:     "Выраженные ипохондрические тенденции",
		scoring.LevelVeryHigh: "Сильная фиксация на здоровье, множественные жалобы",
	},
	"2": {
		scoring.LevelLow:      "Приподнятое настроение, оптимизм",
		scoring.LevelNormal:   "Нормальное эмоциональное состояние",
		scoring.LevelElevated: "Сниженное настроение, пессимизм",
		scoring.LevelHigh:     "Выраженная депрессия, чувство вины",
		scoring.LevelVeryHigh: "Глубокая депрессия, возможна суицидальная опасность",
	},
	"3": {
		scoring.LevelLow:      "Критичность к себе, реализм",
		scoring.LevelNormal:   "Умеренная эмоциональность",
		scoring.LevelElevated: "Демонстративность, стремление к вниманию",
		scoring.LevelHigh:     "Выраженная истероидность, конверсионные реакции",
		scoring.LevelVeryHigh: "Сильная истероидная акцентуация",
	},
	"4": {
		scoring.LevelLow:      "Высокий самоконтроль, конформность",
		scoring.LevelNormal:   "Умеренная импульсивность",
		scoring.LevelElevated: "Импульсивность, склонность к риску",
		scoring.LevelHigh:     "Выраженная антисоциальность, конфликтность",
		scoring.LevelVeryHigh: "Сильная тенденция к нарушению норм",
	},
	"5": {
		scoring.LevelLow:      "Доверчивость, наивность",
		scoring.LevelNormal:   "Умеренная критичность",
		scoring.LevelElevated: "Подозрительность, чувствительность к критике",
		scoring.LevelHigh:     "Выраженная паранойяльность, ригидность",
		scoring.LevelVeryHigh: "Сильная подозрительность, возможны бредовые идеи",
	},
	"6": {
		scoring.LevelLow:      "Спокойствие, уверенность",
		scoring.LevelNormal:   "Умеренная тревожность",
		scoring.LevelElevated: "Повышенная тревожность, неуверенность",
		scoring.LevelHigh:     "Выраженная тревога, навязчивости",
		scoring.LevelVeryHigh: "Сильная тревожность, возможны фобии",
	},
	"7": {
		scoring.LevelLow:      "Конкретность мышления, практичность",
		scoring.LevelNormal:   "Умеренная рефлексия",
		scoring.LevelElevated: "Своеобразие мышления, богатое воображение",
		scoring.LevelHigh:     "Выраженные шизоидные черты, аутизация",
		scoring.LevelVeryHigh: "Сильное своеобразие мышления, возможна дезорганизация",
	},
	"8": {
		scoring.LevelLow:      "Спокойствие, низкая активность",
		scoring.LevelNormal:   "Умеренная энергичность",
		scoring.LevelElevated: "Повышенная активность, импульсивность",
		scoring.LevelHigh:     "Выраженная гипомания, расторможенность",
		scoring.LevelVeryHigh: "Сильное возбуждение, возможна агрессия",
	},
	"9": {
		scoring.LevelLow:      "Экстраверсия, общительность",
		scoring.LevelNormal:   "Умеренная интроверсия/экстраверсия",
		scoring.LevelElevated: "Выраженная интроверсия, замкнутость",
		scoring.LevelHigh:     "Сильная интроверсия, социальная изоляция",
		scoring.LevelVeryHigh: "Очень сильная интроверсия, аутизация",
	},
}

var typeDescriptions = map[scoring.ProfileType]string{
	scoring.ProfileNormosthenic:      "Профиль находится в пределах нормы. Выраженных акцентуаций не выявлено.",
	scoring.ProfileNeurotic:          "Выявлены черты невротического стиля реагирования. Характерны эмоциональная неустойчивость, повышенная тревожность.",
	scoring.ProfilePsychotic:         "Обнаружены особенности, характерные для шизоидного спектра. Может наблюдаться своеобразие мышления, склонность к интроверсии.",
	scoring.ProfilePersonalDeviation: "Выявлены черты личностной девиации. Возможны трудности социальной адаптации, импульсивность.",
	scoring.ProfileMixed:             "Профиль смешанного типа. Сочетание различных акцентуированных черт.",
}

var typeNames = map[scoring.ProfileType]string{
	scoring.ProfileNormosthenic:      "Нормостенический",
	scoring.ProfileNeurotic:          "Невротический",
	scoring.ProfilePsychotic:         "Психотический",
	scoring.ProfilePersonalDeviation: "Личностная девиация",
	scoring.ProfileMixed:             "Смешанный",
}

var typeRecommendations = map[scoring.ProfileType][]string{
	scoring.ProfileNeurotic: {
		"Рекомендуется консультация психолога для работы с тревожностью",
		"Полезны техники релаксации и стресс-менеджмента",
	},
	scoring.ProfilePsychotic: {
		"Рекомендуется углубленная диагностика у специалиста",
		"Важно учитывать особенности мышления и коммуникации",
	},
	scoring.ProfilePersonalDeviation: {
		"Полезна работа над социальной адаптацией",
		"Рекомендуется развитие навыков самоконтроля",
	},
}

var levelNames = map[scoring.Level]string{
	scoring.LevelLow:      "Низкий",
	scoring.LevelNormal:   "Норма",
	scoring.LevelElevated: "Повышенный",
	scoring.LevelHigh:     "Высокий",
	scoring.LevelVeryHigh: "Очень высокий",
}

const (
	disclaimerLine     = "Результаты тестирования носят ознакомительный характер"
	elevatedAdviceLine = "При наличии жалоб рекомендуется очная консультация специалиста"
	invalidSummary     = "Внимание: результаты тестирования могут быть недостоверны. "
)

var invalidRecommendations = []string{
	"Пройти тестирование повторно, отвечая более искренне",
	"Обратиться к специалисту для очной диагностики",
}
