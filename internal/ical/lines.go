package ical

import "strings"

// unfold склеивает строки-продолжения (начинаются с пробела или табуляции)
// с предыдущей логической строкой. Выполняется до любого разбора свойств,
// так как перенос может разрезать имя, параметр или значение.
func unfold(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		if raw == "" {
			continue
		}
		if (raw[0] == ' ' || raw[0] == '\t') && len(lines) > 0 {
			lines[len(lines)-1] += raw[1:]
			continue
		}
		lines = append(lines, raw)
	}
	return lines
}
