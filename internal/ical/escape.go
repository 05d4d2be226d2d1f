package ical

import "strings"

// unescapeText снимает экранирование TEXT-значений: \, \; \n \N \\.
// Прочие обратные слеши остаются как есть.
func unescapeText(value string) string {
	if !strings.Contains(value, `\`) {
		return value
	}

	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c != '\\' || i+1 == len(value) {
			b.WriteByte(c)
			continue
		}
		switch next := value[i+1]; next {
		case ',', ';', '\\':
			b.WriteByte(next)
			i++
		case 'n', 'N':
			b.WriteByte('\n')
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
