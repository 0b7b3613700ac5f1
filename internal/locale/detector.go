package locale

import (
	"strings"
	"unicode/utf8"
)

const (
	minDetectLen   = 3
	cyrillicCutoff = 0.2
)

// Detect returns BG when more than 20% of the runes in text are Cyrillic
// letters а-я (either case), otherwise EN. Input shorter than three runes
// after trimming always yields Default.
func Detect(text string) Locale {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minDetectLen {
		return Default
	}

	total, cyr := 0, 0
	for _, r := range text {
		total++
		if isCyrillicLetter(r) {
			cyr++
		}
	}
	if float64(cyr)/float64(total) > cyrillicCutoff {
		return BG
	}
	return Default
}

func isCyrillicLetter(r rune) bool {
	return (r >= 'а' && r <= 'я') || (r >= 'А' && r <= 'Я')
}
