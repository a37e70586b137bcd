package navigator

import "strings"

// maxLetters — сколько вариантов можно выбрать буквой (A-Z).
const maxLetters = 26

// LetterToIndex преобразует букву в индекс (A=0, B=1, ...). Регистр не важен.
func LetterToIndex(letter string) (int, bool) {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if len(letter) != 1 {
		return -1, false
	}

	idx := int(letter[0] - 'A')
	if idx < 0 || idx >= maxLetters {
		return -1, false
	}

	return idx, true
}

// IndexToLetter преобразует индекс в букву (0=A, 1=B, ...).
func IndexToLetter(idx int) string {
	if idx >= 0 && idx < maxLetters {
		return string(rune('A' + idx))
	}

	return ""
}
