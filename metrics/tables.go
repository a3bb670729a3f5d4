package metrics

// Advance widths in 1/1000 em. Latin glyphs follow the Standard-14 AFM
// metrics; Cyrillic glyphs were measured from the corresponding TrueType
// families.

// Base table identifiers usable from a Calibration.
const (
	BaseSerif = "serif"
	BaseSans  = "sans"
	BaseMono  = "mono"
)

var baseTables = map[string]map[rune]float64{
	BaseSerif: serifWidths,
	BaseSans:  sansWidths,
	BaseMono:  {},
}

var serifWidths = map[rune]float64{
	' ': 250, '!': 333, '"': 408, '#': 500, '$': 500, '%': 833, '&': 778, '\'': 180,
	'(': 333, ')': 333, '*': 500, '+': 564, ',': 250, '-': 333, '.': 250, '/': 278,
	'0': 500, '1': 500, '2': 500, '3': 500, '4': 500, '5': 500, '6': 500, '7': 500,
	'8': 500, '9': 500, ':': 278, ';': 278, '<': 564, '=': 564, '>': 564, '?': 444,
	'@': 921, 'A': 722, 'B': 667, 'C': 667, 'D': 722, 'E': 611, 'F': 556, 'G': 722,
	'H': 722, 'I': 333, 'J': 389, 'K': 722, 'L': 611, 'M': 889, 'N': 722, 'O': 722,
	'P': 556, 'Q': 722, 'R': 667, 'S': 556, 'T': 611, 'U': 722, 'V': 722, 'W': 944,
	'X': 722, 'Y': 722, 'Z': 611, '[': 333, '\\': 278, ']': 333, '^': 469, '_': 500,
	'`': 333, 'a': 444, 'b': 500, 'c': 444, 'd': 500, 'e': 444, 'f': 333, 'g': 500,
	'h': 500, 'i': 278, 'j': 278, 'k': 500, 'l': 278, 'm': 778, 'n': 500, 'o': 500,
	'p': 500, 'q': 500, 'r': 333, 's': 389, 't': 278, 'u': 500, 'v': 500, 'w': 722,
	'x': 500, 'y': 500, 'z': 444, '{': 480, '|': 200, '}': 480, '~': 541,
	'\u00a0': 250, '«': 500, '»': 500, '—': 1000, '–': 500, '…': 1000, '№': 1001,
	'“': 444, '”': 444, '‘': 333, '’': 333, '°': 400, '×': 564, '±': 564,

	'А': 722, 'Б': 574, 'В': 667, 'Г': 578, 'Д': 682, 'Е': 611, 'Ё': 611, 'Ж': 896,
	'З': 501, 'И': 722, 'Й': 722, 'К': 667, 'Л': 678, 'М': 889, 'Н': 722, 'О': 722,
	'П': 722, 'Р': 556, 'С': 667, 'Т': 611, 'У': 715, 'Ф': 790, 'Х': 722, 'Ц': 722,
	'Ч': 668, 'Ш': 1014, 'Щ': 1014, 'Ъ': 706, 'Ы': 872, 'Ь': 574, 'Э': 660, 'Ю': 1030,
	'Я': 667,
	'а': 444, 'б': 509, 'в': 472, 'г': 410, 'д': 509, 'е': 444, 'ё': 444, 'ж': 691,
	'з': 395, 'и': 535, 'й': 535, 'к': 486, 'л': 499, 'м': 633, 'н': 535, 'о': 500,
	'п': 535, 'р': 500, 'с': 444, 'т': 437, 'у': 500, 'ф': 648, 'х': 500, 'ц': 535,
	'ч': 503, 'ш': 770, 'щ': 770, 'ъ': 517, 'ы': 672, 'ь': 456, 'э': 429, 'ю': 747,
	'я': 460,
}

var sansWidths = map[rune]float64{
	' ': 278, '!': 278, '"': 355, '#': 556, '$': 556, '%': 889, '&': 667, '\'': 191,
	'(': 333, ')': 333, '*': 389, '+': 584, ',': 278, '-': 333, '.': 278, '/': 278,
	'0': 556, '1': 556, '2': 556, '3': 556, '4': 556, '5': 556, '6': 556, '7': 556,
	'8': 556, '9': 556, ':': 278, ';': 278, '<': 584, '=': 584, '>': 584, '?': 556,
	'@': 1015, 'A': 667, 'B': 667, 'C': 722, 'D': 722, 'E': 667, 'F': 611, 'G': 778,
	'H': 722, 'I': 278, 'J': 500, 'K': 667, 'L': 556, 'M': 833, 'N': 722, 'O': 778,
	'P': 667, 'Q': 778, 'R': 722, 'S': 667, 'T': 611, 'U': 722, 'V': 667, 'W': 944,
	'X': 667, 'Y': 667, 'Z': 611, '[': 278, '\\': 278, ']': 278, '^': 469, '_': 556,
	'`': 333, 'a': 556, 'b': 556, 'c': 500, 'd': 556, 'e': 556, 'f': 278, 'g': 556,
	'h': 556, 'i': 222, 'j': 222, 'k': 500, 'l': 222, 'm': 833, 'n': 556, 'o': 556,
	'p': 556, 'q': 556, 'r': 333, 's': 500, 't': 278, 'u': 556, 'v': 500, 'w': 722,
	'x': 500, 'y': 500, 'z': 500, '{': 334, '|': 260, '}': 334, '~': 584,
	'\u00a0': 278, '«': 556, '»': 556, '—': 1000, '–': 556, '…': 1000, '№': 1073,
	'“': 333, '”': 333, '‘': 222, '’': 222, '°': 400, '×': 584, '±': 584,

	'А': 667, 'Б': 656, 'В': 667, 'Г': 542, 'Д': 677, 'Е': 667, 'Ё': 667, 'Ж': 923,
	'З': 604, 'И': 719, 'Й': 719, 'К': 583, 'Л': 656, 'М': 833, 'Н': 722, 'О': 778,
	'П': 719, 'Р': 667, 'С': 722, 'Т': 611, 'У': 635, 'Ф': 760, 'Х': 667, 'Ц': 740,
	'Ч': 667, 'Ш': 917, 'Щ': 938, 'Ъ': 792, 'Ы': 885, 'Ь': 656, 'Э': 719, 'Ю': 1010,
	'Я': 722,
	'а': 556, 'б': 573, 'в': 531, 'г': 365, 'д': 583, 'е': 556, 'ё': 556, 'ж': 669,
	'з': 458, 'и': 559, 'й': 559, 'к': 438, 'л': 583, 'м': 688, 'н': 552, 'о': 556,
	'п': 542, 'р': 556, 'с': 500, 'т': 458, 'у': 500, 'ф': 823, 'х': 500, 'ц': 573,
	'ч': 521, 'ш': 802, 'щ': 823, 'ъ': 625, 'ы': 719, 'ь': 521, 'э': 510, 'ю': 750,
	'я': 542,
}
