package romaji

import (
	"strings"
	"unicode"
)

// Katakana block offsets used to fold katakana onto hiragana.
const (
	katakanaFirst = 'ァ'
	katakanaLast  = 'ヶ'
	kanaOffset    = 'ァ' - 'ぁ'
)

const (
	sokuon   = 'っ'
	hatsuon  = 'ん'
	longMark = 'ー'
)

var monographs = map[rune]string{
	'あ': "a", 'い': "i", 'う': "u", 'え': "e", 'お': "o",
	'か': "ka", 'き': "ki", 'く': "ku", 'け': "ke", 'こ': "ko",
	'が': "ga", 'ぎ': "gi", 'ぐ': "gu", 'げ': "ge", 'ご': "go",
	'さ': "sa", 'し': "shi", 'す': "su", 'せ': "se", 'そ': "so",
	'ざ': "za", 'じ': "ji", 'ず': "zu", 'ぜ': "ze", 'ぞ': "zo",
	'た': "ta", 'ち': "chi", 'つ': "tsu", 'て': "te", 'と': "to",
	'だ': "da", 'ぢ': "ji", 'づ': "zu", 'で': "de", 'ど': "do",
	'な': "na", 'に': "ni", 'ぬ': "nu", 'ね': "ne", 'の': "no",
	'は': "ha", 'ひ': "hi", 'ふ': "fu", 'へ': "he", 'ほ': "ho",
	'ば': "ba", 'び': "bi", 'ぶ': "bu", 'べ': "be", 'ぼ': "bo",
	'ぱ': "pa", 'ぴ': "pi", 'ぷ': "pu", 'ぺ': "pe", 'ぽ': "po",
	'ま': "ma", 'み': "mi", 'む': "mu", 'め': "me", 'も': "mo",
	'や': "ya", 'ゆ': "yu", 'よ': "yo",
	'ら': "ra", 'り': "ri", 'る': "ru", 'れ': "re", 'ろ': "ro",
	'わ': "wa", 'ゐ': "i", 'ゑ': "e", 'を': "o",
	'ゔ': "vu",
	'ぁ': "a", 'ぃ': "i", 'ぅ': "u", 'ぇ': "e", 'ぉ': "o",
	'ゃ': "ya", 'ゅ': "yu", 'ょ': "yo", 'ゎ': "wa",
	'ゕ': "ka", 'ゖ': "ke",
}

var digraphs = map[string]string{
	"きゃ": "kya", "きゅ": "kyu", "きょ": "kyo",
	"ぎゃ": "gya", "ぎゅ": "gyu", "ぎょ": "gyo",
	"しゃ": "sha", "しゅ": "shu", "しょ": "sho", "しぇ": "she",
	"じゃ": "ja", "じゅ": "ju", "じょ": "jo", "じぇ": "je",
	"ちゃ": "cha", "ちゅ": "chu", "ちょ": "cho", "ちぇ": "che",
	"ぢゃ": "ja", "ぢゅ": "ju", "ぢょ": "jo",
	"にゃ": "nya", "にゅ": "nyu", "にょ": "nyo",
	"ひゃ": "hya", "ひゅ": "hyu", "ひょ": "hyo",
	"びゃ": "bya", "びゅ": "byu", "びょ": "byo",
	"ぴゃ": "pya", "ぴゅ": "pyu", "ぴょ": "pyo",
	"みゃ": "mya", "みゅ": "myu", "みょ": "myo",
	"りゃ": "rya", "りゅ": "ryu", "りょ": "ryo",
	"てぃ": "ti", "でぃ": "di", "でゅ": "dyu",
	"とぅ": "tu", "どぅ": "du",
	"ふぁ": "fa", "ふぃ": "fi", "ふぇ": "fe", "ふぉ": "fo", "ふゅ": "fyu",
	"うぃ": "wi", "うぇ": "we", "うぉ": "wo",
	"ゔぁ": "va", "ゔぃ": "vi", "ゔぇ": "ve", "ゔぉ": "vo",
	"つぁ": "tsa", "つぃ": "tsi", "つぇ": "tse", "つぉ": "tso",
	"いぇ": "ye", "くぁ": "kwa", "ぐぁ": "gwa",
}

// KanaToRomaji romanizes hiragana and katakana with passport Hepburn rules:
// long vowels are not marked (ou, oo -> o; uu -> u; ー dropped), ん becomes m
// before b, m and p, and っ doubles the next consonant (tch before ch).
// Runes that are not kana pass through unchanged. Whitespace separates words:
// it stops long-vowel folding but a pending っ or the ん rule still applies
// to the next word, so "マッ テ" gives "ma tte" and "サン マイ" gives "sam mai".
func KanaToRomaji(s string) string {
	runes := foldKatakana([]rune(s))

	var b strings.Builder
	b.Grow(len(runes) * 2)

	geminate := false
	for i := 0; i < len(runes); {
		switch runes[i] {
		case sokuon:
			geminate = true
			i++
			continue
		case longMark:
			i++
			continue
		case hatsuon:
			geminate = false
			next, _ := syllableAt(runes, skipSpace(runes, i+1))
			if next != "" && strings.ContainsRune("bmp", rune(next[0])) {
				b.WriteByte('m')
			} else {
				b.WriteByte('n')
			}
			i++
			continue
		}

		ro, width := syllableAt(runes, i)
		if ro == "" {
			if !unicode.IsSpace(runes[i]) {
				geminate = false
			}
			b.WriteRune(runes[i])
			i++
			continue
		}

		if geminate {
			if strings.HasPrefix(ro, "ch") {
				b.WriteByte('t')
			} else if !isVowel(ro[0]) {
				b.WriteByte(ro[0])
			}
			geminate = false
		}
		b.WriteString(ro)
		i += width

		// Passport spelling drops the second vowel of a long o or u.
		if i < len(runes) {
			if _, w := syllableAt(runes, i); w == 1 {
				last := ro[len(ro)-1]
				if (last == 'o' && (runes[i] == 'う' || runes[i] == 'お')) ||
					(last == 'u' && runes[i] == 'う') {
					i++
				}
			}
		}
	}

	return b.String()
}

// syllableAt returns the romaji of the kana syllable starting at i and the
// number of runes it spans, or ("", 0) if runes[i] is not a known kana.
func syllableAt(runes []rune, i int) (string, int) {
	if i >= len(runes) {
		return "", 0
	}
	if i+1 < len(runes) {
		if ro, ok := digraphs[string(runes[i:i+2])]; ok {
			return ro, 2
		}
	}
	if ro, ok := monographs[runes[i]]; ok {
		return ro, 1
	}
	return "", 0
}

// skipSpace returns the index of the first non-space rune at or after i.
func skipSpace(runes []rune, i int) int {
	for i < len(runes) && unicode.IsSpace(runes[i]) {
		i++
	}
	return i
}

// foldKatakana maps katakana onto the matching hiragana in place.
func foldKatakana(runes []rune) []rune {
	for i, r := range runes {
		if r >= katakanaFirst && r <= katakanaLast {
			runes[i] = r - kanaOffset
		}
	}
	return runes
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'i', 'u', 'e', 'o':
		return true
	}
	return false
}
