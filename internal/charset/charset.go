// Package charset implements the streaming byte/character decoder described
// in spec section 4.1, plus the per-language charset candidate selection of
// section 4.5. Decoding is delegated to golang.org/x/text encoding packages;
// this package's job is the stateful, partial-sequence-aware streaming layer
// and the installer-specific candidate ordering on top of it.
package charset

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// Name identifies one of the supported charsets by a short canonical string.
// Names are stable wire/config identifiers, not display strings.
type Name string

const (
	UTF8              Name = "UTF-8"
	Windows1252       Name = "Windows-1252"
	Windows1250       Name = "Windows-1250"
	Windows1251       Name = "Windows-1251"
	IBM866            Name = "IBM-866"
	Big5              Name = "Big5"
	GBK               Name = "GBK"
	ShiftJIS          Name = "Shift-JIS"
	CP949             Name = "CP949"
	EUCKR             Name = "EUC-KR"
)

// encodings maps each Name to the golang.org/x/text encoding.Encoding that
// implements it. unicode.UTF8 is used (rather than hand-rolled utf8 partial
// decoding) so that every charset, including UTF-8, shares one streaming
// code path through transform.Transformer.
var encodings = map[Name]encoding.Encoding{
	UTF8:        unicode.UTF8,
	Windows1252: charmap.Windows1252,
	Windows1250: charmap.Windows1250,
	Windows1251: charmap.Windows1251,
	IBM866:      charmap.CodePage866,
	Big5:        traditionalchinese.Big5,
	GBK:         simplifiedchinese.GBK,
	ShiftJIS:    japanese.ShiftJIS,
	CP949:       korean.EUCKR, // x/text has no distinct CP949; its EUC-KR codec is a CP949 superset
	EUCKR:       korean.EUCKR,
}

// Encoding returns the golang.org/x/text encoding for a charset Name, and
// whether it is known.
func Encoding(n Name) (encoding.Encoding, bool) {
	e, ok := encodings[n]
	return e, ok
}

// fragmentTable implements the section 4.5 language-name fragment mapping.
// Rows are matched independently: every row with a matching fragment
// appends its candidates after UTF-8, in table order and, within a row, in
// the listed order (so "Traditional Chinese" yields Big5 then GBK).
var fragmentTable = []struct {
	fragments []string
	candidates []Name
}{
	{
		fragments: []string{
			"english", "american", "british", "french", "français", "francais",
			"german", "deutsch", "italian", "spanish", "castilian", "español",
			"espanol", "castellano", "portuguese", "brazilian", "portugués",
			"portugues", "brasil",
		},
		candidates: []Name{Windows1252},
	},
	{
		fragments:  []string{"czech", "česky", "cesky", "polish", "polski"},
		candidates: []Name{Windows1250},
	},
	{
		fragments:  []string{"russian", "russki", "русский"},
		candidates: []Name{IBM866, Windows1251},
	},
	{
		fragments:  []string{"traditional chinese", "traditional", "繁體"},
		candidates: []Name{Big5},
	},
	{
		fragments:  []string{"simplified chinese", "simplified", "chinese", "简体", "中文"},
		candidates: []Name{GBK},
	},
	{
		fragments:  []string{"japanese", "nihon", "日本語", "日本"},
		candidates: []Name{ShiftJIS},
	},
	{
		fragments:  []string{"korean", "hangug", "한국"},
		candidates: []Name{CP949, EUCKR},
	},
}

// CandidatesForLanguage returns the ordered charset candidates for a
// language name: UTF-8 is always first, followed by the code pages matched
// by case-insensitive substring against the language name, per section 4.5.
func CandidatesForLanguage(language string) []Name {
	lower := strings.ToLower(language)
	candidates := []Name{UTF8}
	for _, row := range fragmentTable {
		for _, frag := range row.fragments {
			if strings.Contains(lower, strings.ToLower(frag)) {
				candidates = append(candidates, row.candidates...)
				break
			}
		}
	}
	return candidates
}
