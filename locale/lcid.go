package locale

import (
	"fmt"

	"golang.org/x/text/language"
)

// Lcid is a Windows language identifier, as written by the \deflang and
// \lang control words.
type Lcid int

// A selection of Windows language identifiers.
const (
	Arabic      Lcid = 1025
	Chinese     Lcid = 2052
	Czech       Lcid = 1029
	Danish      Lcid = 1030
	German      Lcid = 1031
	Greek       Lcid = 1032
	English     Lcid = 1033
	Finnish     Lcid = 1035
	French      Lcid = 1036
	Hebrew      Lcid = 1037
	Hungarian   Lcid = 1038
	Italian     Lcid = 1040
	Japanese    Lcid = 1041
	Korean      Lcid = 1042
	Dutch       Lcid = 1043
	Norwegian   Lcid = 1044
	Polish      Lcid = 1045
	Portuguese  Lcid = 2070
	Brazilian   Lcid = 1046
	Russian     Lcid = 1049
	Swedish     Lcid = 1053
	Thai        Lcid = 1054
	Turkish     Lcid = 1055
	Urdu        Lcid = 1056
	Ukrainian   Lcid = 1058
	Farsi       Lcid = 1065
	Hindi       Lcid = 1081
	Spanish     Lcid = 3082
	EnglishUK   Lcid = 2057
	ArabicUAE   Lcid = 14337
	ArabicEgypt Lcid = 3073
)

// lcidTags lists the BCP 47 tag of every known Lcid. Regional variants come
// after the language default so that LcidOf prefers an exact region match.
var lcidTags = []struct {
	lcid Lcid
	tag  string
}{
	{Arabic, "ar-SA"},
	{ArabicUAE, "ar-AE"},
	{ArabicEgypt, "ar-EG"},
	{Chinese, "zh-CN"},
	{Czech, "cs-CZ"},
	{Danish, "da-DK"},
	{German, "de-DE"},
	{Greek, "el-GR"},
	{English, "en-US"},
	{EnglishUK, "en-GB"},
	{Finnish, "fi-FI"},
	{French, "fr-FR"},
	{Hebrew, "he-IL"},
	{Hungarian, "hu-HU"},
	{Italian, "it-IT"},
	{Japanese, "ja-JP"},
	{Korean, "ko-KR"},
	{Dutch, "nl-NL"},
	{Norwegian, "nb-NO"},
	{Polish, "pl-PL"},
	{Portuguese, "pt-PT"},
	{Brazilian, "pt-BR"},
	{Russian, "ru-RU"},
	{Swedish, "sv-SE"},
	{Thai, "th-TH"},
	{Turkish, "tr-TR"},
	{Urdu, "ur-PK"},
	{Ukrainian, "uk-UA"},
	{Farsi, "fa-IR"},
	{Hindi, "hi-IN"},
	{Spanish, "es-ES"},
}

// Tag returns the language tag of the identifier. Unknown identifiers map
// to language.Und.
func (l Lcid) Tag() language.Tag {
	for _, e := range lcidTags {
		if e.lcid == l {
			return language.MustParse(e.tag)
		}
	}
	return language.Und
}

func (l Lcid) String() string {
	if t := l.Tag(); t != language.Und {
		return t.String()
	}
	return fmt.Sprintf("Lcid(%d)", int(l))
}

// LcidOf returns the identifier that best matches tag: an exact
// language-region match first, then the first identifier with the same
// base language, then English.
func LcidOf(tag language.Tag) Lcid {
	base, _ := tag.Base()
	region, regionConf := tag.Region()

	var fallback Lcid
	for _, e := range lcidTags {
		t := language.MustParse(e.tag)
		b, _ := t.Base()
		if b != base {
			continue
		}
		r, _ := t.Region()
		if regionConf == language.Exact && r == region {
			return e.lcid
		}
		if fallback == 0 {
			fallback = e.lcid
		}
	}
	if fallback != 0 {
		return fallback
	}
	return English
}

// Parse parses a BCP 47 tag such as "en-US" or "ar-AE".
func Parse(s string) (language.Tag, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("parsing locale %q: %w", s, err)
	}
	return tag, nil
}
