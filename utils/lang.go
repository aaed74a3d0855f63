package utils

import (
	"path"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"
)

var bundle = i18n.NewBundle(language.English)

// SupportedLanguages are the languages of the bundled message files.
var SupportedLanguages = []language.Tag{
	language.English,
	language.TraditionalChinese,
}

var languageMatcher = language.NewMatcher(SupportedLanguages)

func InitI18NBundle() {
	if err := LoadI18NBundle(viper.GetString("i18n.dir")); err != nil {
		panic(err)
	}
}

// LoadI18NBundle loads the message files in dir.
func LoadI18NBundle(dir string) error {
	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
	for _, f := range []string{"en.yaml", "zh_tw.yaml"} {
		if _, err := b.LoadMessageFile(path.Join(dir, f)); err != nil {
			return err
		}
	}
	bundle = b
	return nil
}

func NewLocalizer(lang string) *i18n.Localizer {
	return i18n.NewLocalizer(bundle, lang)
}

// MatchLanguage returns the supported language closest to lang, English when
// nothing matches.
func MatchLanguage(lang string) language.Tag {
	tag, _ := language.MatchStrings(languageMatcher, lang)
	base, _ := tag.Base()
	for _, s := range SupportedLanguages {
		if b, _ := s.Base(); b == base {
			return s
		}
	}
	return language.English
}
