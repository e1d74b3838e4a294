package translator

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var displayNamer = display.English.Languages()

// ParseCode validates a language code and returns its canonical form
// ("EN" -> "en", "pt-br" -> "pt-BR"). AutoLang passes through untouched.
func ParseCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("empty language code")
	}
	if strings.EqualFold(code, AutoLang) {
		return AutoLang, nil
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("invalid language code %q: %v", code, err)
	}
	return tag.String(), nil
}

// ParseTarget is ParseCode for a target language, which has to name a
// concrete language: AutoLang is rejected.
func ParseTarget(code string) (string, error) {
	tgt, err := ParseCode(code)
	if err != nil {
		return "", err
	}
	if tgt == AutoLang {
		return "", fmt.Errorf("invalid target language %q: detection only applies to the source", code)
	}
	return tgt, nil
}

// DisplayName returns the English name of a language code, or the code itself
// when it cannot be resolved.
func DisplayName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	base, _ := tag.Base()
	name := displayNamer.Name(base)
	if name == "" {
		return code
	}
	return name
}
