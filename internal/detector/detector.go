// Package detector guesses the language of a text with lingua.
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// Detector is safe for concurrent use. Building one is expensive; do it once.
type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector restricted to the given ISO 639-1 codes, or to every
// language lingua knows when codes is empty. Unknown codes are ignored.
func New(codes ...string) *Detector {
	builder := lingua.NewLanguageDetectorBuilder()

	var isoCodes []lingua.IsoCode639_1
	for _, code := range codes {
		iso := lingua.GetIsoCode639_1FromValue(strings.ToUpper(strings.TrimSpace(code)))
		if iso != lingua.UnknownIsoCode639_1 {
			isoCodes = append(isoCodes, iso)
		}
	}

	var detector lingua.LanguageDetector
	if len(isoCodes) >= 2 {
		detector = builder.FromIsoCodes639_1(isoCodes...).Build()
	} else {
		detector = builder.FromAllLanguages().Build()
	}

	return &Detector{detector: detector}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if strings.TrimSpace(text) == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the lower-case ISO 639-1 code of the detected language.
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
