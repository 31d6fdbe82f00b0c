// Package contentfilter cleans user supplied event text before it is stored.
package contentfilter

import (
	"html"
	"strings"

	goaway "github.com/TwiN/go-away"
	"github.com/microcosm-cc/bluemonday"

	"github.com/vietanh2810/event-api/internal/config"
)

// Filter strips markup and, when enabled, masks profanity. It is safe for concurrent use.
type Filter struct {
	policy   *bluemonday.Policy
	detector *goaway.ProfanityDetector
}

// New builds a ready to use Filter. Nothing is loaded lazily afterwards.
func New(conf *config.FilterConfig) (*Filter, error) {
	f := &Filter{
		policy: bluemonday.StrictPolicy(),
	}

	if conf == nil || !conf.Enabled {
		return f, nil
	}

	profanities := make([]string, 0, len(goaway.DefaultProfanities)+len(conf.ExtraWords))
	profanities = append(profanities, goaway.DefaultProfanities...)
	for _, w := range conf.ExtraWords {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			profanities = append(profanities, w)
		}
	}

	f.detector = goaway.NewProfanityDetector().
		WithSanitizeLeetSpeak(false).
		WithCustomDictionary(profanities, goaway.DefaultFalsePositives, goaway.DefaultFalseNegatives)

	return f, nil
}

// Clean returns s without HTML and with profane words replaced by asterisks.
func (f *Filter) Clean(s string) string {
	// StrictPolicy escapes entities, plain text is wanted back.
	cleaned := html.UnescapeString(f.policy.Sanitize(s))
	if f.detector != nil {
		cleaned = f.detector.Censor(cleaned)
	}

	return strings.TrimSpace(cleaned)
}
