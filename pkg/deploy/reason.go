package deploy

import "github.com/modvfs/modvfs/pkg/errors"

// TranslateFunc resolves a message key to localized text. The host's
// internationalization layer supplies the real implementation.
type TranslateFunc func(key, fallback string) string

// Reason explains why a deployment method cannot serve a game. Message is a
// translation key with Fallback as the untranslated text.
type Reason struct {
	Code     errors.ErrorCode
	Key      string
	Fallback string
}

// Describe resolves the reason text through t, or returns the fallback when
// no translator is available.
func (r *Reason) Describe(t TranslateFunc) string {
	if t == nil {
		return r.Fallback
	}
	return t(r.Key, r.Fallback)
}
