// Package credentials derives dashboard logins from a business name.
package credentials

import (
	"regexp"
	"strings"

	"github.com/justclara/onboarding_services/internal/onboarding_service/domain"
)

const (
	DefaultEmailDomain = "justclara.ai"
	passwordSuffix     = "@321"
	emailPrefix        = "support"
)

var whitespace = regexp.MustCompile(`\s+`)

// Generator is pure: the same name always yields the same credentials.
// Names that normalise identically collide; nothing here checks uniqueness.
type Generator struct {
	domain string
}

func NewGenerator(emailDomain string) *Generator {
	if emailDomain == "" {
		emailDomain = DefaultEmailDomain
	}
	return &Generator{domain: emailDomain}
}

// Normalize lowercases name and removes all whitespace. Punctuation is kept.
func Normalize(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(name), "")
}

func (g *Generator) Generate(businessName string) domain.Credentials {
	n := Normalize(businessName)
	return domain.Credentials{
		Email:    emailPrefix + n + "@" + g.domain,
		Password: n + passwordSuffix,
	}
}
