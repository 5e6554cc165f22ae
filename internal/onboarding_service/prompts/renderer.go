// Package prompts renders the per-business prompt set from embedded templates.
package prompts

import (
	"embed"
	"fmt"
	"strings"

	"github.com/justclara/onboarding_services/internal/onboarding_service/domain"
)

//go:embed templates/*.txt
var templateFS embed.FS

// Renderer substitutes {{Placeholder}} tokens. Unknown tokens are left intact
// so runtime variables such as {{current_time_America/...}} reach the platform.
type Renderer struct {
	global      string
	officeHours string
	afterHours  string
}

// NewRenderer loads the embedded templates.
func NewRenderer() (*Renderer, error) {
	read := func(name string) (string, error) {
		b, err := templateFS.ReadFile("templates/" + name)
		if err != nil {
			return "", fmt.Errorf("failed to read prompt template %s: %w", name, err)
		}
		return string(b), nil
	}

	r := &Renderer{}
	var err error
	if r.global, err = read("global.txt"); err != nil {
		return nil, err
	}
	if r.officeHours, err = read("office_hours.txt"); err != nil {
		return nil, err
	}
	if r.afterHours, err = read("after_hours.txt"); err != nil {
		return nil, err
	}
	return r, nil
}

// NewRendererFromStrings is used by tests and callers with custom templates.
func NewRendererFromStrings(global, officeHours, afterHours string) *Renderer {
	return &Renderer{global: global, officeHours: officeHours, afterHours: afterHours}
}

func (r *Renderer) Render(p domain.BusinessProfile) domain.PromptSet {
	rep := strings.NewReplacer(
		"{{Company_Name}}", p.Name,
		"{{Assistant_Name}}", p.AssistantName,
		"{{Time_Zone}}", p.TimeZone,
		"{{Time_Place}}", p.TimePlace,
		"{{Business_Hours}}", p.BusinessHours,
		"{{Office_Address}}", p.Address,
	)
	return domain.PromptSet{
		Global:      rep.Replace(r.global),
		OfficeHours: rep.Replace(r.officeHours),
		AfterHours:  rep.Replace(r.afterHours),
	}
}
