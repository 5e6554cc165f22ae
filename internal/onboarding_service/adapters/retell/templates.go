package retell

import (
	"embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml
var templateFS embed.FS

const (
	templateLLM      = "llm"
	templateAgent    = "agent"
	templateCallFlow = "conversation_flow"

	supportedTemplateVersion = 1
)

// payloadTemplate is a static request body with {{name}} placeholders.
// A string leaf that is exactly one placeholder takes the variable's value
// with its type; a nil value removes the key or list element. Placeholders
// inside longer strings are replaced textually.
type payloadTemplate struct {
	name    string
	Version int `yaml:"version"`
	Payload any `yaml:"payload"`
}

type vars map[string]any

var unboundPlaceholder = regexp.MustCompile(`\{\{([a-z_]+)\}\}`)

type removed struct{}

func loadTemplates() (map[string]*payloadTemplate, error) {
	out := make(map[string]*payloadTemplate)
	for _, name := range []string{templateLLM, templateAgent, templateCallFlow} {
		file := fmt.Sprintf("templates/%s.v%d.yaml", name, supportedTemplateVersion)
		data, err := templateFS.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", file, err)
		}
		t, err := parseTemplate(name, data)
		if err != nil {
			return nil, err
		}
		out[name] = t
	}
	return out, nil
}

func parseTemplate(name string, data []byte) (*payloadTemplate, error) {
	t := &payloadTemplate{name: name}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	if t.Version != supportedTemplateVersion {
		return nil, fmt.Errorf("template %s: unsupported version %d", name, t.Version)
	}
	if _, ok := t.Payload.(map[string]any); !ok {
		return nil, fmt.Errorf("template %s: payload must be a mapping", name)
	}
	return t, nil
}

// render returns a fresh payload; the template itself is never modified.
func (t *payloadTemplate) render(v vars) (map[string]any, error) {
	pairs := make([]string, 0, len(v)*2)
	for k, val := range v {
		if s, ok := val.(string); ok {
			pairs = append(pairs, "{{"+k+"}}", s)
		}
	}
	r := &renderer{vars: v, text: strings.NewReplacer(pairs...)}

	out := r.walk(t.Payload)
	if r.unbound != "" {
		return nil, fmt.Errorf("template %s: unbound placeholder {{%s}}", t.name, r.unbound)
	}
	return out.(map[string]any), nil
}

type renderer struct {
	vars    vars
	text    *strings.Replacer
	unbound string
}

func (r *renderer) walk(node any) any {
	switch n := node.(type) {
	case map[string]any:
		m := make(map[string]any, len(n))
		for k, child := range n {
			val := r.walk(child)
			if _, drop := val.(removed); drop {
				continue
			}
			m[k] = val
		}
		return m
	case []any:
		s := make([]any, 0, len(n))
		for _, child := range n {
			val := r.walk(child)
			if _, drop := val.(removed); drop {
				continue
			}
			s = append(s, val)
		}
		return s
	case string:
		if key, ok := soleKey(n); ok {
			if val, bound := r.vars[key]; bound {
				if val == nil {
					return removed{}
				}
				return val
			}
		}
		out := r.text.Replace(n)
		if m := unboundPlaceholder.FindStringSubmatch(out); m != nil && r.unbound == "" {
			r.unbound = m[1]
		}
		return out
	default:
		return n
	}
}

// soleKey reports whether s is exactly "{{key}}".
func soleKey(s string) (string, bool) {
	if !strings.HasPrefix(s, "{{") || !strings.HasSuffix(s, "}}") {
		return "", false
	}
	key := s[2 : len(s)-2]
	if key == "" || strings.ContainsAny(key, "{} /") {
		return "", false
	}
	return key, true
}
