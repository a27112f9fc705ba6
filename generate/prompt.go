package generate

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	supplegen "github.com/Paranoid-AF/supplegen"
	defaults "github.com/Paranoid-AF/supplegen/default"
)

// PromptData holds the data passed to a prompt template.
type PromptData struct {
	// Count is the exact number of records the batch asks for.
	Count int
	// Next is the one-based number of the first record in the batch.
	Next           int
	MaxIngredients int
	// UserIDs and ProductIDs are the candidate sets of a transactions batch.
	UserIDs    []string
	ProductIDs []string
}

var promptFuncs = template.FuncMap{
	"json": func(v any) (string, error) {
		data, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(data), nil
	},
	"id": func(prefix string, n int) string {
		return fmt.Sprintf("%s%03d", prefix, n)
	},
}

var defaultPrompts = map[supplegen.Kind]string{
	supplegen.KindUsers:        defaults.UsersPrompt,
	supplegen.KindProducts:     defaults.ProductsPrompt,
	supplegen.KindTransactions: defaults.TransactionsPrompt,
}

// Prompts renders the per-kind prompt templates.
type Prompts struct {
	custom map[supplegen.Kind]*template.Template
}

// LoadPrompts reads <kind>.tmpl overrides from dir. Missing files are fine;
// overrides that fail to parse are logged and ignored.
func LoadPrompts(dir string) *Prompts {
	p := &Prompts{custom: make(map[supplegen.Kind]*template.Template)}
	if dir == "" {
		return p
	}
	for _, kind := range supplegen.Kinds {
		path := filepath.Join(dir, string(kind)+".tmpl")
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		t, err := template.New(string(kind)).Funcs(promptFuncs).Parse(string(data))
		if err != nil {
			slog.Warn("failed to parse prompt template, falling back to default", "path", path, "error", err)
			continue
		}
		slog.Info("loaded custom prompt", "path", path)
		p.custom[kind] = t
	}
	return p
}

// Render builds the prompt for one batch of kind.
func (p *Prompts) Render(kind supplegen.Kind, data PromptData) (string, error) {
	if t, ok := p.custom[kind]; ok {
		var buf strings.Builder
		err := t.Execute(&buf, data)
		if err == nil {
			return strings.TrimSpace(buf.String()), nil
		}
		slog.Warn("failed to execute prompt template, falling back to default", "kind", kind, "error", err)
	}

	src, ok := defaultPrompts[kind]
	if !ok {
		return "", fmt.Errorf("no prompt for kind %q", kind)
	}
	t, err := template.New(string(kind)).Funcs(promptFuncs).Parse(src)
	if err != nil {
		return "", fmt.Errorf("invalid embedded %s prompt: %w", kind, err)
	}
	var buf strings.Builder
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
