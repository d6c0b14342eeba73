package assistant

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"finance_tracker/internal/utils"

	"gopkg.in/yaml.v3"
)

//go:embed intents.yaml
var catalogYAML []byte

// Field is one payload field of an intent
type Field struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Optional    bool   `yaml:"optional"`
}

// IntentSpec describes one intent the model may return
type IntentSpec struct {
	Name        Intent  `yaml:"name"`
	Payload     string  `yaml:"payload"`
	Description string  `yaml:"description"`
	Fields      []Field `yaml:"fields"`
}

// Example is a few-shot pair shown to the model
type Example struct {
	Message string `yaml:"message"`
	Output  string `yaml:"output"`
}

// Catalog is the single source of intents, their fields and the few-shot examples
type Catalog struct {
	Instructions string       `yaml:"instructions"`
	Intents      []IntentSpec `yaml:"intents"`
	Examples     []Example    `yaml:"examples"`
}

// UserContext is what the model is told about the user
type UserContext struct {
	Today      time.Time
	Accounts   []AccountRef
	Categories []CategoryRef
}

// AccountRef names one of the user's accounts
type AccountRef struct {
	ID       uint
	Name     string
	BankName string
}

// CategoryRef names one of the user's categories
type CategoryRef struct {
	ID   uint
	Name string
	Type string
}

// LoadCatalog parses the embedded intent catalog
func LoadCatalog() (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(catalogYAML, &c); err != nil {
		return nil, fmt.Errorf("parse intent catalog: %w", err)
	}
	if len(c.Intents) == 0 {
		return nil, fmt.Errorf("intent catalog has no intents")
	}
	return &c, nil
}

// Has reports whether the catalog defines intent
func (c *Catalog) Has(intent Intent) bool {
	for _, def := range c.Intents {
		if def.Name == intent {
			return true
		}
	}
	return false
}

// Prompt renders the full prompt for one message
func (c *Catalog) Prompt(uc UserContext, message string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(c.Instructions))
	b.WriteString("\n\nIntents:\n")
	for _, def := range c.Intents {
		fmt.Fprintf(&b, "- %s: %s\n", def.Name, def.Description)
		for _, f := range def.Fields {
			opt := ""
			if f.Optional {
				opt = " (optional)"
			}
			fmt.Fprintf(&b, "    %s.%s: %s%s\n", def.Payload, f.Name, f.Description, opt)
		}
	}

	b.WriteString("\nExamples:\n")
	for _, ex := range c.Examples {
		fmt.Fprintf(&b, "User: %s\nJSON: %s\n", ex.Message, ex.Output)
	}

	fmt.Fprintf(&b, "\nToday: %s\n", uc.Today.Format(utils.DateLayout))
	b.WriteString("Accounts: ")
	b.WriteString(joinOrNone(len(uc.Accounts), func(i int) string { return uc.Accounts[i].Name }))
	b.WriteString("\nCategories: ")
	b.WriteString(joinOrNone(len(uc.Categories), func(i int) string {
		return uc.Categories[i].Name + " (" + uc.Categories[i].Type + ")"
	}))
	fmt.Fprintf(&b, "\n\nUser: %s\nJSON:", strings.TrimSpace(message))
	return b.String()
}

func joinOrNone(n int, item func(int) string) string {
	if n == 0 {
		return "none"
	}
	parts := make([]string, n)
	for i := range parts {
		parts[i] = item(i)
	}
	return strings.Join(parts, ", ")
}
