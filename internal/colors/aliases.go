package colors

import (
	"strings"

	"github.com/pders01/figma-sync/internal/models"
)

// AliasRule maps color-name keywords to a semantic alias.
type AliasRule struct {
	Alias    string
	Keywords []string
}

// AliasRules is the ordered keyword table used by DeriveAliases.
var AliasRules = []AliasRule{
	{Alias: "primary", Keywords: []string{"primary", "accent", "brand"}},
	{Alias: "secondary", Keywords: []string{"secondary", "text secondary"}},
	{Alias: "background", Keywords: []string{"background primary", "bg primary"}},
	{Alias: "surface", Keywords: []string{"background secondary", "surface", "bg secondary"}},
	{Alias: "error", Keywords: []string{"error", "destructive", "danger"}},
	{Alias: "warning", Keywords: []string{"warning", "caution"}},
	{Alias: "success", Keywords: []string{"success", "positive"}},
	{Alias: "info", Keywords: []string{"info", "link", "information"}},
	{Alias: "divider", Keywords: []string{"divider", "border", "separator"}},
}

// DeriveAliases scans colors in order and binds each alias to the first
// color whose lowercased name contains one of the rule's keywords. A bound
// alias is never rebound.
func DeriveAliases(colors []models.ColorToken) models.Aliases {
	var aliases models.Aliases
	claimed := make(map[string]bool, len(AliasRules))

	for _, c := range colors {
		name := strings.ToLower(c.Name)
		for _, rule := range AliasRules {
			if claimed[rule.Alias] {
				continue
			}
			for _, kw := range rule.Keywords {
				if strings.Contains(name, kw) {
					aliases = append(aliases, models.AliasEntry{Alias: rule.Alias, Token: c.Token})
					claimed[rule.Alias] = true
					break
				}
			}
		}
	}
	return aliases
}
