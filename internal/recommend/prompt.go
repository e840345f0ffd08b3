package recommend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wichananm65/bike-catalog/internal/bike"
	"github.com/wichananm65/bike-catalog/pkg/llm"
)

const systemTemplate = `You are a helpful bike shop assistant. Recommend bikes to the customer using only the bikes listed below. If none of them fits, say so instead of suggesting a bike that is not listed.

Available bikes:
%INVENTORY%

Keep the answer short and explain why each recommended bike matches the customer's needs.`

// Prompt is the system instruction and user turn sent to the completion service.
type Prompt struct {
	System string
	User   string
}

// BuildPrompt renders the inventory into the system instruction, one line per
// bike in the order given, and passes the question through untouched.
func BuildPrompt(bikes []bike.Bike, question string) Prompt {
	lines := make([]string, 0, len(bikes))
	for _, b := range bikes {
		lines = append(lines, inventoryLine(b))
	}
	return Prompt{
		System: strings.Replace(systemTemplate, "%INVENTORY%", strings.Join(lines, "\n"), 1),
		User:   question,
	}
}

func (p Prompt) Messages() []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: p.System},
		{Role: llm.RoleUser, Content: p.User},
	}
}

// inventoryLine renders "- {name} ({category}): ${price} - {description}".
// Price uses the shortest exact form, so 300 renders as "300".
func inventoryLine(b bike.Bike) string {
	desc := ""
	if b.Description != nil {
		desc = *b.Description
	}
	return fmt.Sprintf("- %s (%s): $%s - %s", b.Name, b.Category, formatPrice(b.Price), desc)
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
