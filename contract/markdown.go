package contract

import (
	"fmt"
	"strconv"
	"strings"
)

// Markdown renders the bound contracts as a Markdown table.
func (b *Binder) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s %s\n\n", b.title, b.version)
	if b.description != "" {
		sb.WriteString(b.description + "\n\n")
	}

	contracts := b.Contracts()
	if len(contracts) == 0 {
		sb.WriteString("_No routes bound._\n")
		return sb.String()
	}

	sb.WriteString("| Method | Path | Operation | Summary | Input | Responses |\n")
	sb.WriteString("|---|---|---|---|---|---|\n")
	for _, c := range contracts {
		summary := c.Summary
		if c.Deprecated {
			summary = strings.TrimSpace(summary + " _(deprecated)_")
		}
		fmt.Fprintf(&sb, "| %s | `%s` | %s | %s | %s | %s |\n",
			c.Method, c.Path, c.OperationID, escapeCell(summary), inputParts(c.Input), statusList(c))
	}
	return sb.String()
}

func inputParts(in Input) string {
	var parts []string
	if in.Path != nil {
		parts = append(parts, "path")
	}
	if in.Query != nil {
		parts = append(parts, "query")
	}
	if in.Body != nil {
		parts = append(parts, "body ("+strings.Join(in.BodyTypes, ", ")+")")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

func statusList(c *Contract) string {
	statuses := c.Statuses()
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = strconv.Itoa(s)
	}
	return strings.Join(out, ", ")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
