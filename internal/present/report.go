package present

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// markdown renders GFM tables.
var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// Markdown renders rows as a Markdown table. An empty set renders a short
// note instead of an empty table.
func Markdown(rows []Row) string {
	if len(rows) == 0 {
		return "_No bookmarks._\n"
	}

	var b strings.Builder
	b.WriteString("| " + strings.Join(columnHeadings, " | ") + " |\n")
	b.WriteString("|---|---|---|--:|---|---|\n")
	for _, r := range rows {
		cells := []string{r.Name, r.File, r.Folder, r.OffsetText, r.ModifiedText, r.AccessedText}
		for i, c := range cells {
			cells[i] = escapeCell(c)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return b.String()
}

// HTML renders rows as an HTML table by way of Markdown.
func HTML(rows []Row) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(rows)), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// cellEscaper keeps path separators and Markdown punctuation in names and
// paths literal.
var cellEscaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
)

func escapeCell(s string) string {
	return cellEscaper.Replace(s)
}
