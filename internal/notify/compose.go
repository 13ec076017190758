// Package notify renders new listings into a chat message and delivers it.
package notify

import (
	"strings"

	"rentwatch-engine/internal/domain"
)

// LinkLabel is the text of the detail page link.
const LinkLabel = "查看房源"

// Compose renders one Markdown paragraph per listing, separated by a blank line.
func Compose(listings []domain.Listing) string {
	paras := make([]string, 0, len(listings))
	for _, l := range listings {
		paras = append(paras, paragraph(l))
	}
	return strings.Join(paras, "\n\n")
}

func paragraph(l domain.Listing) string {
	var b strings.Builder
	b.WriteString("🏡 *")
	b.WriteString(l.Title)
	b.WriteString("*\n 📍 資訊: ")
	b.WriteString(l.Info)
	b.WriteString("\n🔗 [")
	b.WriteString(LinkLabel)
	b.WriteString("](")
	b.WriteString(l.URL)
	b.WriteString(")")
	return b.String()
}
