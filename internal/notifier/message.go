package notifier

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/amishk599/internwatch/internal/model"
)

const alertTemplate = "🇸🇬 *NEW INTERNSHIP (%s)*\n\n" +
	"🏢 *%s*\n" +
	"👨‍💻 %s\n" +
	"🔗 [Apply Here](%s)"

// FormatMessage renders the alert text for a posting in Telegram's legacy
// Markdown. Missing fields get a readable default and a missing URL falls back
// to model.PlaceholderURL.
func FormatMessage(p model.Posting) string {
	source := orDefault(p.Source, "Unknown")
	company := orDefault(p.Company, "No Company")
	title := orDefault(p.Title, "No Title")
	url := orDefault(p.URL, model.PlaceholderURL)

	return fmt.Sprintf(alertTemplate,
		escape(source),
		escape(company),
		escape(title),
		linkTarget(url),
	)
}

// linkTarget percent-encodes the characters that would end a Markdown link
// target early.
func linkTarget(url string) string {
	return strings.NewReplacer("(", "%28", ")", "%29", " ", "%20").Replace(url)
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
