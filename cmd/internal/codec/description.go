package codec

import (
	"regexp"
	"strings"

	"meetboard/cmd/internal/domain/entity"
)

// descriptionLayout is one set of section headers a description may use.
type descriptionLayout struct {
	name               string
	contentHeader      string
	participantsHeader string
	metadataHeader     string
	empty              string

	contentSection *regexp.Regexp
	metadataBlock  *regexp.Regexp
}

func newLayout(name, content, participants, metadata, empty string) descriptionLayout {
	return descriptionLayout{
		name:               name,
		contentHeader:      content,
		participantsHeader: participants,
		metadataHeader:     metadata,
		empty:              empty,
		contentSection: regexp.MustCompile(`(?s)^` + regexp.QuoteMeta(content) + `\n(.*?)(?:\n\n` +
			regexp.QuoteMeta(participants) + `|$)`),
		metadataBlock: regexp.MustCompile(`(?s)` + regexp.QuoteMeta(metadata) + `\n(\{.*\})\s*$`),
	}
}

var (
	// currentLayout is what Encode writes.
	currentLayout = newLayout("description", "=== Content ===", "=== Participants ===", "=== Metadata (JSON) ===", "(none)")

	// botLayout is the layout of events created by the first version of the bot.
	botLayout = newLayout("bot-description", "=== 會議內容 ===", "=== 參加者 ===", "=== Discord 資訊 (JSON) ===", "無")

	descriptionLayouts = []descriptionLayout{currentLayout, botLayout}
)

func (l descriptionLayout) format(m *entity.Meeting, rawMetadata string) string {
	content := m.Content
	if strings.TrimSpace(content) == "" {
		content = l.empty
	}

	names := l.empty
	if len(m.Participants) > 0 {
		mentions := make([]string, 0, len(m.Participants))
		for _, p := range m.Participants {
			mentions = append(mentions, "@"+p.DisplayName)
		}
		names = strings.Join(mentions, " ")
	}

	var b strings.Builder
	b.WriteString(l.contentHeader + "\n" + content + "\n\n")
	b.WriteString(l.participantsHeader + "\n" + names + "\n\n")
	b.WriteString(l.metadataHeader + "\n" + rawMetadata)
	return b.String()
}

// content reports ok only when the description starts with this layout's content header.
func (l descriptionLayout) content(description string) (string, bool) {
	if !strings.HasPrefix(description, l.contentHeader) {
		return "", false
	}
	m := l.contentSection.FindStringSubmatch(description)
	if m == nil {
		return "", true
	}
	content := strings.TrimSpace(m[1])
	if content == l.empty {
		return "", true
	}
	return content, true
}

func (l descriptionLayout) metadata(description string) (string, bool) {
	m := l.metadataBlock.FindStringSubmatch(description)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// parseContent returns the content section of any known layout, or the whole
// description for events that were not written by the bot.
func parseContent(description string) string {
	for _, l := range descriptionLayouts {
		if content, ok := l.content(description); ok {
			return content
		}
	}
	return strings.TrimSpace(description)
}
