package notify

import (
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var markdownLinkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)

// ToWhatsApp rewrites Telegram markup into WhatsApp's plain text formatting
func ToWhatsApp(text string, mode Mode) string {
	switch mode {
	case ModeHTML:
		return htmlToWhatsApp(text)
	case ModeMarkdown:
		return markdownLinkPattern.ReplaceAllStringFunc(text, func(m string) string {
			parts := markdownLinkPattern.FindStringSubmatch(m)
			return linkText(parts[1], parts[2])
		})
	default:
		return text
	}
}

func linkText(label, href string) string {
	if href == "" || label == href {
		return label
	}
	return label + " (" + href + ")"
}

func htmlToWhatsApp(text string) string {
	z := html.NewTokenizer(strings.NewReader(text))

	var b strings.Builder
	type anchor struct {
		href  string
		start int
	}
	var anchors []anchor

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				return text
			}
			return b.String()

		case html.TextToken:
			b.Write(z.Text())

		case html.SelfClosingTagToken:
			if name, _ := z.TagName(); string(name) == "br" {
				b.WriteByte('\n')
			}

		case html.StartTagToken:
			name, hasAttr := z.TagName()
			switch string(name) {
			case "b", "strong":
				b.WriteByte('*')
			case "i", "em":
				b.WriteByte('_')
			case "s", "strike", "del":
				b.WriteByte('~')
			case "code":
				b.WriteByte('`')
			case "pre":
				b.WriteString("```")
			case "br":
				b.WriteByte('\n')
			case "a":
				a := anchor{start: b.Len()}
				for hasAttr {
					var key, val []byte
					key, val, hasAttr = z.TagAttr()
					if string(key) == "href" {
						a.href = string(val)
					}
				}
				anchors = append(anchors, a)
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "b", "strong":
				b.WriteByte('*')
			case "i", "em":
				b.WriteByte('_')
			case "s", "strike", "del":
				b.WriteByte('~')
			case "code":
				b.WriteByte('`')
			case "pre":
				b.WriteString("```")
			case "a":
				if len(anchors) == 0 {
					continue
				}
				a := anchors[len(anchors)-1]
				anchors = anchors[:len(anchors)-1]
				label := b.String()[a.start:]
				if a.href != "" && label != a.href {
					b.WriteString(" (" + a.href + ")")
				}
			}
		}
	}
}
