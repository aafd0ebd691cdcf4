package extract

import "regexp"

var (
	docxParaRe = regexp.MustCompile(`(?s)<w:p[ >].*?</w:p>`)
	docxTextRe = regexp.MustCompile(`(?s)<w:t[^>]*>(.*?)</w:t>`)
	docxTagRe  = regexp.MustCompile(`<[^>]+>`)
)

// stripDocxMarkup reduces a document.xml body to plain text: one line per
// <w:p> paragraph, built from the text runs (<w:t>) inside it.
func stripDocxMarkup(xmlBody string) string {
	paragraphs := docxParaRe.FindAllString(xmlBody, -1)
	if paragraphs == nil {
		return docxTagRe.ReplaceAllString(xmlBody, "")
	}

	lines := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		runs := docxTextRe.FindAllStringSubmatch(p, -1)
		line := ""
		for _, run := range runs {
			line += run[1]
		}
		lines = append(lines, line)
	}

	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}
