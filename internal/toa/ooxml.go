// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package toa

import (
	"encoding/xml"
	"strings"
)

const wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// renderOOXML writes one paragraph per line. The title is centered, bold,
// and 14pt; headings are bold; body lines split on ItalicDelimiter with
// odd segments set in italics.
func renderOOXML(lines []line) string {
	var b strings.Builder
	b.WriteString(`<w:document xmlns:w="` + wordNamespace + `"><w:body>`)
	for _, l := range lines {
		b.WriteString("<w:p>")
		switch l.kind {
		case lineTitle:
			b.WriteString(`<w:pPr><w:jc w:val="center"/></w:pPr>`)
			writeRun(&b, `<w:b/><w:sz w:val="28"/>`, l.text)
		case lineHeading:
			writeRun(&b, `<w:b/>`, l.text)
		default:
			for i, part := range strings.Split(l.text, ItalicDelimiter) {
				if i%2 == 1 {
					writeRun(&b, `<w:i/>`, part)
				} else if part != "" || i == 0 {
					writeRun(&b, "", part)
				}
			}
		}
		b.WriteString("</w:p>")
	}
	b.WriteString("</w:body></w:document>")
	return b.String()
}

func writeRun(b *strings.Builder, props, text string) {
	b.WriteString("<w:r>")
	if props != "" {
		b.WriteString("<w:rPr>" + props + "</w:rPr>")
	}
	b.WriteString(`<w:t xml:space="preserve">`)
	_ = xml.EscapeText(b, []byte(text))
	b.WriteString("</w:t></w:r>")
}
