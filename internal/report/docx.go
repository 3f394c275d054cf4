package report

import (
	"fmt"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"convolens/internal/core/domain"
)

const (
	fontName    = "Times New Roman"
	fontSize    = 13
	headingSize = 15
	titleSize   = 16
)

// WriteDocx renders res as a Word document at path.
func WriteDocx(res domain.PipelineResult, path string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	addRun(doc.AddParagraph(""), res.Title, true, titleSize)

	addRun(doc.AddParagraph(""), "Smart Summary", true, headingSize)
	addRun(doc.AddParagraph(""), strings.TrimSpace(res.SmartSummary), false, fontSize)

	addList(doc, "Key Points", res.KeyPoints, NoKeyPoints)
	addList(doc, "Smart Improvements", res.SmartImprovements, NoImprovements)

	addRun(doc.AddParagraph(""), "Transcript", true, headingSize)
	for _, para := range strings.Split(strings.TrimSpace(res.Transcript), "\n") {
		if para = strings.TrimSpace(para); para != "" {
			addRun(doc.AddParagraph(""), para, false, fontSize)
		}
	}

	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("save docx %s: %w", path, err)
	}
	return nil
}

func addList(doc *docx.RootDoc, heading string, items []string, empty string) {
	addRun(doc.AddParagraph(""), heading, true, headingSize)
	if len(items) == 0 {
		addRun(doc.AddParagraph(""), empty, false, fontSize)
		return
	}
	for _, item := range items {
		addRun(doc.AddParagraph(""), "• "+item, false, fontSize)
	}
}

func addRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
