// Package exporter turns a growth report into a print-friendly HTML page.
package exporter

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"

	"art_academy_writer/generator"
)

// Report is what gets exported. Sections are rendered in the given order.
type Report struct {
	AcademyName string
	StudentName string
	StudentAge  string
	ClassName   string
	CreatedAt   time.Time
	Sections    []generator.Section
}

// Markdown renders the report body as Markdown.
func Markdown(r Report) string {
	var b strings.Builder
	title := "성장 리포트"
	if r.StudentName != "" {
		title = escapeMarkdown(r.StudentName) + " 학생 " + title
	}
	b.WriteString("# " + title + "\n\n")

	var meta []string
	if r.AcademyName != "" {
		meta = append(meta, escapeMarkdown(r.AcademyName))
	}
	if r.ClassName != "" {
		meta = append(meta, "반: "+escapeMarkdown(r.ClassName))
	}
	if r.StudentAge != "" {
		meta = append(meta, "나이: "+escapeMarkdown(r.StudentAge)+"세")
	}
	if !r.CreatedAt.IsZero() {
		meta = append(meta, "작성일: "+r.CreatedAt.Format("2006-01-02"))
	}
	if len(meta) > 0 {
		b.WriteString(strings.Join(meta, " · ") + "\n\n")
	}

	for _, s := range r.Sections {
		b.WriteString(fmt.Sprintf("## %s\n\n", s.Label))
		text := strings.TrimSpace(s.Text)
		if text == "" {
			text = "-"
		}
		b.WriteString(text + "\n\n")
	}
	return b.String()
}

// RenderHTML converts the report to a standalone HTML document. Raw HTML
// inside section text is dropped by the Markdown renderer.
func RenderHTML(r Report) (string, error) {
	body, err := mdToHTML(Markdown(r))
	if err != nil {
		return "", errors.Wrap(err, "rendering report markdown")
	}
	body = normalizeForPrint(body)

	var buf bytes.Buffer
	err = pageTemplate.Execute(&buf, struct {
		Title string
		Body  template.HTML
	}{
		Title: pageTitle(r),
		Body:  template.HTML(body),
	})
	if err != nil {
		return "", errors.Wrap(err, "executing page template")
	}
	return buf.String(), nil
}

func pageTitle(r Report) string {
	if r.StudentName == "" {
		return "성장 리포트"
	}
	return r.StudentName + " 성장 리포트"
}

func mdToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var (
	headingRe = regexp.MustCompile(`(?s)<h([1-6])[^>]*>(.*?)</h[1-6]>`)
	olRe      = regexp.MustCompile(`(?s)<ol[^>]*>(.*?)</ol>`)
	ulRe      = regexp.MustCompile(`(?s)<ul[^>]*>(.*?)</ul>`)
	liRe      = regexp.MustCompile(`(?s)<li[^>]*>(.*?)</li>`)
)

var headingSizes = map[string]string{
	"1": "22pt",
	"2": "14pt",
	"3": "12pt",
}

// 인쇄할 때 브라우저마다 제목 여백이 달라서 고정 스타일의 문단으로 바꾼다.
func convertHeadings(html string) string {
	return headingRe.ReplaceAllStringFunc(html, func(block string) string {
		parts := headingRe.FindStringSubmatch(block)
		if len(parts) != 3 {
			return block
		}
		size := headingSizes[parts[1]]
		if size == "" {
			size = "11pt"
		}
		class := "section-title"
		if parts[1] == "1" {
			class = "report-title"
		}
		text := strings.TrimSpace(parts[2])
		return fmt.Sprintf(`<p class="%s" style="font-size:%s;font-weight:700;margin:1.2em 0 0.5em;">%s</p>`, class, size, text)
	})
}

// 모델이 목록으로 답한 경우 번호가 인쇄물에서 어긋나지 않도록 문단으로 편다.
func flattenLists(html string) string {
	html = olRe.ReplaceAllStringFunc(html, func(block string) string {
		items := liRe.FindAllStringSubmatch(block, -1)
		if len(items) == 0 {
			return block
		}
		var b strings.Builder
		for i, item := range items {
			b.WriteString(fmt.Sprintf("<p>%d. %s</p>", i+1, strings.TrimSpace(item[1])))
		}
		return b.String()
	})
	return ulRe.ReplaceAllStringFunc(html, func(block string) string {
		items := liRe.FindAllStringSubmatch(block, -1)
		if len(items) == 0 {
			return block
		}
		var b strings.Builder
		for _, item := range items {
			b.WriteString("<p>• " + strings.TrimSpace(item[1]) + "</p>")
		}
		return b.String()
	})
}

func normalizeForPrint(html string) string {
	html = convertHeadings(html)
	return flattenLists(html)
}

var mdSpecial = regexp.MustCompile("([\\\\`*_{}\\[\\]()#+\\-.!<>|])")

func escapeMarkdown(s string) string {
	return mdSpecial.ReplaceAllString(s, `\$1`)
}

var pageTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: "Noto Sans KR", "Apple SD Gothic Neo", sans-serif; line-height: 1.7; max-width: 720px; margin: 2em auto; color: #222; }
  .report-title { border-bottom: 2px solid #444; padding-bottom: 0.3em; }
  .section-title { color: #3a5a8c; }
  @media print { body { margin: 0; } @page { size: A4; margin: 18mm; } }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))
