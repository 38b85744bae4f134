// Package formatter renders issues as colored, human-readable blocks.
package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/fatih/color"

	tt "github.com/gnoswap-labs/fitch/internal/types"
)

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	warningStyle = color.New(color.FgHiYellow, color.Bold)
	infoStyle    = color.New(color.FgHiCyan, color.Bold)
	ruleStyle    = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
	noteStyle    = color.New(color.FgGreen, color.Bold)
	noStyle      = color.New(color.FgWhite)
)

// issueFormatter is the interface that wraps the IssueTemplate method.
type issueFormatter interface {
	IssueTemplate() string
}

func getIssueFormatter(issue tt.Issue) issueFormatter {
	if issue.Line == 0 || issue.Snippet == "" {
		return &FileIssueFormatter{}
	}
	return &GeneralIssueFormatter{}
}

// GenerateFormattedIssue formats a slice of issues into a human-readable string.
func GenerateFormattedIssue(issues []tt.Issue) string {
	var builder strings.Builder
	for _, issue := range issues {
		builder.WriteString(buildIssue(issue, getIssueFormatter(issue)))
		builder.WriteString("\n")
	}
	return builder.String()
}

/***** Issue Formatter Builder *****/

type IssueData struct {
	Category string
	Severity string
	Rule     string
	Filename string
	Line     int
	Padding  string
	Snippet  string
	Nesting  int
	Width    int
	Message  string
	Note     string
}

func buildIssue(issue tt.Issue, formatter issueFormatter) string {
	gutter, nesting, width := measureRow(issue.Snippet)
	if gutter == 0 {
		gutter = len(fmt.Sprint(issue.Line))
	}

	data := IssueData{
		Severity: issue.Severity.String(),
		Category: issue.Category,
		Rule:     issue.Rule,
		Filename: issue.Filename,
		Line:     issue.Line,
		Padding:  strings.Repeat(" ", gutter+1),
		Snippet:  issue.Snippet,
		Nesting:  nesting,
		Width:    width,
		Message:  issue.Message,
		Note:     issue.Note,
	}

	funcMap := template.FuncMap{
		"header":              header,
		"snippet":             rowSnippet,
		"underlineAndMessage": underlineAndMessage,
		"message":             message,
		"note":                note,
	}

	tmpl := template.Must(template.New("issue").Funcs(funcMap).Parse(formatter.IssueTemplate()))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting issue: %v", err)
	}
	return buf.String()
}

// measureRow splits a proof display row such as " 3 | | A  [and-elim 1]"
// into the width of its line number gutter, its nesting depth, and the
// width of the formula text.
func measureRow(row string) (gutter, nesting, width int) {
	sep := strings.Index(row, " | ")
	if sep < 0 {
		return 0, 0, 0
	}
	body := row[sep+3:]
	for strings.HasPrefix(body, "| ") {
		body = body[2:]
		nesting++
	}
	if end := strings.LastIndex(body, "  ["); end >= 0 {
		body = body[:end]
	}
	return sep, nesting, utf8.RuneCountInString(body)
}

// utils functions used in the text templates

func header(rule string, severity string, padding string, filename string, line int) string {
	var endString string
	switch severity {
	case "ERROR":
		endString = errorStyle.Sprint("error: ")
	case "WARNING":
		endString = warningStyle.Sprint("warning: ")
	case "INFO":
		endString = infoStyle.Sprint("info: ")
	}

	endString += ruleStyle.Sprintf("%s\n", rule)
	endString += lineStyle.Sprintf("%s--> ", padding[1:])
	if line > 0 {
		endString += fileStyle.Sprintf("%s:%d\n", filename, line)
	} else {
		endString += fileStyle.Sprintf("%s\n", filename)
	}
	return endString
}

func rowSnippet(row string, padding string) string {
	endString := lineStyle.Sprintf("%s|\n", padding)
	endString += noStyle.Sprintf("%s\n", row)
	return endString
}

func underlineAndMessage(msg string, padding string, nesting int, width int) string {
	endString := lineStyle.Sprintf("%s| ", padding)
	endString += strings.Repeat("  ", nesting)
	endString += messageStyle.Sprintf("%s\n", strings.Repeat("~", max(width, 1)))
	endString += lineStyle.Sprintf("%s= ", padding)
	endString += messageStyle.Sprintf("%s\n", msg)
	return endString
}

func message(msg string, padding string) string {
	return lineStyle.Sprintf("%s= ", padding) + messageStyle.Sprintf("%s\n", msg)
}

func note(note string) string {
	if note == "" {
		return ""
	}
	return noteStyle.Sprint("Note: ") + lineStyle.Sprintf("%s\n", note)
}
