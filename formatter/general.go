package formatter

// GeneralIssueFormatter formats issues tied to one proof line.
type GeneralIssueFormatter struct{}

func (f *GeneralIssueFormatter) IssueTemplate() string {
	return `{{header .Rule .Severity .Padding .Filename .Line -}}
{{snippet .Snippet .Padding -}}
{{underlineAndMessage .Message .Padding .Nesting .Width}}
{{- if .Note }}{{note .Note}}{{end -}}
`
}

// FileIssueFormatter formats issues about the file as a whole, such as
// unmet goals, which have no line to point at.
type FileIssueFormatter struct{}

func (f *FileIssueFormatter) IssueTemplate() string {
	return `{{header .Rule .Severity .Padding .Filename .Line -}}
{{message .Message .Padding}}
{{- if .Note }}{{note .Note}}{{end -}}
`
}
