// Package document reads and writes proofs in the .aprf XML format.
//
// A document is the XML tree followed by a <hash> element holding the
// base64 SHA-256 of the XML text concatenated with the sorted author names.
// A document whose hash is missing or wrong still loads, but its authors are
// replaced by UNKNOWN and Verified is false.
package document

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

const (
	// Version is written into every saved document.
	Version = "fitch-1"

	// UnknownAuthor replaces the authors of a document that fails its
	// integrity check.
	UnknownAuthor = "UNKNOWN"
)

// Document is the persisted form of a proof.
type Document struct {
	XMLName  xml.Name    `xml:"aris"`
	Version  string      `xml:"version"`
	Authors  []string    `xml:"author"`
	Proof    ProofRecord `xml:"proof"`
	Verified bool        `xml:"-"`
}

type ProofRecord struct {
	Premises LineList `xml:"premises"`
	Lines    LineList `xml:"lines"`
	Goals    GoalList `xml:"goals"`
}

type LineList struct {
	Lines []LineRecord `xml:"line"`
}

type GoalList struct {
	Goals []GoalRecord `xml:"goal"`
}

// LineRecord is one proof line. Num is the zero-based line index and Indent
// the nesting level.
type LineRecord struct {
	Num        int             `xml:"num,attr"`
	Indent     int             `xml:"indent,attr"`
	Assumption bool            `xml:"assumption,attr"`
	Expr       ExprRecord      `xml:"expr"`
	Rule       string          `xml:"rule"`
	Premises   []PremiseRecord `xml:"premise"`
}

// ExprRecord holds the text of a line. Text that XML cannot carry, such as
// control characters or invalid UTF-8, is stored base64 encoded with
// Encoding set to "base64".
type ExprRecord struct {
	Encoding string `xml:"encoding,attr,omitempty"`
	Text     string `xml:",chardata"`
}

// EncodingBase64 marks an ExprRecord whose text is base64 encoded.
const EncodingBase64 = "base64"

// NewExprRecord stores text verbatim when XML can represent it and base64
// encoded otherwise.
func NewExprRecord(text string) ExprRecord {
	if xmlSafe(text) {
		return ExprRecord{Text: text}
	}
	return ExprRecord{Encoding: EncodingBase64, Text: base64.StdEncoding.EncodeToString([]byte(text))}
}

// Value returns the stored text, decoding it if needed.
func (e ExprRecord) Value() (string, error) {
	switch e.Encoding {
	case "":
		return e.Text, nil
	case EncodingBase64:
		raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(e.Text))
		if err != nil {
			return "", fmt.Errorf("decode expr: %w", err)
		}
		return string(raw), nil
	default:
		return "", fmt.Errorf("unknown expr encoding %q", e.Encoding)
	}
}

// xmlSafe reports whether every rune of s is a legal XML character.
func xmlSafe(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
		case r >= 0x20 && r <= 0xD7FF:
		case r >= 0xE000 && r <= 0xFFFD:
		case r >= 0x10000 && r <= 0x10FFFF:
		default:
			return false
		}
	}
	return true
}

// PremiseRecord cites an earlier line by index. Subproof is "true" when the
// citation names the subproof opened at that line. Documents written by
// older tools omit it; see Build for how it is inferred.
type PremiseRecord struct {
	Subproof string `xml:"subproof,attr,omitempty"`
	Num      string `xml:",chardata"`
}

type GoalRecord struct {
	Num  int    `xml:"num,attr"`
	Text string `xml:",chardata"`
}

// FormatError is returned for a document that cannot be turned into a proof.
type FormatError struct {
	Msg string
	Err error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid document: %s: %v", e.Msg, e.Err)
	}
	return "invalid document: " + e.Msg
}

func (e *FormatError) Unwrap() error { return e.Err }

func formatErr(err error, format string, args ...any) error {
	return &FormatError{Msg: fmt.Sprintf(format, args...), Err: err}
}

var hashPattern = regexp.MustCompile(`<hash>([^<]*)</hash>`)

// Records returns every line record in proof order.
func (d *Document) Records() []LineRecord {
	out := make([]LineRecord, 0, len(d.Proof.Premises.Lines)+len(d.Proof.Lines.Lines))
	out = append(out, d.Proof.Premises.Lines...)
	return append(out, d.Proof.Lines.Lines...)
}

// Encode writes doc followed by its integrity hash.
func Encode(w io.Writer, doc *Document) error {
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	text := xml.Header + string(body)
	text += "<hash>" + computeHash(text, doc.Authors) + "</hash>"
	if _, err := io.WriteString(w, text); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// Decode reads a document. Only malformed XML is an error; an integrity
// failure is reported through Verified.
func Decode(r io.Reader) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	var hash string
	found := false
	if m := hashPattern.FindSubmatch(raw); m != nil {
		hash, found = string(m[1]), true
		raw = hashPattern.ReplaceAll(raw, nil)
	}

	doc := new(Document)
	if err := xml.NewDecoder(bytes.NewReader(raw)).Decode(doc); err != nil {
		return nil, formatErr(err, "malformed xml")
	}
	doc.Verified = found && computeHash(string(raw), doc.Authors) == hash
	if !doc.Verified {
		doc.Authors = []string{UnknownAuthor}
	}
	return doc, nil
}

func computeHash(text string, authors []string) string {
	sorted := slices.Clone(authors)
	slices.Sort(sorted)
	sum := sha256.Sum256([]byte(text + strings.Join(sorted, "")))
	return base64.StdEncoding.EncodeToString(sum[:])
}
