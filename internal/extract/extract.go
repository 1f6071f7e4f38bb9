package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// BoardGameGeek renders game pages with Angular and preloads the game data
// as a script-variable assignment. The extractor scans inline scripts for
// that assignment, slices out the object and decodes it. Everything past
// parsing the HTML itself is best-effort: a missing or malformed blob
// degrades to title + meta description.

const (
	// DefaultMarker is the assignment prefix of the embedded data island.
	DefaultMarker = "GEEK.geekitemPreload = "

	// DefaultWindowSize caps how many characters after the marker are
	// considered when locating the end of the object.
	DefaultWindowSize = 50000
)

// DefaultTerminator matches the close of the preload object followed by the
// next GEEK global assignment. Only used when the brace scan runs off the
// window before the object closes.
var DefaultTerminator = regexp.MustCompile(`\};[\s\n]*GEEK\.`)

// Config holds the heuristic constants for locating the embedded data blob.
// The zero value is not usable; start from DefaultConfig.
type Config struct {
	Marker     string
	WindowSize int
	Terminator *regexp.Regexp
}

// DefaultConfig returns the heuristic constants for the current
// boardgamegeek.com markup.
func DefaultConfig() Config {
	return Config{
		Marker:     DefaultMarker,
		WindowSize: DefaultWindowSize,
		Terminator: DefaultTerminator,
	}
}

// Field is one derived "Label: value" pair.
type Field struct {
	Label string
	Value string
}

// Document is the extraction result for one page.
type Document struct {
	Title       string
	Description string
	Fields      []Field
	Text        string
}

// Extractor extracts game information from BoardGameGeek HTML.
type Extractor struct {
	cfg Config
}

// New creates an Extractor with the given heuristic configuration.
func New(cfg Config) *Extractor {
	return &Extractor{cfg: cfg}
}

// Extract parses raw HTML and builds a Document. It fails only when the
// markup cannot be parsed at all; a missing or undecodable data blob is not
// an error and simply yields fewer fields.
func (e *Extractor) Extract(html []byte) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	description, _ := doc.Find(`meta[name="description"]`).First().Attr("content")
	description = strings.TrimSpace(description)

	var data map[string]any
	doc.Find("script").EachWithBreak(func(_ int, script *goquery.Selection) bool {
		text := script.Text()
		idx := strings.Index(text, e.cfg.Marker)
		if idx < 0 {
			return true
		}
		blob := e.sliceBlob(text[idx+len(e.cfg.Marker):])
		if err := decodeBlob(blob, &data); err != nil {
			log.Printf("Could not parse embedded game data: %v", err)
		}
		// First matching script wins; later scripts are never inspected.
		return false
	})

	fields := deriveFields(data)

	parts := make([]string, 0, len(fields)+2)
	if title != "" {
		parts = append(parts, title)
	}
	if description != "" {
		parts = append(parts, description)
	}
	for _, f := range fields {
		parts = append(parts, f.Label+": "+f.Value)
	}

	return &Document{
		Title:       title,
		Description: description,
		Fields:      fields,
		Text:        strings.Join(parts, " "),
	}, nil
}

// sliceBlob takes the script text immediately after the marker and returns
// the candidate object. A string-aware brace scan finds the true end of the
// object; the terminator pattern is the fallback when the object does not
// close inside the window.
func (e *Extractor) sliceBlob(s string) string {
	if len(s) > e.cfg.WindowSize {
		s = s[:e.cfg.WindowSize]
	}
	if end := scanObject(s); end > 0 {
		return s[:end]
	}
	if loc := e.cfg.Terminator.FindStringIndex(s); loc != nil {
		return s[:loc[0]+1]
	}
	return s
}

// scanObject returns the length of the balanced object at the start of s
// (leading whitespace allowed), or 0 when no object closes within s.
func scanObject(s string) int {
	start := 0
	for start < len(s) && (s[start] == ' ' || s[start] == '\t' || s[start] == '\n' || s[start] == '\r') {
		start++
	}
	if start >= len(s) || s[start] != '{' {
		return 0
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return 0
}

func decodeBlob(blob string, out *map[string]any) error {
	dec := json.NewDecoder(strings.NewReader(blob))
	dec.UseNumber()
	return dec.Decode(out)
}
