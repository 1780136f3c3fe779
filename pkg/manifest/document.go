package manifest

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// LegacyCommunityPrefix marks FS2020 community entries that the save path
// can optionally prune from the manifest.
const LegacyCommunityPrefix = "communityfs20-"

// packageTag is the manifest element this package reads and patches.
const packageTag = "Package"

// Element is the readable view of one <Package> entry.
type Element struct {
	Name   string // name attribute, trimmed
	Active string // raw active attribute value, "" when absent
}

// element carries the byte spans needed for surgical rewrites.
type element struct {
	name      string
	active    string
	hasActive bool
	tagStart  int64 // offset of '<' of the start tag
	tagEnd    int64 // offset just past the start tag
	end       int64 // offset just past the whole element
}

// Document is a parsed manifest that remembers the exact byte layout of
// its <Package> elements. Patching rewrites only the targeted attribute
// bytes; every other byte of the source file is reproduced verbatim.
type Document struct {
	raw      []byte
	elements []element
}

// ParseDocument parses raw manifest bytes. Any malformed XML fails the
// whole parse; there is no partial result.
func ParseDocument(raw []byte) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	doc := &Document{raw: raw}

	depth := 0
	pending := -1 // index into doc.elements of the open <Package>, -1 if none
	pendingDepth := 0

	for {
		before := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed manifest: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 && t.Name.Local == packageTag && pending < 0 {
				el := element{tagStart: before, tagEnd: dec.InputOffset()}
				for _, a := range t.Attr {
					switch a.Name.Local {
					case "name":
						el.name = strings.TrimSpace(a.Value)
					case "active":
						el.active = a.Value
						el.hasActive = true
					}
				}
				doc.elements = append(doc.elements, el)
				pending = len(doc.elements) - 1
				pendingDepth = depth
			}
		case xml.EndElement:
			if pending >= 0 && depth == pendingDepth {
				doc.elements[pending].end = dec.InputOffset()
				pending = -1
			}
			depth--
		}
	}

	if depth != 0 {
		return nil, fmt.Errorf("malformed manifest: unclosed elements")
	}
	return doc, nil
}

// Len returns the number of <Package> elements in document order.
func (d *Document) Len() int { return len(d.elements) }

// Element returns the i-th <Package> entry in document order.
func (d *Document) Element(i int) Element {
	el := d.elements[i]
	return Element{Name: el.name, Active: el.active}
}

// Apply produces a new serialization of the document with the given
// statuses patched in, returning the output bytes and the number of pruned
// elements.
//
// Only elements whose name appears in statuses are touched, and only when
// the stored attribute does not already express the target status — a
// no-op save reproduces the input byte for byte. When prune is true,
// elements carrying the legacy community-fs20 prefix are removed along
// with their surrounding indentation and line break.
func (d *Document) Apply(statuses map[string]Status, prune bool) ([]byte, int) {
	var out bytes.Buffer
	out.Grow(len(d.raw))

	cursor := int64(0)
	pruned := 0

	for _, el := range d.elements {
		if prune && strings.HasPrefix(strings.ToLower(el.name), LegacyCommunityPrefix) {
			delStart, delEnd := d.pruneSpan(el)
			out.Write(d.raw[cursor:delStart])
			cursor = delEnd
			pruned++
			continue
		}

		st, ok := statuses[el.name]
		if !ok {
			continue // externally added entry, leave untouched
		}
		if el.hasActive && Status(el.active) == st {
			continue
		}
		if !el.hasActive && st == Activated {
			continue // absent attribute already means Activated
		}

		out.Write(d.raw[cursor:el.tagStart])
		out.Write(setAttr(d.raw[el.tagStart:el.tagEnd], "active", string(st)))
		cursor = el.tagEnd
	}

	out.Write(d.raw[cursor:])
	return out.Bytes(), pruned
}

// pruneSpan widens an element's byte span to swallow its leading
// indentation and one trailing line break, so removal leaves no blank
// line behind.
func (d *Document) pruneSpan(el element) (int64, int64) {
	start := el.tagStart
	for start > 0 && (d.raw[start-1] == ' ' || d.raw[start-1] == '\t') {
		start--
	}
	end := el.end
	if end < int64(len(d.raw)) && d.raw[end] == '\r' {
		end++
	}
	if end < int64(len(d.raw)) && d.raw[end] == '\n' {
		end++
	}
	return start, end
}

// setAttr rewrites the value of the named attribute inside a start-tag
// byte slice, or inserts the attribute before the tag close when absent.
// Quoting style of an existing attribute is preserved.
func setAttr(tag []byte, key, value string) []byte {
	escaped := escapeAttr(value)

	i := 1 // past '<'
	for i < len(tag) && !isSpace(tag[i]) && tag[i] != '>' && tag[i] != '/' {
		i++ // skip element name
	}

	for i < len(tag) {
		for i < len(tag) && isSpace(tag[i]) {
			i++
		}
		if i >= len(tag) || tag[i] == '>' || tag[i] == '/' {
			break
		}

		nameStart := i
		for i < len(tag) && tag[i] != '=' && !isSpace(tag[i]) && tag[i] != '>' {
			i++
		}
		attrName := string(tag[nameStart:i])

		for i < len(tag) && isSpace(tag[i]) {
			i++
		}
		if i >= len(tag) || tag[i] != '=' {
			continue // valueless attribute, keep scanning
		}
		i++
		for i < len(tag) && isSpace(tag[i]) {
			i++
		}
		if i >= len(tag) || (tag[i] != '"' && tag[i] != '\'') {
			continue
		}
		quote := tag[i]
		valStart := i + 1
		valEnd := valStart
		for valEnd < len(tag) && tag[valEnd] != quote {
			valEnd++
		}

		if attrName == key {
			out := make([]byte, 0, len(tag)+len(escaped))
			out = append(out, tag[:valStart]...)
			out = append(out, escaped...)
			out = append(out, tag[valEnd:]...)
			return out
		}
		i = valEnd + 1
	}

	// Attribute absent: insert before "/>" or ">".
	insertAt := len(tag) - 1 // position of '>'
	if insertAt > 0 && tag[insertAt-1] == '/' {
		insertAt--
	}
	trimmed := insertAt
	for trimmed > 0 && isSpace(tag[trimmed-1]) {
		trimmed--
	}
	out := make([]byte, 0, len(tag)+len(key)+len(escaped)+4)
	out = append(out, tag[:trimmed]...)
	out = append(out, ' ')
	out = append(out, key...)
	out = append(out, '=', '"')
	out = append(out, escaped...)
	out = append(out, '"')
	out = append(out, tag[insertAt:]...)
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

func escapeAttr(value string) []byte {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(value))
	return buf.Bytes()
}
