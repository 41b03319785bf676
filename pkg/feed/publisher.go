package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Publisher maintains the podcast feed document at a fixed path with a
// read-merge-write cycle: existing entries are extracted tolerantly, the
// new entry is prepended, the list is truncated to the retention cap and
// the complete document is rewritten atomically. Single writer assumed;
// concurrent publishers may race on the document.
type Publisher struct {
	path      string
	channel   Channel
	retention int
}

// NewPublisher creates a publisher for the document at path. A retention
// cap <= 0 falls back to 50 entries.
func NewPublisher(path string, channel Channel, retention int) *Publisher {
	if retention <= 0 {
		retention = 50
	}
	return &Publisher{
		path:      path,
		channel:   channel,
		retention: retention,
	}
}

// Path returns the feed document location.
func (p *Publisher) Path() string {
	return p.path
}

// Publish registers a new entry: newest first, oldest dropped beyond the
// retention cap. The document on disk is always complete and valid after
// every call.
func (p *Publisher) Publish(entry Entry) error {
	existing := p.loadEntries()

	entries := make([]Entry, 0, len(existing)+1)
	entries = append(entries, entry)
	entries = append(entries, existing...)
	if len(entries) > p.retention {
		entries = entries[:p.retention]
	}

	if err := p.write(entries); err != nil {
		return fmt.Errorf("failed to write feed document: %w", err)
	}
	return nil
}

// loadEntries extracts whatever well-formed items exist in the current
// document. A missing or unreadable document yields no entries: today's
// episode must never be blocked by corrupted history.
func (p *Publisher) loadEntries() []Entry {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("FeedPublisher: WARN cannot read existing feed, starting fresh: %v", err)
		}
		return nil
	}
	return extractEntries(data)
}

// extractEntries walks the XML token stream and decodes each <item>
// element independently. Malformed surroundings or items only discard
// what cannot be decoded.
func extractEntries(data []byte) []Entry {
	var entries []Entry

	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			// io.EOF or a malformed tail: keep what was extracted
			break
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "item" {
			continue
		}

		var e Entry
		if err := dec.DecodeElement(&e, &start); err != nil {
			log.Printf("FeedPublisher: WARN skipping malformed item: %v", err)
			continue
		}
		entries = append(entries, e)
	}

	return entries
}

// write renders the full document and replaces the destination via a
// temp-file rename, so a reader never observes a partial document.
func (p *Publisher) write(entries []Entry) error {
	doc := rssXML{
		Version: "2.0",
		Channel: channelXML{
			Title:       p.channel.Title,
			Link:        p.channel.Link,
			Description: p.channel.Description,
			Language:    p.channel.Language,
			Items:       entries,
		},
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	data := append([]byte(xml.Header), body...)
	data = append(data, '\n')

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create feed directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "feed-*.xml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, p.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace feed document: %w", err)
	}
	return nil
}
