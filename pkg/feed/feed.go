package feed

import (
	"encoding/xml"
	"time"

	"flash-actu/pkg/domain"
)

// audioMIMEType is the fixed enclosure type for every episode.
const audioMIMEType = "audio/mpeg"

// Enclosure references the downloadable audio file of an entry.
type Enclosure struct {
	URL    string `xml:"url,attr"`
	Length int64  `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

// GUID identifies an entry. Episodes are keyed by audio file name, which
// is not a resolvable link, so isPermaLink is always "false".
type GUID struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// Entry is one feed item. Entries are immutable once created; the
// document retains a bounded, newest-first sequence of them.
type Entry struct {
	XMLName     xml.Name  `xml:"item"`
	Title       string    `xml:"title"`
	Description string    `xml:"description"`
	PubDate     string    `xml:"pubDate"`
	Enclosure   Enclosure `xml:"enclosure"`
	GUID        GUID      `xml:"guid"`
}

// Channel holds the fixed channel metadata rendered on every publish.
type Channel struct {
	Title       string
	Link        string
	Description string
	Language    string
}

type channelXML struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description string  `xml:"description"`
	Language    string  `xml:"language"`
	Items       []Entry `xml:"item"`
}

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel channelXML `xml:"channel"`
}

// NewEntry builds the feed entry registering one episode. audioLen is the
// enclosure length in bytes. Serialization escapes every free-text field,
// so reserved characters in titles or URLs cannot break the document.
func NewEntry(ep *domain.Episode, audioLen int64) Entry {
	return Entry{
		Title:       ep.Title,
		Description: ep.Description,
		PubDate:     ep.Date.Format(time.RFC1123Z),
		Enclosure: Enclosure{
			URL:    ep.AudioURL,
			Length: audioLen,
			Type:   audioMIMEType,
		},
		GUID: GUID{
			IsPermaLink: "false",
			Value:       ep.GUID,
		},
	}
}
