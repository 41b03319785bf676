package domain

import "time"

// NewsItem is one normalized headline taken from a source feed.
// It carries no identity beyond its content and is immutable after
// normalization.
type NewsItem struct {
	Title   string // markup-stripped, whitespace-collapsed, never empty
	Summary string // markup-stripped, length-capped, may be empty
}

// Episode represents one day's produced bulletin: the audio artifact,
// its transcript and the metadata registered in the podcast feed.
type Episode struct {
	Title          string         `bson:"title"`
	Description    string         `bson:"description"`
	Date           time.Time      `bson:"date"`
	GUID           string         `bson:"guid"`
	AudioPath      string         `bson:"audio_path"`
	TranscriptPath string         `bson:"transcript_path"`
	AudioURL       string         `bson:"audio_url"`
	Script         string         `bson:"script"`
	Generation     GenerationInfo `bson:"generation"`
}

// GenerationInfo records which path produced the episode script.
type GenerationInfo struct {
	Model    string `bson:"model"`
	Fallback bool   `bson:"fallback"`
}
