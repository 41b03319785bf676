package pipeline

import "fmt"

// SynthesisError marks a fatal failure of the speech synthesis stage:
// without audio there is no publishable episode.
type SynthesisError struct {
	Err error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("speech synthesis failed: %v", e.Err)
}

func (e *SynthesisError) Unwrap() error {
	return e.Err
}

// PublishError marks a fatal failure of the feed publishing stage. The
// audio and transcript artifacts written earlier in the run are left on
// disk so publishing can be retried from them.
type PublishError struct {
	Err error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("feed publish failed: %v", e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}
