package clipboard

import (
	"errors"
	"net/url"
	"strings"

	"github.com/atotto/clipboard"

	"download_planner/internal/protocol"
)

const (
	// maxLocatorLength is the maximum allowed locator length to prevent processing extremely long strings
	maxLocatorLength = 8192
)

var (
	// ErrClipboardRead indicates an error reading from the clipboard
	ErrClipboardRead = errors.New("failed to read from clipboard")
	// ErrInvalidLocator indicates the clipboard content is not a usable locator
	ErrInvalidLocator = errors.New("clipboard does not contain a download URI or magnet link")
)

// Validator accepts remote locators only. Local paths are never taken from
// the clipboard.
type Validator struct {
	detector protocol.Detector
}

func NewValidator() *Validator {
	return &Validator{detector: protocol.Detector{IgnoreLocalPath: true}}
}

// ExtractLocator validates and extracts a locator from the given text.
// Returns empty string if the text is neither a stream URI nor a magnet link.
func (v *Validator) ExtractLocator(text string) string {
	text = strings.TrimSpace(text)

	// Quick reject: empty, too long, or contains newlines
	if text == "" || len(text) > maxLocatorLength || strings.ContainsAny(text, "\n\r") {
		return ""
	}

	switch v.detector.Classify(text) {
	case protocol.TorrentMagnet:
		return text
	case protocol.Stream:
		parsed, err := url.Parse(text)
		if err != nil || strings.TrimSpace(parsed.Host) == "" {
			return ""
		}
		return parsed.String()
	default:
		return ""
	}
}

// ReadLocator reads the clipboard and returns a valid locator if found.
// Returns an error if clipboard reading fails or nothing usable is found.
func ReadLocator() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", ErrClipboardRead
	}

	locator := NewValidator().ExtractLocator(text)
	if locator == "" {
		return "", ErrInvalidLocator
	}

	return locator, nil
}
