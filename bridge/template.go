package bridge

import (
	"encoding/base64"
	"strings"
)

// Widget template placeholders.
const (
	PublisherMacro = "[PUBLISHER_ID]"
	OptionMacro    = "[OPTION]"
	LoaderMacro    = "[LOADER_BASE64]"
)

// BuildWidgetHTML assembles the widget document from the host's template by
// substituting the publisher id, the JSON-encoded widget options, and the
// base64 encoding of the loader asset.
func BuildWidgetHTML(template, publisherID string, optionJSON, loader []byte) string {
	replacer := strings.NewReplacer(
		PublisherMacro, publisherID,
		OptionMacro, string(optionJSON),
		LoaderMacro, base64.StdEncoding.EncodeToString(loader),
	)
	return replacer.Replace(template)
}
