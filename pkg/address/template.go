package address

import (
	"fmt"
	"strings"
)

// Placeholder is the token replaced by the device identifier when a topic
// template is rendered.
const Placeholder = "{device_id}"

// ValidateTemplate checks that template contains Placeholder exactly once,
// no other {...} tokens, and renders to a publishable topic.
func ValidateTemplate(template string) error {
	switch n := strings.Count(template, Placeholder); n {
	case 0:
		return fmt.Errorf("%w: missing %s placeholder", ErrInvalidTemplate, Placeholder)
	case 1:
	default:
		return fmt.Errorf("%w: %s appears %d times", ErrInvalidTemplate, Placeholder, n)
	}

	rest := strings.Replace(template, Placeholder, "", 1)
	if strings.ContainsAny(rest, "{}") {
		return fmt.Errorf("%w: unknown placeholder in %q", ErrInvalidTemplate, template)
	}

	// A device identifier is never empty, so probe with a plain token.
	return ValidateTopic(RenderTopic(template, "x"))
}

// RenderTopic substitutes the device identifier into template.
func RenderTopic(template, deviceID string) string {
	return strings.Replace(template, Placeholder, deviceID, 1)
}
