package address

import (
	"fmt"
	"strings"
)

// Topic syntax.
const (
	// MultiLevelWildcard matches any number of trailing levels.
	MultiLevelWildcard = "#"

	// SingleLevelWildcard matches exactly one level.
	SingleLevelWildcard = "+"

	// Separator splits a topic into levels.
	Separator = "/"

	// systemPrefix marks broker-internal topics.
	systemPrefix = "$"
)

// ValidatePattern checks that pattern is a well-formed topic filter.
func ValidatePattern(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("%w: empty", ErrInvalidPattern)
	}

	levels := strings.Split(pattern, Separator)
	for i, level := range levels {
		switch {
		case level == MultiLevelWildcard:
			if i != len(levels)-1 {
				return fmt.Errorf("%w: %q must be the last level", ErrInvalidPattern, MultiLevelWildcard)
			}
		case level == SingleLevelWildcard:
		case strings.ContainsAny(level, MultiLevelWildcard+SingleLevelWildcard):
			return fmt.Errorf("%w: wildcard must occupy a whole level in %q", ErrInvalidPattern, level)
		}
	}
	return nil
}

// ValidateTopic checks that topic is a concrete topic name suitable for
// publishing: non-empty and free of wildcards.
func ValidateTopic(topic string) error {
	if topic == "" {
		return fmt.Errorf("%w: empty topic", ErrInvalidTemplate)
	}
	if strings.ContainsAny(topic, MultiLevelWildcard+SingleLevelWildcard) {
		return fmt.Errorf("%w: wildcard in topic %q", ErrInvalidTemplate, topic)
	}
	return nil
}

// Match reports whether topic matches the filter pattern. The pattern is
// assumed valid; see ValidatePattern.
func Match(pattern, topic string) bool {
	if strings.HasPrefix(topic, systemPrefix) {
		if strings.HasPrefix(pattern, MultiLevelWildcard) || strings.HasPrefix(pattern, SingleLevelWildcard) {
			return false
		}
	}

	patternLevels := strings.Split(pattern, Separator)
	topicLevels := strings.Split(topic, Separator)

	for i, p := range patternLevels {
		// "#" also matches the parent level: "a/#" matches "a".
		if p == MultiLevelWildcard {
			return true
		}
		if i >= len(topicLevels) {
			return false
		}
		if p != SingleLevelWildcard && p != topicLevels[i] {
			return false
		}
	}

	return len(topicLevels) == len(patternLevels)
}
