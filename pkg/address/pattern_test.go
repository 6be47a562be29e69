package address

import (
	"errors"
	"testing"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		topic   string
		want    bool
	}{
		{"device1/+/command", "device1/5/command", true},
		{"device1/+/command", "device1/1/command", true},
		{"device1/+/command", "device1/5/extra/command", false},
		{"device1/+/command", "device1/command", false},
		{"device1/+/command", "device2/5/command", false},
		{"device1/#", "device1/5/command", true},
		{"device1/#", "device1/5/extra/command", true},
		{"device1/#", "device1", true},
		{"device1/#", "device10/5", false},
		{"#", "anything/at/all", true},
		{"+", "single", true},
		{"+", "two/levels", false},
		{"+/+", "a/b", true},
		{"a/+", "a", false},
		{"a/+", "a/", true},
		{"a/b", "a/b", true},
		{"a/b", "a/b/c", false},
		{"a/b/c", "a/b", false},
		{"#", "$SYS/broker/uptime", false},
		{"+/broker/uptime", "$SYS/broker/uptime", false},
		{"$SYS/#", "$SYS/broker/uptime", true},
		{"$SYS/+/uptime", "$SYS/broker/uptime", true},
	}

	for _, tt := range tests {
		if got := Match(tt.pattern, tt.topic); got != tt.want {
			t.Errorf("Match(%q, %q) = %v, want %v", tt.pattern, tt.topic, got, tt.want)
		}
	}
}

func TestValidatePattern(t *testing.T) {
	valid := []string{"#", "+", "a/b", "a/+/c", "a/#", "+/+/#", "$SYS/#", "a//b"}
	for _, p := range valid {
		if err := ValidatePattern(p); err != nil {
			t.Errorf("ValidatePattern(%q) = %v, want nil", p, err)
		}
	}

	invalid := []string{"", "a/#/b", "a#", "a/b+", "+a/b", "#/a", "a/##"}
	for _, p := range invalid {
		if err := ValidatePattern(p); !errors.Is(err, ErrInvalidPattern) {
			t.Errorf("ValidatePattern(%q) = %v, want ErrInvalidPattern", p, err)
		}
	}
}

func TestValidateTopic(t *testing.T) {
	if err := ValidateTopic("device1/1/status"); err != nil {
		t.Errorf("ValidateTopic() = %v", err)
	}
	for _, topic := range []string{"", "a/+", "a/#"} {
		if err := ValidateTopic(topic); !errors.Is(err, ErrInvalidTemplate) {
			t.Errorf("ValidateTopic(%q) = %v, want ErrInvalidTemplate", topic, err)
		}
	}
}
