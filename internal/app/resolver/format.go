package resolver

import (
	"fmt"
	"regexp"
	"strings"

	"network_resolver/internal/domain/entity"
)

var hexPrivateKeyPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

const hexPrivateKeyLen = 2 + 64

// FormatCheck is the result of checking a credential value against its expected format.
// Reason describes the shape of a rejected value and never includes the value.
type FormatCheck struct {
	Valid  bool
	Reason string
}

func invalid(format string, args ...any) FormatCheck {
	return FormatCheck{Reason: fmt.Sprintf(format, args...)}
}

// CheckFormat validates value against format. It is total: every input yields a result.
func CheckFormat(format entity.CredentialFormat, value string) FormatCheck {
	switch format {
	case entity.FormatRaw:
		if value == "" {
			return invalid("value is empty")
		}
		return FormatCheck{Valid: true}
	case entity.FormatHexPrivateKey:
		if hexPrivateKeyPattern.MatchString(value) {
			return FormatCheck{Valid: true}
		}
		return describeHexKey(value)
	default:
		return invalid("unsupported credential format %d", int(format))
	}
}

func describeHexKey(value string) FormatCheck {
	if strings.TrimSpace(value) != value {
		return invalid("value has leading or trailing whitespace")
	}
	if !strings.HasPrefix(value, "0x") {
		return invalid("expected 0x prefix")
	}
	if len(value) != hexPrivateKeyLen {
		return invalid("expected 0x followed by 64 hex characters, got %d characters after prefix", len(value)-2)
	}
	for i := 2; i < len(value); i++ {
		if !isHex(value[i]) {
			return invalid("non-hex character at position %d", i)
		}
	}
	return invalid("does not match 0x-prefixed 64 hex characters")
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
