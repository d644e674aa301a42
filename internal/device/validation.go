package device

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nerrad567/devicelink/internal/fault"
)

// ipv4Regex matches four dot-separated octets in 0-255. Leading zeros are
// tolerated ("010.1.1.1") to stay compatible with existing registrations.
var ipv4Regex = regexp.MustCompile(`^((25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)$`)

// ValidateAddress checks that address is an IPv4 dotted quad.
func ValidateAddress(address string) error {
	if !ipv4Regex.MatchString(address) {
		return fmt.Errorf("%w: invalid address %q", fault.ErrInvalidArgument, address)
	}
	return nil
}

func required(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fault.Invalid(field, "is empty or blank")
	}
	return s, nil
}

// normalizeEndpoint trims and validates an address/port pair.
func normalizeEndpoint(address, port string) (string, string, error) {
	address, err := required("ip", address)
	if err != nil {
		return "", "", err
	}
	if err := ValidateAddress(address); err != nil {
		return "", "", err
	}
	port, err = required("port", port)
	if err != nil {
		return "", "", err
	}
	return address, port, nil
}
