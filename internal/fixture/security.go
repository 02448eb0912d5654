package fixture

import (
	"fmt"
	"strings"
)

// ValidateCommand checks if a command line matches any blocked patterns.
func ValidateCommand(args []string, blockedPatterns []string) error {
	command := strings.Join(args, " ")
	for _, pattern := range blockedPatterns {
		if strings.Contains(command, pattern) {
			return fmt.Errorf("command blocked by security policy: contains %q; if this is intentional, remove it from fixtures.blocked_patterns in mdconform.yaml", pattern)
		}
	}
	return nil
}
