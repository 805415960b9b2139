package config

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

var envRefPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandEnvStrict expands environment references in value. Both $VAR
// and ${VAR} forms expand; a ${VAR} whose variable is unset is an
// error rather than a silent empty string, and $$ escapes a literal
// dollar.
func ExpandEnvStrict(value string) (string, error) {
	const escapedDollar = "\x00stellarcade:dollar\x00"
	value = strings.ReplaceAll(value, "$$", escapedDollar)

	var missing []string
	seen := make(map[string]bool)
	for _, match := range envRefPattern.FindAllStringSubmatch(value, -1) {
		name := match[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		if _, ok := os.LookupEnv(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	value = os.ExpandEnv(value)
	return strings.ReplaceAll(value, escapedDollar, "$"), nil
}
