// Utilities for turning a browser "Copy as cURL" command into ytmusicapi headers.
package shared

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	headerFlag = regexp.MustCompile(`(?:-H|--header)\s+(?:'([^']+)'|"([^"]+)")`)
	cookieFlag = regexp.MustCompile(`(?:-b|--cookie)\s+(?:'([^']+)'|"([^"]+)")`)
)

// CurlHeaders represents parsed headers and cookies from a cURL command.
type CurlHeaders struct {
	Headers map[string]string
	Cookie  string
}

// ParseCurlFile reads a .sh file containing a cURL command and extracts headers.
func ParseCurlFile(path string) (*CurlHeaders, error) {
	content, err := VerifyAndReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlCommand(string(content))
}

// ParseCurlCommand parses a cURL command string and extracts headers.
//
// A cookie passed with -b wins over a Cookie header.
func ParseCurlCommand(command string) (*CurlHeaders, error) {
	command = strings.ReplaceAll(command, "\\\n", " ")
	command = strings.ReplaceAll(command, "\\", "")

	result := &CurlHeaders{Headers: make(map[string]string)}
	var headerCookie string

	for _, match := range headerFlag.FindAllStringSubmatch(command, -1) {
		key, value, ok := strings.Cut(quoted(match), ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if strings.EqualFold(key, "cookie") {
			if headerCookie == "" {
				headerCookie = value
			}
			continue
		}
		result.Headers[key] = value
	}

	if match := cookieFlag.FindStringSubmatch(command); match != nil {
		result.Cookie = quoted(match)
	} else {
		result.Cookie = headerCookie
	}

	if len(result.Headers) == 0 && result.Cookie == "" {
		return nil, fmt.Errorf("%w: no headers found in curl command", ErrInvalidInput)
	}

	return result, nil
}

// quoted returns whichever quote style matched.
func quoted(match []string) string {
	if match[1] != "" {
		return match[1]
	}
	return match[2]
}

// ToHeadersRaw converts parsed headers to the headers_raw format ytmusicapi expects.
//
// Lines are "Key: Value", sorted by key, with the cookie last.
func (c *CurlHeaders) ToHeadersRaw() string {
	keys := make([]string, 0, len(c.Headers))
	for key := range c.Headers {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys)+1)
	for _, key := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", key, c.Headers[key]))
	}

	if c.Cookie != "" {
		lines = append(lines, fmt.Sprintf("cookie: %s", c.Cookie))
	}

	return strings.Join(lines, "\n")
}
