// Package validation checks user-supplied URLs before they reach a browser
// command or the WebSocket origin allowlist.
package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// dangerousChars could enable command injection when a URL is handed to a
// platform opener.
var dangerousChars = []string{";", "&", "|", "`", "$", "(", ")", "<", ">", "\"", "'", "\\", "\n", "\r", " "}

// ValidateURL validates URLs for browser auto-open. Only http and https
// URLs with a host and no shell metacharacters pass.
func ValidateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if err := checkScheme(parsed); err != nil {
		return err
	}

	for _, char := range dangerousChars {
		if strings.Contains(rawURL, char) {
			return fmt.Errorf("URL contains dangerous character: %q", char)
		}
	}

	if parsed.Host == "" {
		return fmt.Errorf("URL must have a valid hostname")
	}

	return nil
}

// ValidateOrigin checks an allowed-origin entry. An origin is a scheme and
// host with an optional port, exactly as browsers send it in the Origin
// header: no path, query, fragment or credentials.
func ValidateOrigin(origin string) error {
	parsed, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("invalid origin: %w", err)
	}

	if err := checkScheme(parsed); err != nil {
		return err
	}
	if parsed.Host == "" {
		return fmt.Errorf("origin must have a host")
	}
	if parsed.User != nil {
		return fmt.Errorf("origin must not carry credentials")
	}
	if (parsed.Path != "" && parsed.Path != "/") || parsed.RawQuery != "" || parsed.Fragment != "" {
		return fmt.Errorf("origin must not have a path, query or fragment")
	}

	return nil
}

func checkScheme(u *url.URL) error {
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: %s (only http/https allowed)", u.Scheme)
	}
	return nil
}
