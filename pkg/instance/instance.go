package instance

import "os"

// GetID returns the identifier this process reports in logs. Platform
// schedulers set MEDIASHELF_INSTANCE_ID; otherwise the hostname is used.
func GetID() string {
	if id := os.Getenv("MEDIASHELF_INSTANCE_ID"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
