package instance

import "os"

// GetID names the running process for log correlation. Heroku-style dynos
// set DYNO; containers fall back to HOSTNAME.
func GetID() string {
	for _, key := range []string{"DYNO", "HOSTNAME"} {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	return "local"
}
