package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// envSearchDepth bounds the walk from the executable's directory toward the
// filesystem root when probing for a .env file.
const envSearchDepth = 3

// LoadEnv loads environment variables from a .env file. Explicit paths are
// tried as given (test use); otherwise the executable's directory and its
// parents are probed, so a binary in bin/ finds the project-root .env, then
// the current working directory for `go run ./cmd/rulesmith`. Without a
// .env anywhere, the process environment is used as is.
func LoadEnv(paths ...string) {
	if len(paths) > 0 {
		if err := godotenv.Load(paths...); err != nil {
			log.Printf("[Config] No .env file at specified path(s), using system environment variables")
		}
		return
	}

	for _, p := range envCandidates() {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			log.Printf("[Config] Failed to load .env from %s: %v", p, err)
		} else {
			log.Printf("[Config] Loaded .env from %s", p)
		}
		return
	}

	log.Printf("[Config] No .env file found, using system environment variables")
}

// envCandidates returns the ordered .env locations to probe.
func envCandidates() []string {
	var candidates []string
	if exe, err := os.Executable(); err == nil {
		if real, err := filepath.EvalSymlinks(exe); err == nil {
			exe = real
		}
		dir := filepath.Dir(exe)
		for i := 0; i <= envSearchDepth; i++ {
			candidates = append(candidates, filepath.Join(dir, ".env"))
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, ".env"))
	}
	return candidates
}
