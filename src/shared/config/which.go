package config

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/veedubyou/chord-paper-scribe/src/shared/config/envvar"
)

func FindBin(bin string) string {
	cmd := exec.Command("which", bin)
	output, err := cmd.CombinedOutput()

	stringOutput := string(output)
	if err != nil {
		panic(fmt.Sprintf("Failed to find %s: %s", bin, stringOutput))
	}

	trimmedOutput := strings.TrimSpace(stringOutput)
	if trimmedOutput == "" {
		panic(fmt.Sprintf("No bin found for %s", bin))
	}

	return trimmedOutput
}

// BinPath prefers an explicit path, then the env var, then whatever is on PATH.
func BinPath(explicit string, envKey string, bin string) string {
	if explicit != "" {
		return explicit
	}

	if fromEnv := envvar.Get(envKey, ""); fromEnv != "" {
		return fromEnv
	}

	return FindBin(bin)
}

func SpleeterPath() string {
	return BinPath("", envvar.SPLEETER_BIN_PATH, "spleeter")
}
