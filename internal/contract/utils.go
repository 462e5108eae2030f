package contract

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/branchreport/schema"
)

// Color variables for console output.
var (
	ActiveColor  = color.New(color.FgGreen, color.Bold) // ActiveColor marks branches with fresh commits.
	RecentColor  = color.New(color.FgCyan)              // RecentColor marks branches touched this quarter.
	StaleColor   = color.New(color.FgYellow)            // StaleColor marks branches idle for months.
	DormantColor = color.New(color.FgRed)               // DormantColor marks branches idle for over a year.
)

// unsafeNameChars matches characters that are not kept in clone directory names.
var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// GetColorLabel returns a colored activity label for console output (table).
func GetColorLabel(label schema.ActivityLabel) string {
	text := string(label)

	switch label {
	case schema.ActiveLabel:
		return ActiveColor.Sprint(text)
	case schema.RecentLabel:
		return RecentColor.Sprint(text)
	case schema.StaleLabel:
		return StaleColor.Sprint(text)
	default: // "Dormant"
		return DormantColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".branchreport_cache.db"
	}
	return filepath.Join(homeDir, ".branchreport_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for report history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".branchreport_history.db"
	}
	return filepath.Join(homeDir, ".branchreport_history.db")
}

// SanitizeSourceName turns a clone URL into a stable directory name made of
// the last path element and a short hash of the full source.
func SanitizeSourceName(source string) string {
	trimmed := strings.TrimSuffix(strings.TrimRight(source, "/"), ".git")
	base := trimmed
	if i := strings.LastIndexAny(trimmed, "/:"); i >= 0 {
		base = trimmed[i+1:]
	}
	base = strings.Trim(unsafeNameChars.ReplaceAllString(base, "-"), "-.")
	if base == "" {
		base = "repo"
	}
	sum := sha256.Sum256([]byte(source))
	return fmt.Sprintf("%s-%x.git", base, sum[:6])
}

// TruncatePath truncates a branch name to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
