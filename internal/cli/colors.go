package cli

import (
	"fmt"
	"os"
)

const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
	Black  = "\033[30m"
)

// disableColor is a cached check for the environment variable
var disableColor = checkNoColor()

func checkNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// Stylize wraps text in a specific color code
func Stylize(text string, colorCode string) string {
	if disableColor {
		return text
	}
	return fmt.Sprintf("%s%s%s", colorCode, text, Reset)
}

// CheckMark returns a green check symbol
func CheckMark() string {
	return Stylize("✓", Green)
}

// WarningSign returns a yellow warning symbol
func WarningSign() string {
	return Stylize("!", Yellow)
}

// CrossMark returns a red cross symbol
func CrossMark() string {
	return Stylize("✗", Red)
}
