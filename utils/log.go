package utils

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/text"
)

func PrintStep(format string, args ...any) {
	fmt.Printf(" %s %s\n", text.FgHiBlue.Sprint("•"), fmt.Sprintf(format, args...))
}

func PrintWarning(format string, args ...any) {
	fmt.Printf(" %s %s\n", text.FgHiYellow.Sprint("!"), fmt.Sprintf(format, args...))
}
