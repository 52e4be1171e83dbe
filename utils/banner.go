package utils

import (
	"github.com/common-nighthawk/go-figure"
)

func DrawBanner() {
	banner := figure.NewColorFigure("vmx deploy", "", "green", true)
	banner.Print()
}
