package main

import (
	"fmt"

	"github.com/mattn/go-colorable"
)

type color string

const (
	Reset color = "\x1b[0m"
	Red   color = "\x1b[31m"
	Green color = "\x1b[32m"
)

var out = colorable.NewColorableStdout()

func printColor(color color, format string, a ...any) {
	fmt.Fprintf(out, "%s%s%s\n", color, fmt.Sprintf(format, a...), Reset)
}

func printError(format string, a ...any) {
	printColor(Red, "ERROR: "+format, a...)
}
