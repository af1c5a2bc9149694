// Package viz renders displacement curves in the terminal: a braille pixel
// canvas for the explorer TUI and asciigraph charts for the CLI plot and
// compare commands.
package viz
