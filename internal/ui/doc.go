// Package ui holds the terminal styles used for hymnx console output.
//
// Output is diagnostic only; styles are plain [lipgloss] foreground and weight
// settings so redirected output stays readable.
package ui
