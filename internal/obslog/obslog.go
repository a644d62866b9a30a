// Package obslog centralizes the structured-logging wiring shared by the
// reduction engine and the effect handler registry, following logrus the way
// Consensys-go-corset (a sibling register/IR compiler in this corpus)
// wires it for its own pipeline: leveled, field-structured entries rather
// than ad hoc fmt.Printf.
package obslog

import (
	"io"

	"github.com/sirupsen/logrus"
)

// New returns a *logrus.Logger whose output is discarded unless the caller
// opts in (mirrors the teacher's NewVMWithOutput(nil)-means-silent idiom).
func New() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// WithOutput returns a *logrus.Logger writing JSON-structured entries to w,
// for callers who do want to observe step traces and handler fallbacks.
func WithOutput(w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger
}
