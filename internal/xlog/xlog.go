// Package xlog is a thin structured-logging shim around logrus, used so
// the rest of the undo module never imports logrus directly.
package xlog

import "github.com/sirupsen/logrus"

// Log is the package-level logger. Tests and embedders may redirect its
// output via logrus's own Logger.SetOutput.
var Log = logrus.StandardLogger()

// Fields is re-exported so callers don't need their own logrus import.
type Fields = logrus.Fields

// With returns an entry carrying the given key/value fields, in the
// log.WithFields(log.Fields{...}) style.
func With(fields Fields) *logrus.Entry {
	return Log.WithFields(fields)
}
