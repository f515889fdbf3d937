// Package app holds the widget's use cases: refreshing the displayed quote,
// submitting new quotes, exporting the quote card and the mount/unmount
// lifecycle that ties them to a refresh timer.
//
// Everything here depends on ports, never on adapters. Controllers own their
// state behind a mutex and hand out copies; surfaces either poll Snapshot or
// read from Subscribe.
package app
