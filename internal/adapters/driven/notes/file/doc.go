// Package file provides a directory-backed note store.
//
// Each page is a single JSON file named <page id>.json holding a domain.Page,
// body included. Files that fail to parse are skipped with a warning so one
// corrupt note cannot block indexing of the rest. The store can watch its
// directory with fsnotify and report changed page IDs.
package file
