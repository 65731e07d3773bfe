// Package model defines the data structures shared by the report importer.
package model

// Path represents a file system path.
type Path string
