// Package graph defines the design graph produced by evaluating a part
// script. The graph is a small DAG of boxes and translations, plus
// the ordered list of files the script asked to export.
package graph
