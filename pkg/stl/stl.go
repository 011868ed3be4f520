// Package stl writes parts as ASCII STL text.
//
// The output is the solid/facet/outer loop/vertex grammar with every facet
// normal written as "0 0 0". Normals are never derived from the vertices,
// so readers that depend on them will treat the mesh as normal-less.
package stl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/chazu/boxstl/pkg/kernel"
)

// ErrIO is matched by every error returned from Write and Export.
var ErrIO = errors.New("stl: i/o failure")

// ExportError records the operation and path of a failed export.
type ExportError struct {
	Op   string // "create", "write" or "close"
	Path string // empty when writing to a plain io.Writer
	Err  error
}

func (e *ExportError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("stl: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("stl: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// Is reports true for ErrIO.
func (e *ExportError) Is(target error) bool { return target == ErrIO }

// Stats describes an export. After a failure Facets is zero and Bytes is
// what reached the destination before the error.
type Stats struct {
	Facets int
	Bytes  int64
}

type options struct {
	precision int
}

// Option configures Write and Export.
type Option func(*options)

// WithPrecision writes coordinates with exactly n digits after the decimal
// point. A negative n selects the shortest representation that reads back
// as the same float64, which is the default.
func WithPrecision(n int) Option {
	return func(o *options) { o.precision = n }
}

func newOptions(opts []Option) options {
	o := options{precision: -1}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Write streams p to w as ASCII STL.
func Write(w io.Writer, p *kernel.Part, opts ...Option) (Stats, error) {
	cw := &countingWriter{w: w}
	st, err := encode(cw, p, newOptions(opts))
	st.Bytes = cw.n
	if err != nil {
		return st, &ExportError{Op: "write", Err: err}
	}
	return st, nil
}

// Export writes p to the file at path, creating it or truncating an existing
// one. A failed export may leave a partial file behind.
func Export(path string, p *kernel.Part, opts ...Option) (Stats, error) {
	f, err := os.Create(path)
	if err != nil {
		return Stats{}, &ExportError{Op: "create", Path: path, Err: err}
	}

	cw := &countingWriter{w: f}
	st, err := encode(cw, p, newOptions(opts))
	st.Bytes = cw.n
	if err != nil {
		f.Close()
		return st, &ExportError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return st, &ExportError{Op: "close", Path: path, Err: err}
	}
	return st, nil
}

// encode writes the full document through a buffered writer and flushes it.
func encode(w io.Writer, p *kernel.Part, o options) (Stats, error) {
	bw := bufio.NewWriter(w)
	var st Stats

	bw.WriteString("solid ")
	bw.WriteString(p.Name)
	bw.WriteByte('\n')

	var num []byte
	for _, f := range p.Faces {
		bw.WriteString("  facet normal 0 0 0\n")
		bw.WriteString("    outer loop\n")
		for _, v := range f.Vertices {
			num = num[:0]
			num = append(num, "      vertex "...)
			num = strconv.AppendFloat(num, v.X, 'f', o.precision, 64)
			num = append(num, ' ')
			num = strconv.AppendFloat(num, v.Y, 'f', o.precision, 64)
			num = append(num, ' ')
			num = strconv.AppendFloat(num, v.Z, 'f', o.precision, 64)
			num = append(num, '\n')
			bw.Write(num)
		}
		bw.WriteString("    endloop\n")
		bw.WriteString("  endfacet\n")
		st.Facets++
	}

	bw.WriteString("endsolid ")
	bw.WriteString(p.Name)
	bw.WriteByte('\n')

	// bufio.Writer latches the first error; Flush reports it. Facets that
	// may not have reached w are not counted.
	if err := bw.Flush(); err != nil {
		return Stats{}, err
	}
	return st, nil
}

// countingWriter tracks the number of bytes that reached the underlying writer.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}
