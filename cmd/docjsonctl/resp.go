package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcvoid/docjson/serialize"
	"github.com/mcvoid/docjson/store"
)

// respWriter implements serialize.ReplyWriter, rendering RESP2-style wire
// text (the bulk/simple-string/integer/array prefixes a real reply would
// use) into buf, standing in for the database's own reply encoder.
type respWriter struct {
	buf strings.Builder
}

func (w *respWriter) Null()              { w.buf.WriteString("$-1\r\n") }
func (w *respWriter) SimpleString(s string) {
	fmt.Fprintf(&w.buf, "+%s\r\n", s)
}
func (w *respWriter) BulkString(b []byte) {
	fmt.Fprintf(&w.buf, "$%d\r\n%s\r\n", len(b), b)
}
func (w *respWriter) Integer(i int64) { fmt.Fprintf(&w.buf, ":%d\r\n", i) }
func (w *respWriter) Double(f float64) {
	fmt.Fprintf(&w.buf, ",%s\r\n", strconv.FormatFloat(f, 'g', -1, 64))
}
func (w *respWriter) BeginArray(n int) { fmt.Fprintf(&w.buf, "*%d\r\n", n) }
func (w *respWriter) EndArray()        {}

func newRespCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "resp <path>",
		Short: "Render the value at path as a RESP-style reply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDocument(cmd, state, false, func(doc *store.Document) (string, error) {
				v, err := doc.Get(args[0])
				if err != nil {
					return "", err
				}
				w := &respWriter{}
				serialize.Reply(v, w)
				return w.buf.String(), nil
			})
		},
	}
}
