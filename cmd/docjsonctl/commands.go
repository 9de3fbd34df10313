package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcvoid/docjson/node"
	"github.com/mcvoid/docjson/store"
)

// withDocument loads the --file document, runs fn against a store.Document
// sharing state's cache, saves the document back if mutate is true, and
// writes a uuid-tagged trace line to stderr alongside fn's textual result
// on stdout.
func withDocument(cmd *cobra.Command, state *appState, mutate bool, fn func(*store.Document) (string, error)) error {
	state.mu.Lock()
	defer state.mu.Unlock()

	path, _ := cmd.Flags().GetString("file")
	root, err := loadDocument(path)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	doc := store.NewDocument(state.cache)
	if _, err := doc.Set("$", root, store.Always); err != nil {
		return err
	}

	out, err := fn(doc)
	id := traceID()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "trace=%s error: %v\n", id, err)
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "trace=%s ok\n", id)

	if mutate {
		if err := saveDocument(path, doc.Root()); err != nil {
			return fmt.Errorf("saving %s: %w", path, err)
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func parseSetCondition(xx, nx bool) store.SetCondition {
	switch {
	case xx:
		return store.XX
	case nx:
		return store.NX
	default:
		return store.Always
	}
}

func newSetCmd(state *appState) *cobra.Command {
	var xx, nx bool
	cmd := &cobra.Command{
		Use:   "set <path> <json-value>",
		Short: "Set the value at path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDocument(cmd, state, true, func(doc *store.Document) (string, error) {
				value, err := parseJSONArg(args[1])
				if err != nil {
					return "", err
				}
				prev, err := doc.Set(args[0], value, parseSetCondition(xx, nx))
				if err != nil {
					return "", err
				}
				if prev == nil {
					return "OK", nil
				}
				return "OK (replaced previous value)", nil
			})
		},
	}
	cmd.Flags().BoolVar(&xx, "xx", false, "only set if the path already exists")
	cmd.Flags().BoolVar(&nx, "nx", false, "only set if the path does not exist")
	return cmd
}

func newGetCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "get <path>",
		Short: "Get the value at path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDocument(cmd, state, false, func(doc *store.Document) (string, error) {
				v, err := doc.Get(args[0])
				if err != nil {
					return "", err
				}
				return renderJSON(v)
			})
		},
	}
}

func newDelCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "del <path>",
		Short: "Delete the value at path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDocument(cmd, state, true, func(doc *store.Document) (string, error) {
				ok, err := doc.Del(args[0])
				if err != nil {
					return "", err
				}
				return strconv.FormatBool(ok), nil
			})
		},
	}
}

func newNumIncrByCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "numincrby <path> <delta>",
		Short: "Increment the numeric value at path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDocument(cmd, state, true, func(doc *store.Document) (string, error) {
				delta, err := parseJSONArg(args[1])
				if err != nil {
					return "", err
				}
				sum, err := doc.NumIncrBy(args[0], delta)
				if err != nil {
					return "", err
				}
				return renderJSON(sum)
			})
		},
	}
}

func newNumMultiplyByCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "nummultby <path> <factor>",
		Short: "Multiply the numeric value at path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDocument(cmd, state, true, func(doc *store.Document) (string, error) {
				factor, err := parseJSONArg(args[1])
				if err != nil {
					return "", err
				}
				prod, err := doc.NumMultiplyBy(args[0], factor)
				if err != nil {
					return "", err
				}
				return renderJSON(prod)
			})
		},
	}
}

func newStrAppendCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "strappend <path> <json-string>",
		Short: "Append to the string at path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDocument(cmd, state, true, func(doc *store.Document) (string, error) {
				s, err := parseJSONArg(args[1])
				if err != nil {
					return "", err
				}
				b, err := s.AsBytes()
				if err != nil {
					return "", fmt.Errorf("argument must be a JSON string: %w", err)
				}
				n, err := doc.StrAppend(args[0], b)
				if err != nil {
					return "", err
				}
				return strconv.Itoa(n), nil
			})
		},
	}
}

func newArrAppendCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "arrappend <path> <json-value>...",
		Short: "Append values to the array at path",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDocument(cmd, state, true, func(doc *store.Document) (string, error) {
				values, err := parseJSONArgs(args[1:])
				if err != nil {
					return "", err
				}
				n, err := doc.ArrAppend(args[0], values...)
				if err != nil {
					return "", err
				}
				return strconv.Itoa(n), nil
			})
		},
	}
}

func newArrInsertCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "arrinsert <path> <index> <json-value>...",
		Short: "Insert values into the array at path",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDocument(cmd, state, true, func(doc *store.Document) (string, error) {
				idx, err := strconv.Atoi(args[1])
				if err != nil {
					return "", fmt.Errorf("index must be an integer: %w", err)
				}
				values, err := parseJSONArgs(args[2:])
				if err != nil {
					return "", err
				}
				n, err := doc.ArrInsert(args[0], idx, values)
				if err != nil {
					return "", err
				}
				return strconv.Itoa(n), nil
			})
		},
	}
}

func newArrTrimCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "arrtrim <path> <start> <count>",
		Short: "Trim the array at path to [start, start+count)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDocument(cmd, state, true, func(doc *store.Document) (string, error) {
				start, err := strconv.Atoi(args[1])
				if err != nil {
					return "", fmt.Errorf("start must be an integer: %w", err)
				}
				count, err := strconv.Atoi(args[2])
				if err != nil {
					return "", fmt.Errorf("count must be an integer: %w", err)
				}
				n, err := doc.ArrTrim(args[0], start, count)
				if err != nil {
					return "", err
				}
				return strconv.Itoa(n), nil
			})
		},
	}
}

func newArrLenCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "arrlen <path>",
		Short: "Report the length of the array at path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDocument(cmd, state, false, func(doc *store.Document) (string, error) {
				n, err := doc.ArrLen(args[0])
				if err != nil {
					return "", err
				}
				return strconv.Itoa(n), nil
			})
		},
	}
}

func newObjKeysCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "objkeys <path>",
		Short: "List the keys of the object at path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDocument(cmd, state, false, func(doc *store.Document) (string, error) {
				keys, err := doc.ObjKeys(args[0])
				if err != nil {
					return "", err
				}
				out := ""
				for i, k := range keys {
					if i > 0 {
						out += "\n"
					}
					out += string(k)
				}
				return out, nil
			})
		},
	}
}

func newObjLenCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "objlen <path>",
		Short: "Report the pair count of the object at path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDocument(cmd, state, false, func(doc *store.Document) (string, error) {
				n, err := doc.ObjLen(args[0])
				if err != nil {
					return "", err
				}
				return strconv.Itoa(n), nil
			})
		},
	}
}

func newTypeCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "type <path>",
		Short: "Report the type of the value at path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDocument(cmd, state, false, func(doc *store.Document) (string, error) {
				k, err := doc.Type(args[0])
				if err != nil {
					return "", err
				}
				return k.String(), nil
			})
		},
	}
}

func newLenCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "len <path>",
		Short: "Report the Length of the value at path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDocument(cmd, state, false, func(doc *store.Document) (string, error) {
				n, err := doc.Len(args[0])
				if err != nil {
					return "", err
				}
				return strconv.Itoa(n), nil
			})
		},
	}
}

func newDebugCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "debug <path>",
		Short: "Report the in-memory byte footprint of the value at path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDocument(cmd, state, false, func(doc *store.Document) (string, error) {
				v, err := doc.Get(args[0])
				if err != nil {
					return "", err
				}
				usage := serializeMemoryUsage(v)
				return fmt.Sprintf("kind=%s bytes=%d", v.Kind(), usage), nil
			})
		},
	}
}

func parseJSONArg(s string) (*node.Node, error) {
	return parseJSON(s)
}

func parseJSONArgs(ss []string) ([]*node.Node, error) {
	out := make([]*node.Node, len(ss))
	for i, s := range ss {
		v, err := parseJSON(s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
