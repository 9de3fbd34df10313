package main

import (
	"os"
	"strings"

	"github.com/mcvoid/docjson/builder"
	"github.com/mcvoid/docjson/node"
	"github.com/mcvoid/docjson/serialize"
)

// loadDocument reads the JSON document at path. A missing file yields a
// fresh Null document rather than an error, so "set" can initialize a
// document that doesn't exist yet.
func loadDocument(path string) (*node.Node, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return node.NewNull(), nil
	}
	if err != nil {
		return nil, err
	}
	return builder.Parse(strings.NewReader(string(raw)))
}

// saveDocument writes root back to path as compact JSON text.
func saveDocument(path string, root *node.Node) error {
	data, err := serialize.JSON(root, serialize.JSONOpt{})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
