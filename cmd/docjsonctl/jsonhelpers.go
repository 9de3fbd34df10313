package main

import (
	"strings"

	"github.com/mcvoid/docjson/builder"
	"github.com/mcvoid/docjson/node"
	"github.com/mcvoid/docjson/serialize"
)

func parseJSON(s string) (*node.Node, error) {
	return builder.Parse(strings.NewReader(s))
}

func renderJSON(n *node.Node) (string, error) {
	b, err := serialize.JSON(n, serialize.JSONOpt{})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func serializeMemoryUsage(n *node.Node) uintptr {
	return serialize.MemoryUsage(n)
}
