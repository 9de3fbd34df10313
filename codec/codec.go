// Package codec implements the persistent binary format: a depth-first
// writer built on the Serializer Engine and a reconstructing reader driven
// by the same container-stack discipline, prefixed by a semver-validated
// format version header.
package codec

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/mod/semver"

	"github.com/mcvoid/docjson/node"
	"github.com/mcvoid/docjson/serialize"
)

// ErrCodec is the sentinel wrapped by all codec errors.
var ErrCodec = errors.New("codec error")

// Version is the format version this package writes. codec.Read accepts any
// valid semver stream version whose major component equals Version's and
// rejects every other; minor and patch components are not compared.
const Version = "v1.0.0"

type tag uint8

const (
	tagNull tag = iota
	tagBool
	tagInt
	tagDouble
	tagString
	tagArray
	tagDict
	tagKey
)

// Write encodes n to w: a length-prefixed version header followed by the
// depth-first tag stream described in the package's binary format.
func Write(w io.Writer, n *node.Node) error {
	bw := bufio.NewWriter(w)
	if err := writeVersionHeader(bw); err != nil {
		return err
	}
	enc := &encoder{w: bw}
	serialize.Walk(n, enc)
	if enc.err != nil {
		return enc.err
	}
	return bw.Flush()
}

func writeVersionHeader(w io.Writer) error {
	if !semver.IsValid(Version) {
		return fmt.Errorf("%w: codec's own version %q is not valid semver", ErrCodec, Version)
	}
	if err := binary.Write(w, binary.BigEndian, uint32(len(Version))); err != nil {
		return err
	}
	_, err := io.WriteString(w, Version)
	return err
}

// Read decodes a stream written by Write: validates the version header,
// then reconstructs the tree depth-first.
func Read(r io.Reader) (*node.Node, error) {
	br := bufio.NewReader(r)
	if err := readVersionHeader(br); err != nil {
		return nil, err
	}
	dec := &decoder{r: br}
	return dec.readValue()
}

func readVersionHeader(r io.Reader) error {
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return fmt.Errorf("%w: reading version length: %v", ErrCodec, err)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("%w: reading version string: %v", ErrCodec, err)
	}
	v := string(buf)
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: stream version %q is not valid semver", ErrCodec, v)
	}
	if semver.Major(v) != semver.Major(Version) {
		return fmt.Errorf("%w: stream version %q has unsupported major version (codec supports %s)", ErrCodec, v, semver.Major(Version))
	}
	return nil
}
