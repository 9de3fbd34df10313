// Package snapshot wraps the binary codec's byte stream with a detached
// PKCS#7 signature, so an exported document can be authenticated and its
// signer chain recovered on import.
package snapshot

import (
	"bytes"
	"crypto"
	"crypto/x509"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"go.mozilla.org/pkcs7"
	"golang.org/x/crypto/pkcs12"

	"github.com/mcvoid/docjson/codec"
	"github.com/mcvoid/docjson/node"
)

// ErrSnapshot is the sentinel wrapped by all snapshot-level errors.
var ErrSnapshot = errors.New("snapshot error")

// Snapshot is a codec-encoded document plus a detached PKCS#7 signature
// over that exact byte payload.
type Snapshot struct {
	Payload   []byte
	Signature []byte
}

// Sign encodes n with the binary codec and produces a detached PKCS#7
// signature over the encoded bytes, using the SHA-256 digest algorithm.
// certs[0] must be the signer's own certificate; certs[1:] form the rest
// of the chain, mirroring the original's "cert, intermediates..." layout.
func Sign(n *node.Node, key crypto.PrivateKey, certs []*x509.Certificate) (*Snapshot, error) {
	if len(certs) == 0 {
		return nil, fmt.Errorf("%w: at least one certificate is required", ErrSnapshot)
	}

	var buf bytes.Buffer
	if err := codec.Write(&buf, n); err != nil {
		return nil, fmt.Errorf("%w: encoding payload: %v", ErrSnapshot, err)
	}
	payload := buf.Bytes()

	signedData, err := pkcs7.NewSignedData(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshot, err)
	}
	signedData.SetDigestAlgorithm(pkcs7.OIDDigestAlgorithmSHA256)
	if err := signedData.AddSignerChain(certs[0], key, certs[1:], pkcs7.SignerInfoConfig{}); err != nil {
		return nil, fmt.Errorf("%w: signing: %v", ErrSnapshot, err)
	}
	signedData.Detach()
	sig, err := signedData.Finish()
	if err != nil {
		return nil, fmt.Errorf("%w: finishing signature: %v", ErrSnapshot, err)
	}

	return &Snapshot{Payload: payload, Signature: sig}, nil
}

// Verify checks snap's detached signature against its payload and, on
// success, decodes the payload and returns it along with the signer
// chain the signature carried.
func Verify(snap *Snapshot) (*node.Node, []*x509.Certificate, error) {
	p7, err := pkcs7.Parse(snap.Signature)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: parsing signature: %v", ErrSnapshot, err)
	}
	p7.Content = snap.Payload
	if err := p7.Verify(); err != nil {
		return nil, nil, fmt.Errorf("%w: signature verification failed: %v", ErrSnapshot, err)
	}

	n, err := codec.Read(bytes.NewReader(snap.Payload))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: decoding payload: %v", ErrSnapshot, err)
	}
	return n, p7.Certificates, nil
}

// Write serializes snap as a length-prefixed payload followed by a
// length-prefixed signature.
func Write(w io.Writer, snap *Snapshot) error {
	if err := writeLenPrefixed(w, snap.Payload); err != nil {
		return err
	}
	return writeLenPrefixed(w, snap.Signature)
}

// Read reconstructs a Snapshot written by Write.
func Read(r io.Reader) (*Snapshot, error) {
	payload, err := readLenPrefixed(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading payload: %v", ErrSnapshot, err)
	}
	sig, err := readLenPrefixed(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading signature: %v", ErrSnapshot, err)
	}
	return &Snapshot{Payload: payload, Signature: sig}, nil
}

func writeLenPrefixed(w io.Writer, b []byte) error {
	if err := binary.Write(w, binary.BigEndian, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readLenPrefixed(r io.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	_, err := io.ReadFull(r, buf)
	return buf, err
}

// LoadIdentity parses a PKCS#12 bundle into a signing key and certificate
// chain, mirroring the original's manual handling of included intermediate
// certificates (the pkcs12 package does not preserve bag order on its own
// Decode path, so this goes through ToPEM and classifies blocks itself).
func LoadIdentity(p12 []byte, password string) (crypto.PrivateKey, []*x509.Certificate, error) {
	blocks, err := pkcs12.ToPEM(p12, password)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSnapshot, err)
	}

	var keyBlocks, certBlocks [][]byte
	for _, b := range blocks {
		switch b.Type {
		case "PRIVATE KEY":
			keyBlocks = append(keyBlocks, b.Bytes)
		case "CERTIFICATE":
			certBlocks = append(certBlocks, b.Bytes)
		}
	}
	switch {
	case len(keyBlocks) == 0:
		return nil, nil, fmt.Errorf("%w: bundle contains no private key", ErrSnapshot)
	case len(keyBlocks) > 1:
		return nil, nil, fmt.Errorf("%w: bundle contains more than one private key", ErrSnapshot)
	case len(certBlocks) == 0:
		return nil, nil, fmt.Errorf("%w: bundle contains no certificate", ErrSnapshot)
	}

	var key crypto.PrivateKey
	if rsaKey, rsaErr := x509.ParsePKCS1PrivateKey(keyBlocks[0]); rsaErr == nil {
		key = rsaKey
	} else if ecKey, ecErr := x509.ParseECPrivateKey(keyBlocks[0]); ecErr == nil {
		key = ecKey
	} else {
		return nil, nil, fmt.Errorf("%w: parsing private key: %v", ErrSnapshot, rsaErr)
	}

	var certs []*x509.Certificate
	for _, cb := range certBlocks {
		parsed, err := x509.ParseCertificates(cb)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: parsing certificate: %v", ErrSnapshot, err)
		}
		certs = append(certs, parsed...)
	}

	return key, certs, nil
}
