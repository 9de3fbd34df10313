package snapshot

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/mcvoid/docjson/builder"
	"github.com/mcvoid/docjson/node"
)

func selfSignedIdentity(t *testing.T) (*ecdsa.PrivateKey, *x509.Certificate) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "docjson test signer"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatal(err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatal(err)
	}
	return key, cert
}

func TestSignVerifyRoundTrip(t *testing.T) {
	key, cert := selfSignedIdentity(t)
	n, err := builder.Parse(strings.NewReader(`{"a":1,"b":[2,3,"x"]}`))
	if err != nil {
		t.Fatal(err)
	}

	snap, err := Sign(n, key, []*x509.Certificate{cert})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	got, chain, err := Verify(snap)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !node.Equal(n, got) {
		t.Errorf("round trip mismatch: got %s", got)
	}
	if len(chain) != 1 || chain[0].SerialNumber.Cmp(cert.SerialNumber) != 0 {
		t.Errorf("expected signer chain to contain the signing certificate")
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	key, cert := selfSignedIdentity(t)
	n, err := builder.Parse(strings.NewReader(`{"a":1}`))
	if err != nil {
		t.Fatal(err)
	}
	snap, err := Sign(n, key, []*x509.Certificate{cert})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tampered := append([]byte(nil), snap.Payload...)
	tampered[len(tampered)-1] ^= 0xFF
	snap.Payload = tampered

	if _, _, err := Verify(snap); err == nil {
		t.Fatal("expected tampering to be detected")
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	key, cert := selfSignedIdentity(t)
	n, err := builder.Parse(strings.NewReader(`[1,2,3]`))
	if err != nil {
		t.Fatal(err)
	}
	snap, err := Sign(n, key, []*x509.Certificate{cert})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, snap); err != nil {
		t.Fatal(err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got.Payload, snap.Payload) || !bytes.Equal(got.Signature, snap.Signature) {
		t.Fatal("write/read round trip mismatch")
	}
}
