package xavassl

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	encoding_asn1 "encoding/asn1"
	"fmt"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

func signatureAlgorithm(pub crypto.PublicKey) x509.SignatureAlgorithm {
	switch k := pub.(type) {
	case *rsa.PublicKey:
		bitLength := k.N.BitLen()
		switch {
		case bitLength >= 4096:
			return x509.SHA512WithRSA
		case bitLength >= 3072:
			return x509.SHA384WithRSA
		default:
			return x509.SHA256WithRSA
		}
	case *ecdsa.PublicKey:
		switch k.Curve {
		case elliptic.P384():
			return x509.ECDSAWithSHA384
		case elliptic.P521():
			return x509.ECDSAWithSHA512
		default:
			return x509.ECDSAWithSHA256
		}
	case ed25519.PublicKey:
		return x509.PureEd25519
	default:
		return x509.UnknownSignatureAlgorithm
	}
}

var supportedPublicKeyAlgorithms = map[x509.PublicKeyAlgorithm]bool{
	x509.RSA:     true,
	x509.ECDSA:   true,
	x509.Ed25519: true,
}

// subjectKeyID is the SHA-1 of the subjectPublicKey bit string (RFC 5280
// 4.2.1.2, method 1).
func subjectKeyID(pub crypto.PublicKey) (id []byte, err error) {
	spki, marshalErr := x509.MarshalPKIXPublicKey(pub)
	if marshalErr != nil {
		err = marshalErr
		return
	}
	input := cryptobyte.String(spki)
	var info cryptobyte.String
	var bits encoding_asn1.BitString
	if !input.ReadASN1(&info, asn1.SEQUENCE) ||
		!info.SkipASN1(asn1.SEQUENCE) ||
		!info.ReadASN1BitString(&bits) {
		err = fmt.Errorf("malformed subject public key info")
		return
	}
	sum := sha1.Sum(bits.Bytes)
	id = sum[:]
	return
}
