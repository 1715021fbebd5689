package xavassl

import (
	"bytes"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"slices"
)

func ParseCertificatePEM(crtPEM []byte) (crt *x509.Certificate, err error) {
	const op = "parse certificate"
	block, _ := pem.Decode(crtPEM)
	if block == nil {
		err = NewError(op, ErrMalformedPEM, fmt.Errorf("no pem block found"))
		return
	}
	if block.Type != "CERTIFICATE" {
		err = NewError(op, ErrMalformedPEM, fmt.Errorf("unexpected pem block type %q", block.Type))
		return
	}
	crt, err = x509.ParseCertificate(block.Bytes)
	if err != nil {
		err = NewError(op, ErrMalformedPEM, err)
		return
	}
	return
}

// VerifyIssued checks that caPEM is a valid self-signed CA certificate and
// that crtPEM chains to it.
func VerifyIssued(caPEM []byte, crtPEM []byte) (crt *x509.Certificate, err error) {
	const op = "verify certificate"
	ca, caErr := ParseCertificatePEM(caPEM)
	if caErr != nil {
		err = caErr
		return
	}
	if !ca.IsCA {
		err = NewError(op, ErrSigning, fmt.Errorf("%q is not a certificate authority", ca.Subject.CommonName))
		return
	}
	if selfErr := ca.CheckSignatureFrom(ca); selfErr != nil {
		err = NewError(op, ErrSigning, fmt.Errorf("ca self signature, %w", selfErr))
		return
	}
	parsed, parseErr := ParseCertificatePEM(crtPEM)
	if parseErr != nil {
		err = parseErr
		return
	}
	roots := x509.NewCertPool()
	roots.AddCert(ca)
	if _, verifyErr := parsed.Verify(x509.VerifyOptions{
		Roots:     roots,
		KeyUsages: []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	}); verifyErr != nil {
		err = NewError(op, ErrSigning, verifyErr)
		return
	}
	crt = parsed
	return
}

// Equivalent reports an error unless a and b carry the same subject, names,
// public key and issuer.
func Equivalent(a *x509.Certificate, b *x509.Certificate) error {
	if a.Subject.CommonName != b.Subject.CommonName {
		return fmt.Errorf("subject %q differs from %q", a.Subject.CommonName, b.Subject.CommonName)
	}
	if !bytes.Equal(a.RawSubject, b.RawSubject) {
		return fmt.Errorf("subject of %q is encoded differently", a.Subject.CommonName)
	}
	if !bytes.Equal(a.RawSubjectPublicKeyInfo, b.RawSubjectPublicKeyInfo) {
		return fmt.Errorf("public keys of %q differ", a.Subject.CommonName)
	}
	if !slices.Equal(a.DNSNames, b.DNSNames) {
		return fmt.Errorf("dns names %v differ from %v", a.DNSNames, b.DNSNames)
	}
	if !bytes.Equal(a.RawIssuer, b.RawIssuer) {
		return fmt.Errorf("issuer %q differs from %q", a.Issuer.CommonName, b.Issuer.CommonName)
	}
	if a.IsCA != b.IsCA {
		return fmt.Errorf("ca flag of %q differs", a.Subject.CommonName)
	}
	return nil
}
