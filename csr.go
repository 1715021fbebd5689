package xavassl

import (
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"github.com/go-acme/lego/v4/certcrypto"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
	"strings"
)

const csrBlockType = "CERTIFICATE REQUEST"

// SerializeCSR encodes a PKCS#10 request for the certificate's subject and
// public key, signed with its own key.
func (c *Certificate) SerializeCSR() (csrPEM []byte, err error) {
	op := "create certificate request for " + c.identity.CommonName
	tpl := &x509.CertificateRequest{
		SignatureAlgorithm: signatureAlgorithm(c.key.Public()),
		Subject:            c.template.Subject,
	}
	csrRaw, csrErr := x509.CreateCertificateRequest(rand.Reader, tpl, c.key)
	if csrErr != nil {
		err = NewError(op, ErrSigning, csrErr)
		return
	}
	csr, parseErr := x509.ParseCertificateRequest(csrRaw)
	if parseErr != nil {
		err = NewError(op, ErrSigning, parseErr)
		return
	}
	csrPEM = certcrypto.PEMEncode(csr)
	return
}

// ParseCSRPEM decodes a PEM certificate request and checks that it is
// well formed, uses a supported key algorithm, carries a valid
// self-signature and names a subject.
func ParseCSRPEM(csrPEM []byte) (csr *x509.CertificateRequest, err error) {
	const op = "parse certificate request"
	block, _ := pem.Decode(csrPEM)
	if block == nil {
		err = NewError(op, ErrMalformedPEM, fmt.Errorf("no pem block found"))
		return
	}
	if block.Type != csrBlockType && block.Type != "NEW "+csrBlockType {
		err = NewError(op, ErrMalformedPEM, fmt.Errorf("unexpected pem block type %q", block.Type))
		return
	}
	if schemaErr := checkRequestSchema(block.Bytes); schemaErr != nil {
		err = NewError(op, ErrMalformedCSR, schemaErr)
		return
	}
	parsed, parseErr := x509.ParseCertificateRequest(block.Bytes)
	if parseErr != nil {
		err = NewError(op, ErrMalformedCSR, parseErr)
		return
	}
	if !supportedPublicKeyAlgorithms[parsed.PublicKeyAlgorithm] {
		err = NewError(op, ErrUnsupportedRequest, fmt.Errorf("public key algorithm %v is not supported", parsed.PublicKeyAlgorithm))
		return
	}
	if sigErr := parsed.CheckSignature(); sigErr != nil {
		if errors.Is(sigErr, x509.ErrUnsupportedAlgorithm) {
			err = NewError(op, ErrUnsupportedRequest, sigErr)
			return
		}
		err = NewError(op, ErrInvalidCSRSignature, sigErr)
		return
	}
	if strings.TrimSpace(parsed.Subject.CommonName) == "" {
		err = NewError(op, ErrUnsupportedRequest, fmt.Errorf("subject common name is empty"))
		return
	}
	csr = parsed
	return
}

// checkRequestSchema walks the outer CertificationRequest structure:
// SEQUENCE { SEQUENCE info, SEQUENCE algorithm, BIT STRING signature }.
func checkRequestSchema(der []byte) error {
	input := cryptobyte.String(der)
	var request, info cryptobyte.String
	if !input.ReadASN1(&request, asn1.SEQUENCE) {
		return fmt.Errorf("certificate request is not an asn.1 sequence")
	}
	if !input.Empty() {
		return fmt.Errorf("trailing data after certificate request")
	}
	if !request.ReadASN1(&info, asn1.SEQUENCE) {
		return fmt.Errorf("missing certification request info")
	}
	if !request.SkipASN1(asn1.SEQUENCE) {
		return fmt.Errorf("missing signature algorithm")
	}
	if !request.SkipASN1(asn1.BIT_STRING) {
		return fmt.Errorf("missing signature")
	}
	if !request.Empty() {
		return fmt.Errorf("unexpected fields after signature")
	}
	var version int64
	if !info.ReadASN1Integer(&version) {
		return fmt.Errorf("missing request version")
	}
	if version != 0 {
		return fmt.Errorf("request version %d is not supported", version)
	}
	return nil
}
