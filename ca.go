package xavassl

import (
	"strings"
	"time"
)

// Authority is a self-signed certificate authority held in memory.
type Authority struct {
	certificate *Certificate
	expire      time.Duration
}

// NewAuthority creates a CA named commonName. Options apply to this CA only;
// WithKey and WithSerialNumber must not be shared with another identity.
func NewAuthority(commonName string, opts ...CreateOption) (ca *Authority, err error) {
	cert, createErr := Create(Identity{
		CommonName: commonName,
		IsCA:       true,
	}, opts...)
	if createErr != nil {
		err = createErr
		return
	}
	ca = &Authority{
		certificate: cert,
		expire:      cert.expire,
	}
	return
}

func (ca *Authority) Certificate() *Certificate {
	return ca.certificate
}

func (ca *Authority) CertificatePEM() (crtPEM []byte, err error) {
	crtPEM, err = ca.certificate.SerializeSelfSigned()
	return
}

// Sign issues a certificate for cert's descriptor directly, without a
// certificate request.
func (ca *Authority) Sign(cert *Certificate) (crtPEM []byte, err error) {
	crtPEM, err = cert.SerializeSignedBy(ca.certificate)
	return
}

// IssueFromCSR verifies a PEM certificate request and issues a leaf
// certificate for its subject and public key. Extensions requested in the
// CSR are not carried over.
func (ca *Authority) IssueFromCSR(csrPEM []byte) (crtPEM []byte, err error) {
	csr, parseErr := ParseCSRPEM(csrPEM)
	if parseErr != nil {
		err = parseErr
		return
	}
	cn := strings.TrimSpace(csr.Subject.CommonName)
	op := "issue certificate for " + cn
	serialNumber, snErr := randomSerialNumber(op)
	if snErr != nil {
		err = snErr
		return
	}
	template, tplErr := newTemplate(Identity{CommonName: cn}, csr.PublicKey, serialNumber, ca.expire)
	if tplErr != nil {
		err = NewError(op, ErrUnsupportedRequest, tplErr)
		return
	}
	template.Subject = csr.Subject
	template.RawSubject = csr.RawSubject
	crtPEM, err = sign(op, template, ca.certificate.template, ca.certificate.key)
	return
}
