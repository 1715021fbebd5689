package xavassl

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
)

// Entity is a leaf identity that asks a CA for certificates.
type Entity struct {
	certificate *Certificate
}

// NewEntity creates a leaf identity named commonName. As with NewAuthority,
// WithKey and WithSerialNumber must not be shared with the issuing CA.
func NewEntity(commonName string, opts ...CreateOption) (entity *Entity, err error) {
	cert, createErr := Create(Identity{
		CommonName: commonName,
	}, opts...)
	if createErr != nil {
		err = createErr
		return
	}
	entity = &Entity{
		certificate: cert,
	}
	return
}

func (entity *Entity) Certificate() *Certificate {
	return entity.certificate
}

func (entity *Entity) CreateCSR() (csrPEM []byte, err error) {
	csrPEM, err = entity.certificate.SerializeCSR()
	return
}

// TLSCertificate pairs an issued certificate with the entity's in-memory
// key. It fails when the certificate was issued for another key.
func (entity *Entity) TLSCertificate(crtPEM []byte) (cert tls.Certificate, err error) {
	op := "pair certificate with " + entity.certificate.identity.CommonName
	keyDER, keyErr := x509.MarshalPKCS8PrivateKey(entity.certificate.key)
	if keyErr != nil {
		err = NewError(op, ErrSigning, keyErr)
		return
	}
	keyPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: keyDER,
	})
	cert, err = tls.X509KeyPair(crtPEM, keyPEM)
	if err != nil {
		err = NewError(op, ErrSigning, err)
		return
	}
	return
}
