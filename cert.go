package xavassl

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"github.com/go-acme/lego/v4/certcrypto"
	"math/big"
	"strings"
	"time"
)

// Identity names the holder of a certificate. PathLen is only meaningful
// for a CA; nil leaves the path length unconstrained.
type Identity struct {
	CommonName string
	IsCA       bool
	PathLen    *uint
}

// Certificate is an unsigned certificate descriptor together with the key
// pair it was created for. The key never leaves memory.
type Certificate struct {
	identity Identity
	key      crypto.Signer
	template *x509.Certificate
	expire   time.Duration
}

func (c *Certificate) Identity() Identity {
	return c.identity
}

func (c *Certificate) PublicKey() crypto.PublicKey {
	return c.key.Public()
}

func (c *Certificate) SerialNumber() *big.Int {
	return new(big.Int).Set(c.template.SerialNumber)
}

// Create generates a key pair for identity and builds its unsigned
// descriptor.
func Create(identity Identity, opts ...CreateOption) (cert *Certificate, err error) {
	const op = "create certificate"
	identity.CommonName = strings.TrimSpace(identity.CommonName)
	if identity.CommonName == "" {
		err = NewError(op, ErrUnsupportedRequest, fmt.Errorf("common name is required"))
		return
	}
	if !identity.IsCA && identity.PathLen != nil {
		err = NewError(op, ErrUnsupportedRequest, fmt.Errorf("path length set on non ca identity %q", identity.CommonName))
		return
	}
	opt, optErr := newCreateOptions(opts)
	if optErr != nil {
		err = NewError(op, ErrUnsupportedRequest, optErr)
		return
	}
	key := opt.key
	if key == nil {
		generated, genErr := opt.keyType.Generate()
		if genErr != nil {
			err = NewError(op, ErrKeyGeneration, fmt.Errorf("generate %s key pair, %w", opt.keyType.Name(), genErr))
			return
		}
		key = generated
	}
	serialNumber := opt.serialNumber
	if serialNumber == nil {
		serialNumber, err = randomSerialNumber(op)
		if err != nil {
			return
		}
	}
	template, tplErr := newTemplate(identity, key.Public(), serialNumber, opt.expire)
	if tplErr != nil {
		err = NewError(op, ErrKeyGeneration, tplErr)
		return
	}
	cert = &Certificate{
		identity: identity,
		key:      key,
		template: template,
		expire:   opt.expire,
	}
	return
}

func randomSerialNumber(op string) (sn *big.Int, err error) {
	sn, err = rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		err = NewError(op, ErrKeyGeneration, fmt.Errorf("rand serial number failed, %w", err))
	}
	return
}

// newTemplate is shared by the direct and the CSR issuance paths so both
// produce the same certificate shape for a given subject and key.
func newTemplate(identity Identity, pub crypto.PublicKey, serialNumber *big.Int, expire time.Duration) (crt *x509.Certificate, err error) {
	ski, skiErr := subjectKeyID(pub)
	if skiErr != nil {
		err = fmt.Errorf("compute subject key id failed, %w", skiErr)
		return
	}
	now := time.Now()
	crt = &x509.Certificate{
		SerialNumber: serialNumber,
		Subject: pkix.Name{
			CommonName: identity.CommonName,
		},
		PublicKey:    pub,
		NotBefore:    now.Add(-24 * time.Hour),
		NotAfter:     now.Add(expire),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		SubjectKeyId: ski,
	}
	if isHostname(identity.CommonName) {
		crt.DNSNames = []string{identity.CommonName}
	}
	if _, ok := pub.(*rsa.PublicKey); ok {
		crt.KeyUsage |= x509.KeyUsageKeyEncipherment
	}
	if identity.IsCA {
		crt.KeyUsage = x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign | x509.KeyUsageCRLSign
		crt.ExtKeyUsage = nil
		crt.BasicConstraintsValid = true
		crt.IsCA = true
		crt.MaxPathLen = -1
		if identity.PathLen != nil {
			crt.MaxPathLen = int(*identity.PathLen)
			crt.MaxPathLenZero = *identity.PathLen == 0
		}
	}
	return
}

// isHostname reports whether cn can be carried as a dNSName SAN.
func isHostname(cn string) bool {
	if cn == "" || len(cn) > 253 {
		return false
	}
	for _, r := range cn {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '.', r == '*':
		default:
			return false
		}
	}
	return true
}

// SerializeSelfSigned encodes the certificate signed by its own key.
func (c *Certificate) SerializeSelfSigned() (crtPEM []byte, err error) {
	crtPEM, err = sign("self sign "+c.identity.CommonName, c.template, c.template, c.key)
	return
}

// SerializeSignedBy encodes the certificate signed by issuer's key, with
// issuer's subject as the issuer name.
func (c *Certificate) SerializeSignedBy(issuer *Certificate) (crtPEM []byte, err error) {
	op := "sign " + c.identity.CommonName
	if issuer == nil {
		err = NewError(op, ErrSigning, fmt.Errorf("issuer is nil"))
		return
	}
	if !issuer.identity.IsCA {
		err = NewError(op, ErrSigning, fmt.Errorf("issuer %q is not a certificate authority", issuer.identity.CommonName))
		return
	}
	crtPEM, err = sign(op, c.template, issuer.template, issuer.key)
	return
}

func sign(op string, template *x509.Certificate, parent *x509.Certificate, key crypto.Signer) (crtPEM []byte, err error) {
	tpl := *template
	tpl.SignatureAlgorithm = signatureAlgorithm(key.Public())
	crtDER, createErr := x509.CreateCertificate(rand.Reader, &tpl, parent, tpl.PublicKey, key)
	if createErr != nil {
		err = NewError(op, ErrSigning, createErr)
		return
	}
	crtPEM = certcrypto.PEMEncode(certcrypto.DERCertificateBytes(crtDER))
	return
}
