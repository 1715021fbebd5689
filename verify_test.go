package xavassl_test

import (
	"errors"
	"fmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavamedia/xavassl"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVerifyIssuedRejectsForeignCA(t *testing.T) {
	ca, entity := newPair(t)
	other, err := xavassl.NewAuthority("other.xavamedia.nl")
	require.NoError(t, err)

	otherPEM, err := other.CertificatePEM()
	require.NoError(t, err)
	directPEM, err := ca.Sign(entity.Certificate())
	require.NoError(t, err)

	_, err = xavassl.VerifyIssued(otherPEM, directPEM)
	require.ErrorIs(t, err, xavassl.ErrSigning)
}

func TestVerifyIssuedRejectsLeafAsCA(t *testing.T) {
	ca, entity := newPair(t)
	directPEM, err := ca.Sign(entity.Certificate())
	require.NoError(t, err)

	_, err = xavassl.VerifyIssued(directPEM, directPEM)
	require.ErrorIs(t, err, xavassl.ErrSigning)
}

func TestParseCertificatePEM(t *testing.T) {
	_, err := xavassl.ParseCertificatePEM([]byte("MIIB"))
	require.ErrorIs(t, err, xavassl.ErrMalformedPEM)

	_, entity := newPair(t)
	csrPEM, err := entity.CreateCSR()
	require.NoError(t, err)
	_, err = xavassl.ParseCertificatePEM(csrPEM)
	require.ErrorIs(t, err, xavassl.ErrMalformedPEM)
}

func TestEquivalentDetectsDifferentKeys(t *testing.T) {
	ca, entity := newPair(t)
	twin, err := xavassl.NewEntity("entity.xavamedia.nl")
	require.NoError(t, err)
	caPEM, err := ca.CertificatePEM()
	require.NoError(t, err)

	aPEM, err := ca.Sign(entity.Certificate())
	require.NoError(t, err)
	bPEM, err := ca.Sign(twin.Certificate())
	require.NoError(t, err)
	a, err := xavassl.VerifyIssued(caPEM, aPEM)
	require.NoError(t, err)
	b, err := xavassl.VerifyIssued(caPEM, bPEM)
	require.NoError(t, err)

	err = xavassl.Equivalent(a, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "public keys")
	require.NoError(t, xavassl.Equivalent(a, a))
}

func TestEquivalentDetectsDifferentNames(t *testing.T) {
	ca, entity := newPair(t)
	crtPEM, err := ca.Sign(entity.Certificate())
	require.NoError(t, err)
	a, err := xavassl.ParseCertificatePEM(crtPEM)
	require.NoError(t, err)
	b := *a
	b.DNSNames = []string{"other.xavamedia.nl"}

	err = xavassl.Equivalent(a, &b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dns names")
}

func TestErrorUnwrapsKindAndCause(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("ca.pem: %w", xavassl.NewError("write ca.pem", xavassl.ErrFileWrite, cause))

	require.ErrorIs(t, err, xavassl.ErrFileWrite)
	require.ErrorIs(t, err, cause)
	assert.False(t, xavassl.IsRequestError(err))
	assert.Equal(t, "ca.pem: xavassl: write ca.pem failed, file write failure: disk full", err.Error())

	var typed *xavassl.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, "write ca.pem", typed.Op)

	assert.Equal(t, "xavassl: parse certificate request failed, malformed pem",
		xavassl.NewError("parse certificate request", xavassl.ErrMalformedPEM, nil).Error())
}

func TestIsRequestError(t *testing.T) {
	for _, kind := range []error{xavassl.ErrMalformedPEM, xavassl.ErrMalformedCSR, xavassl.ErrInvalidCSRSignature, xavassl.ErrUnsupportedRequest} {
		assert.True(t, xavassl.IsRequestError(xavassl.NewError("op", kind, nil)), kind.Error())
	}
	for _, kind := range []error{xavassl.ErrKeyGeneration, xavassl.ErrSigning, xavassl.ErrFileWrite} {
		assert.False(t, xavassl.IsRequestError(xavassl.NewError("op", kind, nil)), kind.Error())
	}
}

func TestWriteArtifact(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	path, err := xavassl.WriteArtifact(dir, "ca.pem", []byte("first"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ca.pem"), path)

	_, err = xavassl.WriteArtifact(dir, "ca.pem", []byte("second"))
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))
}

func TestWriteArtifactIntoFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	_, err := xavassl.WriteArtifact(file, "ca.pem", []byte("x"))
	require.ErrorIs(t, err, xavassl.ErrFileWrite)
	assert.True(t, strings.HasPrefix(err.Error(), "xavassl: write ca.pem failed"))
}
