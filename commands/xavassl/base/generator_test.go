package base_test

import (
	"bytes"
	"github.com/go-acme/lego/v4/certcrypto"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavamedia/xavassl"
	"github.com/xavamedia/xavassl/commands/xavassl/base"
	"github.com/xavamedia/xavassl/configs"
	"os"
	"path/filepath"
	"testing"
)

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	config := configs.Default()
	config.OutputDir = dir
	var logs bytes.Buffer

	result, err := base.Generate(config, zerolog.New(&logs))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	assert.ElementsMatch(t, []string{"ca.pem", "csr.pem", "direct.pem", "indirect.pem"}, names)
	assert.Equal(t, filepath.Join(dir, base.IndirectFileName), result.Indirect)

	caPEM := readFile(t, result.CA)
	ca, err := certcrypto.ParsePEMCertificate(caPEM)
	require.NoError(t, err)
	assert.Equal(t, "ca.xavamedia.nl", ca.Subject.CommonName)
	assert.True(t, ca.IsCA)
	assert.Equal(t, -1, ca.MaxPathLen)
	require.NoError(t, ca.CheckSignatureFrom(ca))

	csr, err := certcrypto.PemDecodeTox509CSR(readFile(t, result.CSR))
	require.NoError(t, err)
	require.NoError(t, csr.CheckSignature())
	assert.Equal(t, "entity.xavamedia.nl", csr.Subject.CommonName)

	direct, err := xavassl.VerifyIssued(caPEM, readFile(t, result.Direct))
	require.NoError(t, err)
	indirect, err := xavassl.VerifyIssued(caPEM, readFile(t, result.Indirect))
	require.NoError(t, err)
	require.NoError(t, xavassl.Equivalent(direct, indirect))
	assert.Equal(t, csr.RawSubjectPublicKeyInfo, indirect.RawSubjectPublicKeyInfo)
	assert.False(t, direct.IsCA)
	assert.False(t, indirect.IsCA)
	require.NoError(t, direct.VerifyHostname("entity.xavamedia.nl"))
	require.NoError(t, indirect.VerifyHostname("entity.xavamedia.nl"))
	assert.Equal(t, []string{"ca.xavamedia.nl"}, ca.DNSNames)
	assert.NotEqual(t, ca.SerialNumber, direct.SerialNumber)
	assert.NotEqual(t, ca.RawSubjectPublicKeyInfo, direct.RawSubjectPublicKeyInfo)

	assert.Contains(t, logs.String(), "writing CA certificate")
	assert.Contains(t, logs.String(), "writing certificate created from CSR")
}

func TestGenerateOverwrites(t *testing.T) {
	dir := t.TempDir()
	config := configs.Default()
	config.OutputDir = dir
	config.KeyType = "ed25519"

	first, err := base.Generate(config, zerolog.Nop())
	require.NoError(t, err)
	before := readFile(t, first.CA)

	second, err := base.Generate(config, zerolog.Nop())
	require.NoError(t, err)
	assert.NotEqual(t, before, readFile(t, second.CA))
}

func TestGenerateStopsOnWriteFailure(t *testing.T) {
	file := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	config := configs.Default()
	config.OutputDir = file

	result, err := base.Generate(config, zerolog.Nop())
	require.ErrorIs(t, err, xavassl.ErrFileWrite)
	require.NotNil(t, result)
	assert.Empty(t, result.CA)
	assert.Empty(t, result.Indirect)
}

func TestGenerateRejectsInvalidConfig(t *testing.T) {
	config := configs.Default()
	config.KeyType = "dsa"
	_, err := base.Generate(config, zerolog.Nop())
	require.Error(t, err)
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return content
}
