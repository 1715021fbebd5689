package configs_test

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavamedia/xavassl/configs"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	config, err := configs.Load("")
	require.NoError(t, err)
	assert.Equal(t, configs.Default(), config)
	assert.Equal(t, "ca.xavamedia.nl", config.CA.CommonName)
	assert.Equal(t, "entity.xavamedia.nl", config.Entity.CommonName)
	assert.Equal(t, ".", config.OutputDir)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "issuance.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
outputDir: ./certs
entity:
  commonName: " www.xavamedia.nl "
keyType: ED25519
`), 0644))

	config, err := configs.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "./certs", config.OutputDir)
	assert.Equal(t, "ca.xavamedia.nl", config.CA.CommonName)
	assert.Equal(t, "www.xavamedia.nl", config.Entity.CommonName)
	assert.Equal(t, "ed25519", config.KeyType)
	assert.Equal(t, configs.DefaultExpirationDays, config.ExpirationDays)

	keyType, err := config.GetKeyType()
	require.NoError(t, err)
	assert.EqualValues(t, "ED25519", keyType.Name())
}

func TestLoadErrors(t *testing.T) {
	_, err := configs.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("outputDir: [unclosed"), 0644))
	_, err = configs.Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]configs.Issuance{
		"unknown key type": {KeyType: "dsa"},
		"negative days":    {ExpirationDays: -1},
		"same names":       {CA: configs.Subject{CommonName: "x"}, Entity: configs.Subject{CommonName: "x"}},
	}
	for name, config := range cases {
		t.Run(name, func(t *testing.T) {
			require.Error(t, config.Validate())
		})
	}

	blank := configs.Issuance{}
	require.NoError(t, blank.Validate())
	assert.Equal(t, configs.Default(), blank)
}
