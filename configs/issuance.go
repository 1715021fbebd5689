package configs

import (
	"errors"
	"github.com/xavamedia/xavassl"
	"gopkg.in/yaml.v3"
	"os"
	"strings"
)

const (
	DefaultCACommonName     = "ca.xavamedia.nl"
	DefaultEntityCommonName = "entity.xavamedia.nl"
	DefaultKeyType          = "ecdsa"
	DefaultExpirationDays   = 365
)

type Subject struct {
	CommonName string `json:"commonName" yaml:"commonName"`
}

// Issuance configures one run of the issuance driver.
type Issuance struct {
	OutputDir      string  `json:"outputDir" yaml:"outputDir"`
	CA             Subject `json:"ca" yaml:"ca"`
	Entity         Subject `json:"entity" yaml:"entity"`
	KeyType        string  `json:"keyType" yaml:"keyType"`
	ExpirationDays int     `json:"expirationDays" yaml:"expirationDays"`
}

func Default() Issuance {
	return Issuance{
		OutputDir:      ".",
		CA:             Subject{CommonName: DefaultCACommonName},
		Entity:         Subject{CommonName: DefaultEntityCommonName},
		KeyType:        DefaultKeyType,
		ExpirationDays: DefaultExpirationDays,
	}
}

// Load reads a yaml file over the defaults. An empty path returns the
// defaults.
func Load(path string) (v Issuance, err error) {
	v = Default()
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	content, readErr := os.ReadFile(path)
	if readErr != nil {
		err = errors.Join(errors.New("xavassl: load issuance config failed"), errors.New("read file failed"), readErr)
		return
	}
	if decodeErr := yaml.Unmarshal(content, &v); decodeErr != nil {
		err = errors.Join(errors.New("xavassl: load issuance config failed"), errors.New("decode yaml failed"), decodeErr)
		return
	}
	err = v.Validate()
	return
}

// Validate trims the values, fills blanks with defaults and rejects what
// cannot be issued.
func (issuance *Issuance) Validate() (err error) {
	issuance.OutputDir = strings.TrimSpace(issuance.OutputDir)
	if issuance.OutputDir == "" {
		issuance.OutputDir = "."
	}
	issuance.CA.CommonName = strings.TrimSpace(issuance.CA.CommonName)
	if issuance.CA.CommonName == "" {
		issuance.CA.CommonName = DefaultCACommonName
	}
	issuance.Entity.CommonName = strings.TrimSpace(issuance.Entity.CommonName)
	if issuance.Entity.CommonName == "" {
		issuance.Entity.CommonName = DefaultEntityCommonName
	}
	if issuance.CA.CommonName == issuance.Entity.CommonName {
		err = errors.Join(errors.New("xavassl: invalid issuance config"), errors.New("ca and entity must have different common names"))
		return
	}
	issuance.KeyType = strings.ToLower(strings.TrimSpace(issuance.KeyType))
	if issuance.KeyType == "" {
		issuance.KeyType = DefaultKeyType
	}
	if _, keyTypeErr := xavassl.ParseKeyType(issuance.KeyType); keyTypeErr != nil {
		err = errors.Join(errors.New("xavassl: invalid issuance config"), keyTypeErr)
		return
	}
	if issuance.ExpirationDays == 0 {
		issuance.ExpirationDays = DefaultExpirationDays
	}
	if issuance.ExpirationDays < 1 {
		err = errors.Join(errors.New("xavassl: invalid issuance config"), errors.New("expiration days must be positive"))
		return
	}
	return
}

func (issuance *Issuance) GetKeyType() (keyType xavassl.KeyType, err error) {
	keyType, err = xavassl.ParseKeyType(issuance.KeyType)
	return
}
