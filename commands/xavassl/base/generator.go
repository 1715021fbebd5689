package base

import (
	"fmt"
	"github.com/rs/zerolog"
	"github.com/xavamedia/xavassl"
	"github.com/xavamedia/xavassl/configs"
)

const (
	CAFileName       = "ca.pem"
	CSRFileName      = "csr.pem"
	DirectFileName   = "direct.pem"
	IndirectFileName = "indirect.pem"
)

// Result holds the paths of the written artifacts.
type Result struct {
	CA       string
	CSR      string
	Direct   string
	Indirect string
}

// Generate creates a CA and an entity, then writes the CA certificate, the
// entity CSR, the entity certificate signed directly and the one issued
// from the CSR. It stops at the first failure; files already written stay.
func Generate(config configs.Issuance, log zerolog.Logger) (result *Result, err error) {
	if err = config.Validate(); err != nil {
		return
	}
	keyType, keyTypeErr := config.GetKeyType()
	if keyTypeErr != nil {
		err = keyTypeErr
		return
	}
	// each identity gets its own option list so keys and serials never overlap
	options := func() []xavassl.CreateOption {
		return []xavassl.CreateOption{
			xavassl.WithKeyType(keyType),
			xavassl.WithExpirationDays(config.ExpirationDays),
		}
	}

	ca, caErr := xavassl.NewAuthority(config.CA.CommonName, options()...)
	if caErr != nil {
		err = caErr
		return
	}
	entity, entityErr := xavassl.NewEntity(config.Entity.CommonName, options()...)
	if entityErr != nil {
		err = entityErr
		return
	}
	log.Debug().
		Str("key_type", string(keyType.Name())).
		Str("ca_serial", ca.Certificate().SerialNumber().Text(16)).
		Str("entity_serial", entity.Certificate().SerialNumber().Text(16)).
		Msg("generated key pairs")

	result = &Result{}
	dir := config.OutputDir

	log.Info().Str("path", CAFileName).Msg("writing CA certificate")
	caPEM, caPEMErr := ca.CertificatePEM()
	if caPEMErr != nil {
		err = caPEMErr
		return
	}
	if result.CA, err = xavassl.WriteArtifact(dir, CAFileName, caPEM); err != nil {
		return
	}

	log.Info().Str("path", CSRFileName).Msg("writing CSR for entity")
	csrPEM, csrErr := entity.CreateCSR()
	if csrErr != nil {
		err = csrErr
		return
	}
	if result.CSR, err = xavassl.WriteArtifact(dir, CSRFileName, csrPEM); err != nil {
		return
	}

	log.Info().Str("path", DirectFileName).Msg("writing directly signed certificate")
	directPEM, directErr := ca.Sign(entity.Certificate())
	if directErr != nil {
		err = directErr
		return
	}
	if result.Direct, err = xavassl.WriteArtifact(dir, DirectFileName, directPEM); err != nil {
		return
	}

	log.Info().Str("path", IndirectFileName).Msg("writing certificate created from CSR")
	indirectPEM, indirectErr := ca.IssueFromCSR(csrPEM)
	if indirectErr != nil {
		err = indirectErr
		return
	}
	if result.Indirect, err = xavassl.WriteArtifact(dir, IndirectFileName, indirectPEM); err != nil {
		return
	}

	if err = verify(entity, caPEM, directPEM, indirectPEM); err != nil {
		return
	}
	log.Info().
		Str("ca", config.CA.CommonName).
		Str("entity", config.Entity.CommonName).
		Msg("direct and indirect certificates verify against the CA")
	return
}

func verify(entity *xavassl.Entity, caPEM []byte, directPEM []byte, indirectPEM []byte) (err error) {
	direct, directErr := xavassl.VerifyIssued(caPEM, directPEM)
	if directErr != nil {
		err = fmt.Errorf("%s: %w", DirectFileName, directErr)
		return
	}
	indirect, indirectErr := xavassl.VerifyIssued(caPEM, indirectPEM)
	if indirectErr != nil {
		err = fmt.Errorf("%s: %w", IndirectFileName, indirectErr)
		return
	}
	if eqErr := xavassl.Equivalent(direct, indirect); eqErr != nil {
		err = xavassl.NewError("compare issued certificates", xavassl.ErrSigning, eqErr)
		return
	}
	for name, crtPEM := range map[string][]byte{DirectFileName: directPEM, IndirectFileName: indirectPEM} {
		if _, pairErr := entity.TLSCertificate(crtPEM); pairErr != nil {
			err = fmt.Errorf("%s: %w", name, pairErr)
			return
		}
	}
	return
}
