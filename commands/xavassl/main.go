package main

import (
	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/xavamedia/xavassl/commands/xavassl/base"
	"github.com/xavamedia/xavassl/configs"
	"os"
	"time"
)

var (
	version = "dev"
	cli     struct {
		Config  string `help:"YAML issuance config file." type:"path"`
		OutDir  string `help:"Directory the four PEM files are written to (overrides config)."`
		KeyType string `help:"Key algorithm: ecdsa, ecdsa-p384, rsa, rsa-4096, ed25519 (overrides config)."`
		Debug   bool   `help:"Enable debug logging."`
		Version kong.VersionFlag
	}
)

// main
// xavassl [--config=issuance.yaml] [--out-dir=.] [--key-type=ecdsa]
func main() {
	ctx := kong.Parse(&cli,
		kong.Description("Issue a CA certificate, an entity CSR and two entity certificates."),
		kong.Vars{
			"version": version,
		})

	level := zerolog.InfoLevel
	if cli.Debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()

	config, err := configs.Load(cli.Config)
	ctx.FatalIfErrorf(err)
	if cli.OutDir != "" {
		config.OutputDir = cli.OutDir
	}
	if cli.KeyType != "" {
		config.KeyType = cli.KeyType
	}

	result, err := base.Generate(config, log)
	if err != nil {
		log.Error().Err(err).Msg("issuance failed")
	}
	ctx.FatalIfErrorf(err)
	log.Info().
		Str("ca", result.CA).
		Str("csr", result.CSR).
		Str("direct", result.Direct).
		Str("indirect", result.Indirect).
		Msg("xavassl: generate succeed!")
}
