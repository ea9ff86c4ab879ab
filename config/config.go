package config

import (
	"time"

	"github.com/BurntSushi/toml"

	"xcasset/assets"
)

var (
	Env      string
	Server   ServerConfig
	Db       Database
	Protocol ProtocolConfig
)

// Load reads the toml config file into the package globals.
func Load(file string) {
	type AllConfig struct {
		Env      string
		Server   ServerConfig
		Db       Database
		Protocol ProtocolConfig
	}
	all := &AllConfig{}
	if _, err := toml.DecodeFile(file, all); err != nil {
		panic(err)
	}

	Env = all.Env
	Server = all.Server
	Db = all.Db
	Protocol = all.Protocol
}

type Database struct {
	Host   string
	Port   string
	DbName string
	Usr    string
	Pwd    string
}

type ServerConfig struct {
	NodeUrl  string
	PollTime time.Duration
	Batch    int
}

// ProtocolConfig bounds the wire decoder. Zero values fall back to the
// protocol defaults.
type ProtocolConfig struct {
	MaxAbstractTagLength int
	MaxBlobLength        int
	MaxAssetCount        uint
}

// Limits returns the decode limits configured for this deployment.
func Limits() *assets.Limits {
	l := &assets.Limits{
		MaxAbstractTagLength: Protocol.MaxAbstractTagLength,
		MaxBlobLength:        Protocol.MaxBlobLength,
		MaxAssetCount:        Protocol.MaxAssetCount,
	}
	if l.MaxAbstractTagLength == 0 {
		l.MaxAbstractTagLength = assets.DefaultLimits.MaxAbstractTagLength
	}
	if l.MaxBlobLength == 0 {
		l.MaxBlobLength = assets.DefaultLimits.MaxBlobLength
	}
	if l.MaxAssetCount == 0 {
		l.MaxAssetCount = assets.DefaultLimits.MaxAssetCount
	}
	return l
}
