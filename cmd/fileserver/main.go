// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command fileserver is the bootstrap for blitznote.com/src/fileserver:
// it parses flags and an optional TOML file into a ServerConfig,
// validates it, builds the handler chain, and binds a socket. None of
// this exists in the teacher, whose bootstrap was a Caddy directive
// block (setup.go); this is written in the Caddy-adjacent style the
// rest of the pack uses for its own standalone `cmd/` entry points
// (flag parsing, then zap, then ListenAndServe).
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"blitznote.com/src/fileserver"
)

// tomlConfig mirrors ServerConfig's externally configurable fields,
// for the optional `-config` file. Fields absent from the file keep
// whatever the flags (or their defaults) already set.
type tomlConfig struct {
	PublicRoot               string   `toml:"public_root"`
	UploadRoot               string   `toml:"upload_root"`
	EnableUpload             bool     `toml:"enable_upload"`
	MaxRequestBytes          uint64   `toml:"max_request_bytes"`
	PrependTimestamp         *bool    `toml:"prepend_timestamp"`
	PreventOverwrite         *bool    `toml:"prevent_overwrite"`
	CreateDirectories        *bool    `toml:"create_directories"`
	RestrictFilenameAlphabet *bool    `toml:"restrict_filename_alphabet"`
	IgnoreFile               string   `toml:"ignore_file"`
	SecurityPolicy           string   `toml:"security_policy"`
	Username                 string   `toml:"username"`
	Password                 string   `toml:"password"`
	CORSOrigins              []string `toml:"cors_origins"`
	BindHost                 string   `toml:"bind_host"`
	BindPort                 uint16   `toml:"bind_port"`
	ServerName               string   `toml:"server_name"`
}

func main() {
	var (
		configPath = flag.String("config", "", "optional TOML configuration file")
		publicRoot = flag.String("public-root", ".", "directory to publish")
		uploadRoot = flag.String("upload-root", "", "directory to receive uploads (defaults to -public-root)")

		enableUpload             = flag.Bool("enable-upload", false, "accept multipart uploads")
		maxRequestBytes          = flag.Uint64("max-request-bytes", fileserver.DefaultMaxRequestBytes, "maximum bytes streamed per upload")
		prependTimestamp         = flag.Bool("prepend-timestamp", true, "prefix stored upload filenames with a UTC timestamp")
		preventOverwrite         = flag.Bool("prevent-overwrite", true, "reject an upload whose target filename already exists")
		createDirectories        = flag.Bool("create-directories", false, "create missing upload parent directories")
		restrictFilenameAlphabet = flag.Bool("restrict-filename-alphabet", false, "additionally reject upload filenames outside a conservative rune alphabet")
		ignoreFile               = flag.String("ignore-file", "", "listing ignore-pattern file, relative to -public-root unless absolute")

		securityPolicy = flag.String("security-policy", string(fileserver.SecurityPolicyNone), "one of none, all, upload, download")
		username       = flag.String("username", "", "shared Basic-auth username")
		password       = flag.String("password", "", "shared Basic-auth password")
		corsOrigins    = flag.String("cors-origins", "", "comma-separated list of allowed CORS origins, or * for wildcard")

		bindHost = flag.String("host", "0.0.0.0", "address to bind")
		bindPort = flag.Uint("port", 8080, "port to bind")

		serverName = flag.String("server-name", fileserver.DefaultServerName, "name shown in the listing title, footer and auth realm")

		quiet = flag.Bool("quiet", false, "suppress per-request info-level logs (warnings and errors still print)")
		debug = flag.Bool("debug", false, "use a human-readable development logger instead of JSON")
	)
	flag.Parse()

	cfg := &fileserver.ServerConfig{
		PublicRoot:               *publicRoot,
		UploadRoot:               *uploadRoot,
		EnableUpload:             *enableUpload,
		MaxRequestBytes:          *maxRequestBytes,
		PrependTimestamp:         *prependTimestamp,
		PreventOverwrite:         *preventOverwrite,
		CreateDirectories:        *createDirectories,
		RestrictFilenameAlphabet: *restrictFilenameAlphabet,
		IgnoreFile:               *ignoreFile,
		SecurityPolicy:           fileserver.SecurityPolicy(*securityPolicy),
		BindHost:                 *bindHost,
		BindPort:                 uint16(*bindPort),
		ServerName:               *serverName,
	}
	if *username != "" || *password != "" {
		cfg.Credentials = &fileserver.Credentials{Username: *username, Password: *password}
	}
	if *corsOrigins != "" {
		cfg.CORSOrigins = strings.Split(*corsOrigins, ",")
	}

	if *configPath != "" {
		if err := applyTOMLFile(*configPath, cfg); err != nil {
			fmt.Fprintln(os.Stderr, "fileserver:", err)
			os.Exit(1)
		}
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "fileserver: invalid configuration:", err)
		os.Exit(1)
	}
	if cfg.BindPort == 0 {
		fmt.Fprintln(os.Stderr, "fileserver: invalid configuration: port must be non-zero")
		os.Exit(1)
	}

	log, err := newLogger(*debug, *quiet)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fileserver: logger init:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := fileserver.HardenProcess(cfg); err != nil {
		log.Error("startup: unveil failed", zap.Error(err))
		os.Exit(1)
	}

	handler := fileserver.NewServer(cfg, log)
	addr := fmt.Sprintf("%s:%d", cfg.BindHost, cfg.BindPort)
	log.Info("listening",
		zap.String("addr", addr),
		zap.String("public_root", cfg.PublicRoot),
		zap.Bool("enable_upload", cfg.EnableUpload),
	)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Error("server exited", zap.Error(err))
		os.Exit(1)
	}
}

// applyTOMLFile overlays path's contents onto cfg. Only fields present
// in the file (i.e. non-zero-valued after decode) override what flags
// already set, so a file may configure a subset of fields.
func applyTOMLFile(path string, cfg *fileserver.ServerConfig) error {
	var tc tomlConfig
	if _, err := toml.DecodeFile(path, &tc); err != nil {
		return err
	}

	if tc.PublicRoot != "" {
		cfg.PublicRoot = tc.PublicRoot
	}
	if tc.UploadRoot != "" {
		cfg.UploadRoot = tc.UploadRoot
	}
	if tc.EnableUpload {
		cfg.EnableUpload = true
	}
	if tc.MaxRequestBytes != 0 {
		cfg.MaxRequestBytes = tc.MaxRequestBytes
	}
	if tc.IgnoreFile != "" {
		cfg.IgnoreFile = tc.IgnoreFile
	}
	if tc.SecurityPolicy != "" {
		cfg.SecurityPolicy = fileserver.SecurityPolicy(tc.SecurityPolicy)
	}
	if tc.Username != "" || tc.Password != "" {
		cfg.Credentials = &fileserver.Credentials{Username: tc.Username, Password: tc.Password}
	}
	if len(tc.CORSOrigins) > 0 {
		cfg.CORSOrigins = tc.CORSOrigins
	}
	if tc.BindHost != "" {
		cfg.BindHost = tc.BindHost
	}
	if tc.BindPort != 0 {
		cfg.BindPort = tc.BindPort
	}
	if tc.ServerName != "" {
		cfg.ServerName = tc.ServerName
	}
	if tc.PrependTimestamp != nil {
		cfg.PrependTimestamp = *tc.PrependTimestamp
	}
	if tc.PreventOverwrite != nil {
		cfg.PreventOverwrite = *tc.PreventOverwrite
	}
	if tc.CreateDirectories != nil {
		cfg.CreateDirectories = *tc.CreateDirectories
	}
	if tc.RestrictFilenameAlphabet != nil {
		cfg.RestrictFilenameAlphabet = *tc.RestrictFilenameAlphabet
	}
	return nil
}

func newLogger(debug, quiet bool) (*zap.Logger, error) {
	var zcfg zap.Config
	if debug {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	if quiet {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	return zcfg.Build()
}
