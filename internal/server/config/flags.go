package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/supportdesk/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string     HTTP bind address (e.g. ":5000")
//	-g string     gRPC bind address (e.g. ":50051")
//	-d string     PostgreSQL DSN
//	-s string     JWT HMAC secret
//	-t duration   token lifetime ("7d", "12h")
//	-m int        maximum upload size in bytes
//	-storage      storage driver: postgres, mongo or memory
//
// args are filtered with flagx.FilterArgs first, so flags owned by other
// components never reach this flag set.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-d", "-s", "-t", "-m", "-storage"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.HTTPAddress, "a", cfg.HTTPAddress, "HTTP address and port")
	fs.StringVar(&cfg.GRPCAddress, "g", cfg.GRPCAddress, "gRPC address and port")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.JWTSecret, "s", cfg.JWTSecret, "JWT secret")
	fs.Var(&cfg.TokenLifetime, "t", "token lifetime")
	fs.Int64Var(&cfg.MaxUploadSize, "m", cfg.MaxUploadSize, "max upload size, bytes")
	fs.StringVar(&cfg.StorageDriver, "storage", cfg.StorageDriver, "storage driver")

	return fs.Parse(args)
}
