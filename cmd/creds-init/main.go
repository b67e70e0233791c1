// creds-init imports the exchange API credential pair from the environment
// (or a .env file) into the encrypted Badger secret store, so the bot can run
// without credentials in its environment.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/tradebot/gobinance/pkg/secretstore"
)

func main() {
	var (
		envFile   = flag.String("env", ".env", "optional .env file to load first")
		dbPath    = flag.String("store", getenv("SECRET_STORE_PATH", "data/secrets.badger"), "badger secret store path")
		secretKey = flag.String("secret-key", getenv("SECRET_STORE_KEY", ""), "store encryption key (32 bytes base64/hex)")
	)
	flag.Parse()

	if *envFile != "" {
		_ = godotenv.Load(*envFile)
	}

	apiKey := strings.TrimSpace(os.Getenv("BINANCE_API_KEY"))
	apiSecret := strings.TrimSpace(os.Getenv("BINANCE_API_SECRET"))
	if apiKey == "" || apiSecret == "" {
		fatal(fmt.Errorf("BINANCE_API_KEY and BINANCE_API_SECRET must be set (env or %s)", *envFile))
	}

	keyBytes, err := secretstore.ParseKey(*secretKey)
	if err != nil {
		fatal(err)
	}
	if keyBytes == nil {
		fatal(fmt.Errorf("secret key is required: set SECRET_STORE_KEY or pass -secret-key"))
	}

	ss, err := secretstore.Open(secretstore.OpenOptions{
		Path:          *dbPath,
		EncryptionKey: keyBytes,
		ReadOnly:      false,
	})
	if err != nil {
		fatal(err)
	}
	defer ss.Close()

	if err := ss.SetString(secretstore.KeyAPIKey, apiKey); err != nil {
		fatal(err)
	}
	if err := ss.SetString(secretstore.KeyAPISecret, apiSecret); err != nil {
		fatal(err)
	}

	fmt.Fprintf(os.Stderr, "credentials stored in %s\n", *dbPath)
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err.Error())
	os.Exit(1)
}
