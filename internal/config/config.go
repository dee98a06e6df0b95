package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ligun0805/accesslist-debug/internal/chains"
)

// Settings keeps all configuration options.
// Keys are accepted in UPPER_CASE and lower_case.
type Settings struct {
	RPCURLs          map[uint64]string // per chain id, registry default when unset
	DefaultChainID   uint64
	PrivateKeyHex    string
	KeystoreFile     string
	KeystorePassword string
	AttachAccessList bool // emulate the wallet provider's eth_createAccessList step
	TokenSendAmount  string
	BaseFeeMul       int64
	TipGwei          int64
	ReceiptTimeout   time.Duration
	RPCTimeout       time.Duration
	LogLevel         string
	LogFormat        string
}

// EnvSource abstracts the process environment so tests can feed a map.
type EnvSource interface {
	Lookup(key string) (string, bool)
}

// EnvMap is an in-memory EnvSource.
type EnvMap map[string]string

func (e EnvMap) Lookup(key string) (string, bool) {
	v, ok := e[key]
	return v, ok
}

type osEnv struct{}

func (osEnv) Lookup(key string) (string, bool) { return os.LookupEnv(key) }

// FromEnviron reads the real process environment.
func FromEnviron() EnvSource { return osEnv{} }

// LoadDotEnv loads .env and lets .env.local override it. Missing files are fine.
func LoadDotEnv() {
	_ = godotenv.Load()
	_ = godotenv.Overload(".env.local")
}

// Load reads settings from src.
func Load(src EnvSource) Settings {
	if src == nil {
		src = FromEnviron()
	}
	get := func(keys []string, def string) string {
		for _, k := range keys {
			if v, ok := src.Lookup(k); ok {
				if v = strings.TrimSpace(v); v != "" {
					return v
				}
			}
		}
		return def
	}
	getInt64 := func(keys []string, def int64) int64 {
		s := get(keys, "")
		if s == "" {
			return def
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		return def
	}
	getUint64 := func(keys []string, def uint64) uint64 {
		s := get(keys, "")
		if s == "" {
			return def
		}
		if n, err := strconv.ParseUint(s, 10, 64); err == nil {
			return n
		}
		return def
	}
	getBool := func(keys []string, def bool) bool {
		s := strings.ToLower(get(keys, ""))
		if s == "" {
			return def
		}
		return s == "1" || s == "true" || s == "yes" || s == "on"
	}

	st := Settings{RPCURLs: make(map[uint64]string)}
	st.RPCURLs[chains.BaseID] = get([]string{"base_rpc_url", "BASE_RPC_URL"}, "")
	st.RPCURLs[chains.CeloID] = get([]string{"celo_rpc_url", "CELO_RPC_URL"}, "")
	for _, c := range chains.Supported() {
		if st.RPCURLs[c.ID] == "" {
			st.RPCURLs[c.ID] = c.DefaultRPC
		}
	}
	st.DefaultChainID = getUint64([]string{"default_chain_id", "DEFAULT_CHAIN_ID"}, chains.BaseID)
	st.PrivateKeyHex = get([]string{"private_key", "PRIVATE_KEY"}, "")
	st.KeystoreFile = get([]string{"keystore_file", "KEYSTORE_FILE"}, "")
	st.KeystorePassword = get([]string{"keystore_password", "KEYSTORE_PASSWORD"}, "")
	st.AttachAccessList = getBool([]string{"wallet_access_list", "WALLET_ACCESS_LIST"}, true)
	st.TokenSendAmount = get([]string{"token_send_amount", "TOKEN_SEND_AMOUNT"}, "0.01")
	st.BaseFeeMul = getInt64([]string{"basefee_mul", "BASEFEE_MUL"}, 2)
	st.TipGwei = getInt64([]string{"tip_gwei", "TIP_GWEI"}, 0)
	st.ReceiptTimeout = time.Duration(getInt64([]string{"receipt_timeout_sec", "RECEIPT_TIMEOUT_SEC"}, 120)) * time.Second
	st.RPCTimeout = time.Duration(getInt64([]string{"rpc_timeout_sec", "RPC_TIMEOUT_SEC"}, 15)) * time.Second
	st.LogLevel = get([]string{"log_level", "LOG_LEVEL"}, "info")
	st.LogFormat = get([]string{"log_format", "LOG_FORMAT"}, "terminal")

	if st.BaseFeeMul <= 0 {
		st.BaseFeeMul = 2
	}
	if st.TipGwei < 0 {
		st.TipGwei = 0
	}
	return st
}

// RPCURL returns the endpoint configured for a chain.
func (s Settings) RPCURL(chainID uint64) string {
	if u := s.RPCURLs[chainID]; u != "" {
		return u
	}
	if c, ok := chains.Lookup(chainID); ok {
		return c.DefaultRPC
	}
	return ""
}
