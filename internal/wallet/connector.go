package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
)

// Connector produces the signing key for a session.
type Connector interface {
	Name() string
	Key(ctx context.Context) (*ecdsa.PrivateKey, error)
}

// PromptFunc asks the user for a secret; label names what is asked for.
type PromptFunc func(label string) (string, error)

// HexKeyConnector uses a raw hex private key, prompting when Hex is empty.
type HexKeyConnector struct {
	Hex    string
	Prompt PromptFunc
}

func (c *HexKeyConnector) Name() string { return "Private key" }

func (c *HexKeyConnector) Key(ctx context.Context) (*ecdsa.PrivateKey, error) {
	h := strings.TrimSpace(c.Hex)
	if h == "" && c.Prompt != nil {
		v, err := c.Prompt("Private key")
		if err != nil {
			return nil, fmt.Errorf("read private key: %w", err)
		}
		h = v
	}
	prv, err := hexToECDSAPriv(h)
	if err != nil {
		return nil, fmt.Errorf("private key: %w", err)
	}
	return prv, nil
}

// KeystoreConnector decrypts an encrypted JSON keystore file.
type KeystoreConnector struct {
	Path     string
	Password string
	Prompt   PromptFunc
}

func (c *KeystoreConnector) Name() string { return "Keystore" }

func (c *KeystoreConnector) Key(ctx context.Context) (*ecdsa.PrivateKey, error) {
	if strings.TrimSpace(c.Path) == "" {
		return nil, errors.New("keystore path is empty")
	}
	blob, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, fmt.Errorf("read keystore: %w", err)
	}
	pass := c.Password
	if pass == "" && c.Prompt != nil {
		if pass, err = c.Prompt("Keystore password"); err != nil {
			return nil, fmt.Errorf("read keystore password: %w", err)
		}
	}
	key, err := keystore.DecryptKey(blob, pass)
	if err != nil {
		return nil, fmt.Errorf("decrypt keystore: %w", err)
	}
	return key.PrivateKey, nil
}

// DefaultConnectors orders connectors the way the front-ends offer them:
// keystore first when a file is configured, raw key otherwise.
func DefaultConnectors(privateKeyHex, keystoreFile, keystorePassword string, prompt PromptFunc) []Connector {
	var out []Connector
	if strings.TrimSpace(keystoreFile) != "" {
		out = append(out, &KeystoreConnector{Path: keystoreFile, Password: keystorePassword, Prompt: prompt})
	}
	out = append(out, &HexKeyConnector{Hex: privateKeyHex, Prompt: prompt})
	return out
}
