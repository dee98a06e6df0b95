package debugcore

import "strings"

// FriendlyError normalizes common wallet/RPC failures into a short hint.
// It returns "" when it has nothing better than the raw message.
func FriendlyError(s string) string {
	ls := strings.ToLower(strings.TrimSpace(s))
	switch {
	case ls == "":
		return ""
	case strings.Contains(ls, "eth_createaccesslist"):
		return "the node rejected eth_createAccessList for this transfer"
	case strings.Contains(ls, "user rejected"), strings.Contains(ls, "user denied"):
		return "request rejected in the wallet"
	case strings.Contains(ls, "insufficient funds"):
		return "insufficient native balance for gas"
	case strings.Contains(ls, "transfer amount exceeds balance"):
		return "token balance too low for the test amount"
	case strings.Contains(ls, "transaction reverted"), strings.Contains(ls, "execution reverted"):
		return "the token contract reverted the transfer"
	case strings.Contains(ls, "nonce too low"), strings.Contains(ls, "replacement transaction underpriced"):
		return "a previous transaction from this account is still pending"
	case strings.Contains(ls, "too many requests"), strings.Contains(ls, "-32005"), strings.Contains(ls, "429"):
		return "provider rate limit"
	case strings.Contains(ls, "invalid character '<'"):
		return "non-JSON/HTML response (proxy/cf?)"
	case strings.Contains(ls, "dial tcp"), strings.Contains(ls, "lookup "), strings.Contains(ls, "no such host"):
		return "network/DNS error"
	case strings.Contains(ls, "deadline exceeded"), strings.Contains(ls, "timeout"):
		return "timed out waiting for the node"
	case strings.Contains(ls, "method not found"), strings.Contains(ls, "method not available"), strings.Contains(ls, "not supported"):
		return "method not supported by the RPC endpoint"
	}
	return ""
}
