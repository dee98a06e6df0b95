package debugcore

import (
	"fmt"

	"github.com/ligun0805/accesslist-debug/internal/chains"
)

// TimeLayout is how outcome timestamps are shown, in local time.
const TimeLayout = "2006-01-02 15:04:05"

// ResultView is a rendered outcome.
type ResultView struct {
	Title   string
	Lines   []string
	IsError bool
	// Detail is the raw error message, shown preformatted.
	Detail string
	// Hint is a normalized reading of Detail, if one is known.
	Hint string
	// Link points at the explorer page of the hash.
	Link string
}

// RenderResult turns an outcome into display text.
func RenderResult(o Outcome) ResultView {
	v := ResultView{IsError: o.IsError()}
	mark := "✅"
	if v.IsError {
		mark = "❌"
	}
	v.Title = fmt.Sprintf("%s Latest Result - %s", mark, o.ChainName)
	v.Lines = []string{
		"Time: " + o.Timestamp.Local().Format(TimeLayout),
		fmt.Sprintf("Chain: %s (ID: %d)", o.ChainName, o.ChainID),
	}
	if v.IsError {
		v.Lines = append(v.Lines, "Error:")
		v.Detail = o.Error
		v.Hint = FriendlyError(o.Error)
		return v
	}
	if o.HasHash() {
		v.Lines = append(v.Lines,
			"Transaction Hash: "+o.Hash.Hex(),
			"Status: Transaction successful! ✅",
		)
		if c, ok := chains.Lookup(o.ChainID); ok {
			v.Link = c.TxURL(o.Hash)
		}
	}
	return v
}
