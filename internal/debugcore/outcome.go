package debugcore

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

type OutcomeType string

const (
	OutcomeSuccess OutcomeType = "success"
	OutcomeError   OutcomeType = "error"
)

// Outcome is the result of one transfer attempt.
type Outcome struct {
	ID        string         `json:"id"`
	Type      OutcomeType    `json:"type"`
	ChainID   uint64         `json:"chainId"`
	ChainName string         `json:"chainName"`
	Timestamp time.Time      `json:"timestamp"`
	Hash      common.Hash    `json:"hash,omitempty"`
	Receipt   *types.Receipt `json:"receipt,omitempty"`
	Error     string         `json:"error,omitempty"`
}

func (o Outcome) IsError() bool { return o.Type == OutcomeError }

// HasHash reports whether the attempt got as far as broadcasting.
func (o Outcome) HasHash() bool { return o.Hash != (common.Hash{}) }

// OutcomeStore keeps the latest outcome only. Every Set replaces it.
type OutcomeStore struct {
	mu     sync.Mutex
	latest *Outcome
	subs   []func(Outcome)
}

func NewOutcomeStore() *OutcomeStore { return &OutcomeStore{} }

func (s *OutcomeStore) Set(o Outcome) {
	s.mu.Lock()
	s.latest = &o
	subs := append([]func(Outcome){}, s.subs...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(o)
	}
}

func (s *OutcomeStore) Latest() (Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		return Outcome{}, false
	}
	return *s.latest, true
}

// Subscribe registers fn to run after every Set, outside the store lock.
func (s *OutcomeStore) Subscribe(fn func(Outcome)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}
