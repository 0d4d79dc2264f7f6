// Package accounts maintains account balances and other account information.
// Every account carries a confirmed value and an unconfirmed (u_) shadow for
// the fields transactions change, so pending transactions can be applied
// ahead of their block and undone again.
package accounts

import (
	"slices"
	"sort"
	"sync"

	"github.com/ddknet/node/foundation/blockchain/genesis"
	"github.com/ddknet/node/foundation/blockchain/signature"
)

// Account represents information stored for an individual account.
type Account struct {
	Address           string   `json:"address"`
	PublicKey         string   `json:"publicKey,omitempty"`
	SecondPublicKey   string   `json:"secondPublicKey,omitempty"`
	SecondSignature   bool     `json:"secondSignature"`
	USecondSignature  bool     `json:"u_secondSignature"`
	Balance           uint64   `json:"balance"`
	UBalance          uint64   `json:"u_balance"`
	Vote              uint64   `json:"vote"`
	UVote             uint64   `json:"u_vote"`
	Delegates         []string `json:"delegates,omitempty"`
	UDelegates        []string `json:"u_delegates,omitempty"`
	Username          string   `json:"username,omitempty"`
	UUsername         string   `json:"u_username,omitempty"`
	URL               string   `json:"url,omitempty"`
	IsDelegate        bool     `json:"isDelegate"`
	UIsDelegate       bool     `json:"u_isDelegate"`
	VoteCount         uint64   `json:"voteCount"`
	MultiMin          uint8    `json:"multimin"`
	UMultiMin         uint8    `json:"u_multimin"`
	MultiLifetime     uint8    `json:"multilifetime"`
	UMultiLifetime    uint8    `json:"u_multilifetime"`
	Multisignatures   []string `json:"multisignatures,omitempty"`
	UMultisignatures  []string `json:"u_multisignatures,omitempty"`
	ProducedBlocks    uint64   `json:"producedBlocks"`
	MissedBlocks      uint64   `json:"missedBlocks"`
	Fees              uint64   `json:"fees"`
	Rewards           uint64   `json:"rewards"`
	TotalFrozeAmount  uint64   `json:"totalFrozeAmount"`
	UTotalFrozeAmount uint64   `json:"u_totalFrozeAmount"`
	Introducer        string   `json:"introducer,omitempty"`
	GroupBonus        uint64   `json:"groupBonus"`
	PendingGroupBonus uint64   `json:"pendingGroupBonus"`
}

// Clone makes a deep copy of the account.
func (a Account) Clone() Account {
	a.Delegates = slices.Clone(a.Delegates)
	a.UDelegates = slices.Clone(a.UDelegates)
	a.Multisignatures = slices.Clone(a.Multisignatures)
	a.UMultisignatures = slices.Clone(a.UMultisignatures)
	return a
}

// Spendable returns the confirmed balance not frozen in stake.
func (a Account) Spendable() uint64 {
	if a.TotalFrozeAmount > a.Balance {
		return 0
	}
	return a.Balance - a.TotalFrozeAmount
}

// USpendable returns the unconfirmed balance not frozen in stake.
func (a Account) USpendable() uint64 {
	if a.UTotalFrozeAmount > a.UBalance {
		return 0
	}
	return a.UBalance - a.UTotalFrozeAmount
}

// Settle returns the account with every unconfirmed field reset to its
// confirmed value, which is the account with no pending transactions.
func (a Account) Settle() Account {
	a = a.Clone()
	a.USecondSignature = a.SecondSignature
	a.UBalance = a.Balance
	a.UVote = a.Vote
	a.UDelegates = slices.Clone(a.Delegates)
	a.UUsername = a.Username
	a.UIsDelegate = a.IsDelegate
	a.UMultiMin = a.MultiMin
	a.UMultiLifetime = a.MultiLifetime
	a.UMultisignatures = slices.Clone(a.Multisignatures)
	a.UTotalFrozeAmount = a.TotalFrozeAmount
	return a
}

// Dapp represents a registered decentralized application.
type Dapp struct {
	ID          string `json:"id"`
	Author      string `json:"author"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Tags        string `json:"tags,omitempty"`
	Type        uint8  `json:"type"`
	Category    uint8  `json:"category"`
	Link        string `json:"link"`
	Icon        string `json:"icon,omitempty"`
}

// Reader represents the read only view of the ledger used while verifying
// transactions. Both the Ledger and a Batch implement it.
type Reader interface {
	Account(address string) (Account, bool)
	DelegateByUsername(username string) (Account, bool)
	DelegateByPublicKey(publicKey string) (Account, bool)
	Dapp(id string) (Dapp, bool)
	DappByName(name string) (Dapp, bool)
	OutTransferUsed(transactionID string) bool
}

// =============================================================================

// Ledger manages data related to accounts who have transacted on
// the blockchain.
type Ledger struct {
	genesis      genesis.Genesis
	accounts     map[string]Account
	dapps        map[string]Dapp
	outTransfers map[string]struct{}
	mu           sync.RWMutex
}

// New constructs a ledger holding the genesis balances and delegates.
func New(genesis genesis.Genesis) *Ledger {
	l := Ledger{
		genesis: genesis,
	}
	l.load()

	return &l
}

// load resets the ledger maps to the genesis information.
func (l *Ledger) load() {
	l.accounts = make(map[string]Account)
	l.dapps = make(map[string]Dapp)
	l.outTransfers = make(map[string]struct{})

	for addr, balance := range l.genesis.Balances {
		l.accounts[addr] = Account{Address: addr, Balance: balance, UBalance: balance}
	}

	for _, dlg := range l.genesis.Delegates {
		addr, err := signature.Address(dlg.PublicKey)
		if err != nil {
			continue
		}

		acct := l.accounts[addr]
		acct.Address = addr
		acct.PublicKey = dlg.PublicKey
		acct.Username, acct.UUsername = dlg.Username, dlg.Username
		acct.IsDelegate, acct.UIsDelegate = true, true
		l.accounts[addr] = acct
	}
}

// Reset re-initalizes the ledger back to the genesis information.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.load()
}

// Account returns a copy of the account at the specified address.
func (l *Ledger) Account(address string) (Account, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	acct, exists := l.accounts[address]
	return acct.Clone(), exists
}

// DelegateByUsername finds the delegate holding the username, confirmed
// or unconfirmed.
func (l *Ledger) DelegateByUsername(username string) (Account, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.find(nil, func(a Account) bool {
		return username != "" && (a.Username == username || a.UUsername == username)
	})
}

// DelegateByPublicKey finds the delegate with the public key.
func (l *Ledger) DelegateByPublicKey(publicKey string) (Account, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.find(nil, func(a Account) bool {
		return a.PublicKey == publicKey && (a.IsDelegate || a.UIsDelegate)
	})
}

// Dapp returns the registered dapp with the specified id.
func (l *Ledger) Dapp(id string) (Dapp, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	dapp, exists := l.dapps[id]
	return dapp, exists
}

// DappByName returns the registered dapp with the specified name.
func (l *Ledger) DappByName(name string) (Dapp, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, dapp := range l.dapps {
		if dapp.Name == name {
			return dapp, true
		}
	}
	return Dapp{}, false
}

// OutTransferUsed reports if a withdrawal for the transaction id was applied.
func (l *Ledger) OutTransferUsed(transactionID string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, exists := l.outTransfers[transactionID]
	return exists
}

// Copy makes a copy of the current information for all accounts.
func (l *Ledger) Copy() map[string]Account {
	l.mu.RLock()
	defer l.mu.RUnlock()

	accounts := make(map[string]Account, len(l.accounts))
	for addr, acct := range l.accounts {
		accounts[addr] = acct.Clone()
	}
	return accounts
}

// Restore loads previously persisted accounts over the current state.
func (l *Ledger) Restore(accounts []Account) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, acct := range accounts {
		l.accounts[acct.Address] = acct.Clone()
	}
}

// RestoreRegistry loads the registered dapps and the withdrawn transaction
// ids over the current state.
func (l *Ledger) RestoreRegistry(dapps []Dapp, outTransfers []string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, dapp := range dapps {
		l.dapps[dapp.ID] = dapp
	}
	for _, id := range outTransfers {
		l.outTransfers[id] = struct{}{}
	}
}

// Update runs the function against a batch of staged changes. The changes
// become visible only when the function returns nil, otherwise the ledger
// is left untouched. The committed accounts are returned ordered by address.
func (l *Ledger) Update(fn func(b *Batch) error) ([]Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b := newBatch(l)
	if err := fn(b); err != nil {
		return nil, err
	}

	return b.commit(), nil
}

// find scans the staged and committed accounts for the first match. Staged
// accounts shadow their committed version. Addresses are scanned in order
// so the result is deterministic.
func (l *Ledger) find(staged map[string]*Account, match func(a Account) bool) (Account, bool) {
	addrs := make([]string, 0, len(l.accounts)+len(staged))
	for addr := range l.accounts {
		if _, exists := staged[addr]; !exists {
			addrs = append(addrs, addr)
		}
	}
	for addr := range staged {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)

	for _, addr := range addrs {
		acct, exists := staged[addr]
		if !exists {
			a := l.accounts[addr]
			acct = &a
		}
		if match(*acct) {
			return acct.Clone(), true
		}
	}

	return Account{}, false
}
