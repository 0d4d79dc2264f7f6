package accounts

import (
	"sort"

	"github.com/ddknet/node/foundation/blockchain/fault"
	"github.com/ethereum/go-ethereum/common/math"
)

// Batch represents a set of staged changes against the ledger. A batch is
// only valid inside the function provided to Ledger.Update.
type Batch struct {
	ledger       *Ledger
	accounts     map[string]*Account
	dapps        map[string]*Dapp
	outTransfers map[string]bool
}

func newBatch(l *Ledger) *Batch {
	return &Batch{
		ledger:       l,
		accounts:     make(map[string]*Account),
		dapps:        make(map[string]*Dapp),
		outTransfers: make(map[string]bool),
	}
}

// Account returns a copy of the staged or committed account.
func (b *Batch) Account(address string) (Account, bool) {
	if acct, exists := b.accounts[address]; exists {
		return acct.Clone(), true
	}

	acct, exists := b.ledger.accounts[address]
	return acct.Clone(), exists
}

// stage returns the staged copy of the account, creating the account when
// it does not exist yet.
func (b *Batch) stage(address string) *Account {
	if acct, exists := b.accounts[address]; exists {
		return acct
	}

	acct, exists := b.ledger.accounts[address]
	if !exists {
		acct = Account{Address: address}
	}

	acct = acct.Clone()
	b.accounts[address] = &acct
	return &acct
}

// Modify applies the function to the staged copy of the account.
func (b *Batch) Modify(address string, fn func(a *Account) error) error {
	return fn(b.stage(address))
}

// SetPublicKey records the public key of the account the first time it
// is seen.
func (b *Batch) SetPublicKey(address string, publicKey string) {
	acct := b.stage(address)
	if acct.PublicKey == "" {
		acct.PublicKey = publicKey
	}
}

// Credit adds the amount to the confirmed balance.
func (b *Batch) Credit(address string, amount uint64) error {
	acct := b.stage(address)

	balance, overflow := math.SafeAdd(acct.Balance, amount)
	if overflow {
		return fault.Verificationf("balance of %s overflows", address)
	}

	acct.Balance = balance
	return nil
}

// Debit removes the amount from the confirmed balance.
func (b *Batch) Debit(address string, amount uint64) error {
	acct := b.stage(address)

	balance, underflow := math.SafeSub(acct.Balance, amount)
	if underflow {
		return fault.Verificationf("account %s does not have enough balance: %d", address, acct.Balance)
	}

	acct.Balance = balance
	return nil
}

// UCredit adds the amount to the unconfirmed balance.
func (b *Batch) UCredit(address string, amount uint64) error {
	acct := b.stage(address)

	balance, overflow := math.SafeAdd(acct.UBalance, amount)
	if overflow {
		return fault.Verificationf("unconfirmed balance of %s overflows", address)
	}

	acct.UBalance = balance
	return nil
}

// UDebit removes the amount from the unconfirmed balance.
func (b *Batch) UDebit(address string, amount uint64) error {
	acct := b.stage(address)

	balance, underflow := math.SafeSub(acct.UBalance, amount)
	if underflow {
		return fault.Verificationf("account %s does not have enough unconfirmed balance: %d", address, acct.UBalance)
	}

	acct.UBalance = balance
	return nil
}

// DelegateByUsername finds the delegate holding the username, confirmed
// or unconfirmed, taking staged changes into account.
func (b *Batch) DelegateByUsername(username string) (Account, bool) {
	return b.ledger.find(b.accounts, func(a Account) bool {
		return username != "" && (a.Username == username || a.UUsername == username)
	})
}

// DelegateByPublicKey finds the delegate with the public key, taking staged
// changes into account.
func (b *Batch) DelegateByPublicKey(publicKey string) (Account, bool) {
	return b.ledger.find(b.accounts, func(a Account) bool {
		return a.PublicKey == publicKey && (a.IsDelegate || a.UIsDelegate)
	})
}

// Dapp returns the staged or committed dapp with the specified id.
func (b *Batch) Dapp(id string) (Dapp, bool) {
	if dapp, exists := b.dapps[id]; exists {
		if dapp == nil {
			return Dapp{}, false
		}
		return *dapp, true
	}

	dapp, exists := b.ledger.dapps[id]
	return dapp, exists
}

// DappByName returns the staged or committed dapp with the specified name.
func (b *Batch) DappByName(name string) (Dapp, bool) {
	for _, dapp := range b.dapps {
		if dapp != nil && dapp.Name == name {
			return *dapp, true
		}
	}

	for id, dapp := range b.ledger.dapps {
		if _, staged := b.dapps[id]; staged {
			continue
		}
		if dapp.Name == name {
			return dapp, true
		}
	}

	return Dapp{}, false
}

// RegisterDapp stages a new dapp.
func (b *Batch) RegisterDapp(dapp Dapp) error {
	if _, exists := b.Dapp(dapp.ID); exists {
		return fault.Verificationf("dapp %s already exists", dapp.ID)
	}

	b.dapps[dapp.ID] = &dapp
	return nil
}

// RemoveDapp stages the removal of a dapp.
func (b *Batch) RemoveDapp(id string) {
	b.dapps[id] = nil
}

// OutTransferUsed reports if a withdrawal for the transaction id was applied.
func (b *Batch) OutTransferUsed(transactionID string) bool {
	if used, exists := b.outTransfers[transactionID]; exists {
		return used
	}

	_, exists := b.ledger.outTransfers[transactionID]
	return exists
}

// MarkOutTransfer stages the transaction id as withdrawn.
func (b *Batch) MarkOutTransfer(transactionID string) {
	b.outTransfers[transactionID] = true
}

// UnmarkOutTransfer stages the release of a withdrawn transaction id.
func (b *Batch) UnmarkOutTransfer(transactionID string) {
	b.outTransfers[transactionID] = false
}

// commit moves the staged changes into the ledger. The caller must hold
// the ledger write lock.
func (b *Batch) commit() []Account {
	committed := make([]Account, 0, len(b.accounts))
	for addr, acct := range b.accounts {
		b.ledger.accounts[addr] = *acct
		committed = append(committed, acct.Clone())
	}

	for id, dapp := range b.dapps {
		switch dapp {
		case nil:
			delete(b.ledger.dapps, id)
		default:
			b.ledger.dapps[id] = *dapp
		}
	}

	for id, used := range b.outTransfers {
		switch used {
		case true:
			b.ledger.outTransfers[id] = struct{}{}
		default:
			delete(b.ledger.outTransfers, id)
		}
	}

	sort.Slice(committed, func(i, j int) bool {
		return committed[i].Address < committed[j].Address
	})

	return committed
}
