package accounts

import "github.com/ddknet/node/foundation/blockchain/storage"

var accountFields = []string{
	"address", "publicKey", "secondPublicKey", "secondSignature", "u_secondSignature",
	"balance", "u_balance", "vote", "u_vote", "delegates", "u_delegates",
	"username", "u_username", "url", "isDelegate", "u_isDelegate", "voteCount",
	"multimin", "u_multimin", "multilifetime", "u_multilifetime",
	"multisignatures", "u_multisignatures", "producedblocks", "missedblocks",
	"fees", "rewards", "totalFrozeAmount", "u_totalFrozeAmount",
	"introducer", "groupBonus", "pendingGroupBonus",
}

// Record returns the account as a record of the mem_accounts table.
func (a Account) Record() storage.Record {
	return storage.Record{
		Table:  storage.TableAccounts,
		Fields: accountFields,
		Values: map[string]any{
			"address":            a.Address,
			"publicKey":          a.PublicKey,
			"secondPublicKey":    a.SecondPublicKey,
			"secondSignature":    a.SecondSignature,
			"u_secondSignature":  a.USecondSignature,
			"balance":            a.Balance,
			"u_balance":          a.UBalance,
			"vote":               a.Vote,
			"u_vote":             a.UVote,
			"delegates":          a.Delegates,
			"u_delegates":        a.UDelegates,
			"username":           a.Username,
			"u_username":         a.UUsername,
			"url":                a.URL,
			"isDelegate":         a.IsDelegate,
			"u_isDelegate":       a.UIsDelegate,
			"voteCount":          a.VoteCount,
			"multimin":           a.MultiMin,
			"u_multimin":         a.UMultiMin,
			"multilifetime":      a.MultiLifetime,
			"u_multilifetime":    a.UMultiLifetime,
			"multisignatures":    a.Multisignatures,
			"u_multisignatures":  a.UMultisignatures,
			"producedblocks":     a.ProducedBlocks,
			"missedblocks":       a.MissedBlocks,
			"fees":               a.Fees,
			"rewards":            a.Rewards,
			"totalFrozeAmount":   a.TotalFrozeAmount,
			"u_totalFrozeAmount": a.UTotalFrozeAmount,
			"introducer":         a.Introducer,
			"groupBonus":         a.GroupBonus,
			"pendingGroupBonus":  a.PendingGroupBonus,
		},
	}
}

// FromRow reconstructs an account from a mem_accounts row.
func FromRow(row storage.Row) (Account, error) {
	r := storage.NewRowReader(row)

	acct := Account{
		Address:           r.String("address"),
		PublicKey:         r.String("publicKey"),
		SecondPublicKey:   r.String("secondPublicKey"),
		SecondSignature:   r.Bool("secondSignature"),
		USecondSignature:  r.Bool("u_secondSignature"),
		Balance:           r.Uint64("balance"),
		UBalance:          r.Uint64("u_balance"),
		Vote:              r.Uint64("vote"),
		UVote:             r.Uint64("u_vote"),
		Delegates:         r.List("delegates"),
		UDelegates:        r.List("u_delegates"),
		Username:          r.String("username"),
		UUsername:         r.String("u_username"),
		URL:               r.String("url"),
		IsDelegate:        r.Bool("isDelegate"),
		UIsDelegate:       r.Bool("u_isDelegate"),
		VoteCount:         r.Uint64("voteCount"),
		MultiMin:          r.Uint8("multimin"),
		UMultiMin:         r.Uint8("u_multimin"),
		MultiLifetime:     r.Uint8("multilifetime"),
		UMultiLifetime:    r.Uint8("u_multilifetime"),
		Multisignatures:   r.List("multisignatures"),
		UMultisignatures:  r.List("u_multisignatures"),
		ProducedBlocks:    r.Uint64("producedblocks"),
		MissedBlocks:      r.Uint64("missedblocks"),
		Fees:              r.Uint64("fees"),
		Rewards:           r.Uint64("rewards"),
		TotalFrozeAmount:  r.Uint64("totalFrozeAmount"),
		UTotalFrozeAmount: r.Uint64("u_totalFrozeAmount"),
		Introducer:        r.String("introducer"),
		GroupBonus:        r.Uint64("groupBonus"),
		PendingGroupBonus: r.Uint64("pendingGroupBonus"),
	}

	if err := r.Err(); err != nil {
		return Account{}, err
	}

	return acct, nil
}
