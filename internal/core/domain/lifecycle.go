package domain

import "multicurrency-wallet/pkg/money"

// transition is a lifecycle action requested against a wallet.
type transition struct {
	wallet Wallet
	action TransactionType
}

var lifecycleTable = []precondition[transition]{
	{ErrCodeWalletClosed, func(t transition) bool { return t.wallet.Status.IsTerminal() }},
	{ErrCodeWalletNotEmpty, func(t transition) bool {
		return t.action == TransactionTypeClose && !t.wallet.Balance.IsZero()
	}},
}

var lifecycleTargets = map[TransactionType]WalletStatus{
	TransactionTypeFreeze:   WalletStatusFrozen,
	TransactionTypeUnfreeze: WalletStatusActive,
	TransactionTypeClose:    WalletStatusClosed,
}

// ApplyStatusChange runs a freeze, unfreeze or close against w.
//
// Freezing a FROZEN wallet and unfreezing an ACTIVE one succeed without
// changing the wallet. The attempt is still recorded.
func ApplyStatusChange(w Wallet, action TransactionType, e Entry) Outcome {
	target, ok := lifecycleTargets[action]
	if !ok {
		panic("domain: not a lifecycle action: " + string(action))
	}
	tx := Transaction{
		ID:        e.ID,
		WalletID:  w.ID,
		Type:      action,
		Amount:    money.Zero(w.Currency),
		Currency:  w.Currency,
		CreatedAt: e.At,
	}
	if code := firstViolation(lifecycleTable, transition{w, action}); code != "" {
		return reject(w, nil, tx, code)
	}
	if w.Status != target {
		w.Status = target
		w.UpdatedAt = e.At
	}
	return complete(w, nil, tx)
}
