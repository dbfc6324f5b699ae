// Package hostmock provides in-memory test doubles for the host
// package's collaborator interfaces, letting engine-level tests run
// fully in-process without a real token contract, bank, or token
// factory. Not used by production code.
package hostmock

import (
	"cosmossdk.io/math"

	"github.com/ledgerforge/bondex/errs"
	"github.com/ledgerforge/bondex/host"
)

// TokenContract is an in-memory host.TokenContract.
type TokenContract struct {
	balances   map[string]map[string]math.Int // tokenID -> owner -> balance
	allowances map[string]map[string]math.Int // tokenID -> "owner:spender" -> amount
}

// NewTokenContract builds an empty mock token contract.
func NewTokenContract() *TokenContract {
	return &TokenContract{
		balances:   make(map[string]map[string]math.Int),
		allowances: make(map[string]map[string]math.Int),
	}
}

// Mint credits owner with amount of tokenID, used by tests to seed
// the engine's own balance after a simulated CreateToken commit.
func (m *TokenContract) Mint(tokenID, owner string, amount math.Int) {
	m.ensureToken(tokenID)
	m.balances[tokenID][owner] = getOrZero(m.balances[tokenID], owner).Add(amount)
}

func (m *TokenContract) ensureToken(tokenID string) {
	if _, ok := m.balances[tokenID]; !ok {
		m.balances[tokenID] = make(map[string]math.Int)
	}
	if _, ok := m.allowances[tokenID]; !ok {
		m.allowances[tokenID] = make(map[string]math.Int)
	}
}

func allowanceKey(owner, spender string) string { return owner + ":" + spender }

func getOrZero(m map[string]math.Int, key string) math.Int {
	if v, ok := m[key]; ok {
		return v
	}
	return math.ZeroInt()
}

func (m *TokenContract) Transfer(tokenID, to string, amount math.Int) error {
	return m.TransferFrom(tokenID, "", to, amount)
}

func (m *TokenContract) TransferFrom(tokenID, from, to string, amount math.Int) error {
	m.ensureToken(tokenID)
	bal := getOrZero(m.balances[tokenID], from)
	if bal.LT(amount) {
		return errs.ErrPayment.Wrap("insufficient balance")
	}
	m.balances[tokenID][from] = bal.Sub(amount)
	m.balances[tokenID][to] = getOrZero(m.balances[tokenID], to).Add(amount)
	return nil
}

func (m *TokenContract) IncreaseAllowance(tokenID, spender string, amount math.Int) error {
	m.ensureToken(tokenID)
	key := allowanceKey("", spender)
	m.allowances[tokenID][key] = getOrZero(m.allowances[tokenID], key).Add(amount)
	return nil
}

// SetAllowance seeds owner's allowance to spender directly, for
// callers that need a specific owner in the key (IncreaseAllowance's
// real signature carries no owner: on a live CW20 contract that
// caller is the message sender, which this mock has no call context
// to recover).
func (m *TokenContract) SetAllowance(tokenID, owner, spender string, amount math.Int) {
	m.ensureToken(tokenID)
	m.allowances[tokenID][allowanceKey(owner, spender)] = amount
}

func (m *TokenContract) Balance(tokenID, owner string) (math.Int, error) {
	m.ensureToken(tokenID)
	if v, ok := m.balances[tokenID][owner]; ok {
		return v, nil
	}
	return math.ZeroInt(), nil
}

func (m *TokenContract) Allowance(tokenID, owner, spender string) (math.Int, error) {
	m.ensureToken(tokenID)
	if v, ok := m.allowances[tokenID][allowanceKey(owner, spender)]; ok {
		return v, nil
	}
	return math.ZeroInt(), nil
}

var _ host.TokenContract = (*TokenContract)(nil)

// Bank is an in-memory host.Bank.
type Bank struct {
	balances  map[string]map[string]math.Int // denom -> owner -> balance
	attached  map[string]math.Int            // denom -> amount attached to the current call
}

// NewBank builds an empty mock bank.
func NewBank() *Bank {
	return &Bank{
		balances: make(map[string]map[string]math.Int),
		attached: make(map[string]math.Int),
	}
}

// SetAttached simulates the caller attaching amount of denom to the
// next invocation, consumed by AttachedFunds.
func (b *Bank) SetAttached(denom string, amount math.Int) {
	b.attached[denom] = amount
}

func (b *Bank) Send(denom, to string, amount math.Int) error {
	if _, ok := b.balances[denom]; !ok {
		b.balances[denom] = make(map[string]math.Int)
	}
	b.balances[denom][to] = getOrZero(b.balances[denom], to).Add(amount)
	return nil
}

func (b *Bank) AttachedFunds(denom string) math.Int {
	if v, ok := b.attached[denom]; ok {
		return v
	}
	return math.ZeroInt()
}

var _ host.Bank = (*Bank)(nil)

// TokenFactory is an in-memory host.TokenFactory: RequestCreateToken
// just records the pending request so the test can synthesize the
// phase-2 reply itself.
type TokenFactory struct {
	Pending map[string]host.TokenCreationRequest
}

// NewTokenFactory builds an empty mock token factory.
func NewTokenFactory() *TokenFactory {
	return &TokenFactory{Pending: make(map[string]host.TokenCreationRequest)}
}

func (f *TokenFactory) RequestCreateToken(correlationID string, req host.TokenCreationRequest) error {
	f.Pending[correlationID] = req
	return nil
}

var _ host.TokenFactory = (*TokenFactory)(nil)

// SecondaryAMM is a trivial host.SecondaryAMM.
type SecondaryAMM struct {
	Addr string
}

func (a *SecondaryAMM) Address() string { return a.Addr }

var _ host.SecondaryAMM = (*SecondaryAMM)(nil)
