package engine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MRamiBalles/PocketOffice/server/internal/events"
)

var (
	// ErrInsufficientFunds is returned when cash cannot cover a payment.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidAmount is returned for negative movements and non-positive loans.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrLoanActive is returned when taking a second loan.
	ErrLoanActive = errors.New("a loan is already active")
	// ErrNoActiveLoan is returned when repaying without a loan.
	ErrNoActiveLoan = errors.New("no active loan")
)

// DefaultInterestRate is charged on the loan principal every month.
const DefaultInterestRate = 0.05

// LedgerEntry is one immutable cash movement. Positive is income, negative is expense.
type LedgerEntry struct {
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Month       int    `json:"month"`
	Year        int    `json:"year"`
}

// Ledger owns the company's cash, cumulative totals, the loan and the transaction log.
// Cash always equals the starting cash plus the sum of every entry.
type Ledger struct {
	ctx *Context

	startingCash  int64
	cash          int64
	totalEarned   int64
	totalSpent    int64
	loanPrincipal int64
	interestRate  decimal.Decimal
	entries       []LedgerEntry
}

// NewLedger creates a ledger charging rate per month on loans.
func NewLedger(ctx *Context, rate float64) *Ledger {
	return &Ledger{ctx: ctx, interestRate: decimal.NewFromFloat(rate)}
}

// Initialize resets cash, totals, the loan and the log.
// Cumulative earned starts at the opening balance so tier checks count the seed money.
func (l *Ledger) Initialize(startingCash int64) {
	l.startingCash = startingCash
	l.cash = startingCash
	l.totalEarned = startingCash
	l.totalSpent = 0
	l.loanPrincipal = 0
	l.entries = nil
}

// AddRevenue credits a non-negative amount.
func (l *Ledger) AddRevenue(amount int64, description string) error {
	if amount < 0 {
		return fmt.Errorf("%w: revenue %d", ErrInvalidAmount, amount)
	}
	l.cash += amount
	l.totalEarned += amount
	l.log(description, amount)
	l.notifyCash()
	return nil
}

// Spend debits amount if cash covers it; otherwise nothing changes.
func (l *Ledger) Spend(amount int64, description string) error {
	if amount < 0 {
		return fmt.Errorf("%w: spend %d", ErrInvalidAmount, amount)
	}
	if l.cash < amount {
		l.ctx.Logger.Warn("not enough cash", "amount", amount, "description", description, "cash", l.cash)
		return ErrInsufficientFunds
	}
	l.cash -= amount
	l.totalSpent += amount
	l.log(description, -amount)
	l.notifyCash()
	return nil
}

// ProcessMonthlyCosts deducts salaries, rent and loan interest unconditionally.
// Cash may go negative, which raises a bankrupt notification but does not stop the game.
func (l *Ledger) ProcessMonthlyCosts(totalSalary, monthlyRent int64) {
	operating := totalSalary + monthlyRent
	total := operating

	if l.loanPrincipal > 0 {
		interest := l.Interest()
		l.loanPrincipal += interest
		total += interest
		l.log("Loan Interest", -interest)
	}

	l.cash -= total
	l.totalSpent += total
	l.log("Monthly Costs (Salaries + Rent)", -operating)
	l.notifyCash()

	if l.cash < 0 {
		l.ctx.Emit(events.EventTypeBankrupt, events.CashChangedPayload{Cash: l.cash})
		l.ctx.Logger.Warn("company is insolvent", "cash", l.cash)
	}
}

// Interest is what the current principal accrues this month, truncated to whole units.
func (l *Ledger) Interest() int64 {
	return decimal.NewFromInt(l.loanPrincipal).Mul(l.interestRate).IntPart()
}

// TakeLoan opens the single allowed loan and credits its principal.
func (l *Ledger) TakeLoan(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: loan %d", ErrInvalidAmount, amount)
	}
	if l.loanPrincipal > 0 {
		return ErrLoanActive
	}
	l.loanPrincipal = amount
	if err := l.AddRevenue(amount, "Business Loan"); err != nil {
		l.loanPrincipal = 0
		return err
	}
	l.ctx.Logger.Info("loan taken", "amount", amount, "monthly_rate", l.interestRate.String())
	return nil
}

// RepayLoan pays back up to amount, never more than the outstanding principal.
func (l *Ledger) RepayLoan(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: repayment %d", ErrInvalidAmount, amount)
	}
	if l.loanPrincipal <= 0 {
		return ErrNoActiveLoan
	}
	if l.cash < amount {
		return ErrInsufficientFunds
	}
	repay := min(amount, l.loanPrincipal)
	if err := l.Spend(repay, "Loan Repayment"); err != nil {
		return err
	}
	l.loanPrincipal -= repay
	return nil
}

// Cash is the current balance.
func (l *Ledger) Cash() int64 { return l.cash }

// StartingCash is the balance the ledger was initialized with.
func (l *Ledger) StartingCash() int64 { return l.startingCash }

// TotalEarned is cumulative income including the opening balance.
func (l *Ledger) TotalEarned() int64 { return l.totalEarned }

// TotalSpent is cumulative expenses.
func (l *Ledger) TotalSpent() int64 { return l.totalSpent }

// LoanPrincipal is the outstanding loan, zero when none is active.
func (l *Ledger) LoanPrincipal() int64 { return l.loanPrincipal }

// InterestRate is the monthly loan rate.
func (l *Ledger) InterestRate() float64 { return l.interestRate.InexactFloat64() }

// Entries returns a copy of the transaction log.
func (l *Ledger) Entries() []LedgerEntry {
	return append([]LedgerEntry(nil), l.entries...)
}

func (l *Ledger) log(description string, amount int64) {
	entry := LedgerEntry{Description: description, Amount: amount}
	if c := l.ctx.Company; c != nil {
		entry.Month, entry.Year = c.Month, c.Year
	}
	l.entries = append(l.entries, entry)
}

func (l *Ledger) notifyCash() {
	l.ctx.Emit(events.EventTypeCashChanged, events.CashChangedPayload{Cash: l.cash})
}
