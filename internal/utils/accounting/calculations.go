package accounting

import (
	"errors"
	"fmt"

	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	"github.com/shopspring/decimal"
)

var (
	// ErrEntryMinLines indicates an entry had fewer than two lines.
	ErrEntryMinLines = errors.New("journal entry must have at least two lines")
	// ErrUnbalancedEntry indicates normalized debits and credits differ.
	ErrUnbalancedEntry = errors.New("journal entry debits and credits do not balance")
)

// SignedDelta computes the effect of a single line on its account's persisted
// balance, using the account's nature. Debit-natured accounts grow on debits;
// credit-natured accounts grow on credits. The normalized amount drives the
// delta so balances stay in the entry's working currency.
func SignedDelta(line domain.JournalLine, isDebitNatured bool) decimal.Decimal {
	amount := line.NormalizedAmount.Amount
	isDebit := line.Direction == domain.Debit
	if isDebit != isDebitNatured {
		return amount.Neg()
	}
	return amount
}

// ValidateEntryBalance enforces the double-entry law over normalized amounts:
// sum(debits) must equal sum(credits) exactly, no tolerance. Line amounts must
// be strictly positive.
func ValidateEntryBalance(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return ErrEntryMinLines
	}

	debits := decimal.Zero
	credits := decimal.Zero
	for _, line := range lines {
		if !line.NormalizedAmount.Amount.IsPositive() {
			return fmt.Errorf("line %d amount must be positive, got %s",
				line.LineNumber, line.NormalizedAmount.Amount.String())
		}
		if line.Direction == domain.Debit {
			debits = debits.Add(line.NormalizedAmount.Amount)
		} else {
			credits = credits.Add(line.NormalizedAmount.Amount)
		}
	}

	if !debits.Equal(credits) {
		return fmt.Errorf("%w: debits sum is %s and credits sum is %s",
			ErrUnbalancedEntry, debits.String(), credits.String())
	}
	return nil
}

// EntryAmount computes the economic value of a balanced entry: the debit-side
// total in the working currency.
func EntryAmount(lines []domain.JournalLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		if line.Direction == domain.Debit {
			total = total.Add(line.NormalizedAmount.Amount)
		}
	}
	return total
}

// BalanceChanges aggregates the per-account net balance deltas an entry's
// lines produce. natures maps account ID to its debit-natured flag.
func BalanceChanges(lines []domain.JournalLine, natures map[string]bool) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal, len(lines))
	for _, line := range lines {
		nature, ok := natures[line.AccountID]
		if !ok {
			return nil, fmt.Errorf("account nature not known for account %s", line.AccountID)
		}
		changes[line.AccountID] = changes[line.AccountID].Add(SignedDelta(line, nature))
	}
	return changes, nil
}
