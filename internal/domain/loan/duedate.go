package loan

import "time"

const (
	DueDay = 10
	// NotApplicable is the due-date label of loans that are not repaying.
	NotApplicable = "N/A"

	dueDateLayout = "Jan 2, 2006"
)

// NextDueDate is the 10th of the month after the last CREDIT entry, or after
// creation when nothing has been credited yet. ok is false unless the loan
// is approved.
func NextDueDate(l *Loan) (due time.Time, ok bool) {
	if l.Status != StatusApproved {
		return time.Time{}, false
	}
	base := l.CreatedAt
	for i := len(l.Transactions) - 1; i >= 0; i-- {
		if l.Transactions[i].Flow == FlowCredit {
			base = l.Transactions[i].Date
			break
		}
	}
	y, m, _ := base.Date()
	return time.Date(y, m+1, DueDay, 0, 0, 0, 0, base.Location()), true
}

func DueDateLabel(l *Loan) string {
	due, ok := NextDueDate(l)
	if !ok {
		return NotApplicable
	}
	return due.Format(dueDateLayout)
}
