package patterns

import "fmt"

// Key identifies one invoice attribute. The set is closed.
type Key int

const (
	InvoiceNumber Key = iota
	IssueDate
	DueDate
	BillingPeriod
	CUFE
	CustomerName
	CustomerTaxID
	Contract
	City
	Address
	Email
	Phone

	TotalPayable
	TotalBilled
	Advance
	Interest

	AmountInWords
	PaymentMethod
	Bank
	AccountType
	AccountNumber
	PaymentForm
	IPP
	TRM
	Observations

	numKeys
)

var keyNames = [numKeys]string{
	InvoiceNumber: "invoice_number",
	IssueDate:     "issue_date",
	DueDate:       "due_date",
	BillingPeriod: "billing_period",
	CUFE:          "cufe",
	CustomerName:  "customer_name",
	CustomerTaxID: "customer_tax_id",
	Contract:      "contract",
	City:          "city",
	Address:       "address",
	Email:         "email",
	Phone:         "phone",
	TotalPayable:  "total_payable",
	TotalBilled:   "total_billed",
	Advance:       "advance",
	Interest:      "interest",
	AmountInWords: "amount_in_words",
	PaymentMethod: "payment_method",
	Bank:          "bank",
	AccountType:   "account_type",
	AccountNumber: "account_number",
	PaymentForm:   "payment_form",
	IPP:           "ipp",
	TRM:           "trm",
	Observations:  "observations",
}

// Keys returns every key in declaration order.
func Keys() []Key {
	out := make([]Key, numKeys)
	for i := range out {
		out[i] = Key(i)
	}
	return out
}

func (k Key) String() string {
	if k < 0 || k >= numKeys {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return keyNames[k]
}

// MarshalText lets keys be used as JSON object keys.
func (k Key) MarshalText() ([]byte, error) {
	if k < 0 || k >= numKeys {
		return nil, fmt.Errorf("unknown field key %d", int(k))
	}
	return []byte(keyNames[k]), nil
}

func (k *Key) UnmarshalText(b []byte) error {
	name := string(b)
	for i, n := range keyNames {
		if n == name {
			*k = Key(i)
			return nil
		}
	}
	return fmt.Errorf("unknown field key %q", name)
}
